// Package middleware deserializes HTTP request bodies through a gomapper
// Mapper and reports failures as JSON issue lists.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/gomapper"
	"github.com/reoring/gomapper/logger"
)

// DefaultMaxBytes bounds request bodies when Options.MaxBytes is zero.
const DefaultMaxBytes = 1 << 20

// ctxKeyDecoded is a typed context key for storing a decoded T.
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a decoded value to the context.
func ContextWithDecoded[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, v)
}

// DecodedFromContext retrieves a value stored by ContextWithDecoded.
func DecodedFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(T)
	return v, ok
}

// Options configures request decoding.
type Options struct {
	// Mapper decodes bodies; a mapper with UnknownStrict is built when nil.
	Mapper   *gomapper.Mapper
	MaxBytes int64
}

func (o Options) mapper() *gomapper.Mapper {
	if o.Mapper != nil {
		return o.Mapper
	}
	return gomapper.New(gomapper.WithUnknownKeys(gomapper.UnknownStrict))
}

// Issue is the JSON shape of one failure.
type Issue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorPayload shapes err for JSON responses.
func ErrorPayload(err error) map[string]any {
	if de, ok := gomapper.AsDeserializeError(err); ok {
		return map[string]any{"issues": []Issue{{Path: de.Path, Code: de.Code, Message: de.Message}}}
	}
	return map[string]any{"error": err.Error()}
}

// Status maps err to an HTTP status: data errors are the client's fault,
// anything else is ours.
func Status(err error) int {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, gomapper.ErrDeserialize):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads r's body and deserializes it into a T.
func Decode[T any](r *http.Request, opt Options) (T, error) {
	var zero T
	limit := opt.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, limit))
	if err != nil {
		return zero, fmt.Errorf("reading body: %w", err)
	}
	v, err := opt.mapper().Unmarshal(r.Context(), body, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// DecodeJSON decodes every request body into a T, stores it in the request
// context and calls next. Failures end the request with an error payload.
func DecodeJSON[T any](opt Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, err := Decode[T](r, opt)
			if err != nil {
				logger.FromContext(r.Context(), nil).Debug("rejected request body", "path", r.URL.Path, "error", err)
				WriteJSON(w, Status(err), ErrorPayload(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithDecoded(r.Context(), v)))
		})
	}
}

// WriteJSON writes v with the given status. *gomapper.Ordered values keep
// their key order.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	b, err := gojson.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
