package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gomapper"
	"github.com/reoring/gomapper/middleware"
)

type signup struct {
	Email string  `json:"email"`
	Age   int     `json:"age"`
	Ref   *string `json:"ref"`
}

func serve(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/signup", strings.NewReader(body))
	h.ServeHTTP(rec, req)
	return rec
}

func TestDecodeJSON(t *testing.T) {
	var got signup
	h := middleware.DecodeJSON[signup](middleware.Options{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := middleware.DecodedFromContext[signup](r.Context())
		require.True(t, ok)
		got = v
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("Should store the decoded value in the request context", func(t *testing.T) {
		rec := serve(t, h, `{"email": "a@example.com", "age": 30}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, signup{Email: "a@example.com", Age: 30}, got)
	})

	t.Run("Should answer 400 with issues for invalid bodies", func(t *testing.T) {
		rec := serve(t, h, `{"email": "a@example.com", "age": "old"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var payload struct {
			Issues []middleware.Issue `json:"issues"`
		}
		require.NoError(t, gojson.Unmarshal(rec.Body.Bytes(), &payload))
		require.Len(t, payload.Issues, 1)
		assert.Equal(t, "/age", payload.Issues[0].Path)
		assert.Equal(t, gomapper.CodeInvalidType, payload.Issues[0].Code)
	})

	t.Run("Should reject unknown keys by default", func(t *testing.T) {
		rec := serve(t, h, `{"email": "a@example.com", "age": 1, "admin": true}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), gomapper.CodeUnknownKey)
	})

	t.Run("Should honour a custom mapper", func(t *testing.T) {
		lenient := middleware.DecodeJSON[signup](middleware.Options{Mapper: gomapper.New()})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))

		rec := serve(t, lenient, `{"email": "a@example.com", "age": 1, "admin": true}`)

		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("Should answer 413 for oversized bodies", func(t *testing.T) {
		small := middleware.DecodeJSON[signup](middleware.Options{MaxBytes: 8})(http.NotFoundHandler())

		rec := serve(t, small, `{"email": "a@example.com", "age": 1}`)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestStatus(t *testing.T) {
	t.Run("Should map deserialize errors to 400 and others to 500", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, middleware.Status(&gomapper.DeserializeError{Code: gomapper.CodeRequired}))
		assert.Equal(t, http.StatusInternalServerError, middleware.Status(errors.New("boom")))
	})
}

func TestWriteJSON(t *testing.T) {
	t.Run("Should keep ordered keys", func(t *testing.T) {
		o, err := gomapper.New().SerializeOrdered(t.Context(), signup{Email: "e", Age: 2})
		require.NoError(t, err)
		rec := httptest.NewRecorder()

		middleware.WriteJSON(rec, http.StatusOK, o)

		assert.Equal(t, `{"email":"e","age":2,"ref":null}`, rec.Body.String())
	})
}
