package gomapper

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/reoring/gomapper/i18n"
)

// Error codes carried by DeserializeError.
const (
	CodeInvalidType     = "invalid_type"
	CodeRequired        = "required"
	CodeNotObject       = "not_object"
	CodeUnsupportedKind = "unsupported_kind"
	CodeIncomplete      = "incomplete"
	CodeUnknownKey      = "unknown_key"
	CodeOverflow        = "overflow"
	CodeUnresolvable    = "unresolvable"
	CodeConstructor     = "constructor"
	CodeValidation      = "validation"
	CodeMaxDepth        = "max_depth"
	CodeParseError      = "parse_error"
)

// ErrDeserialize is the single signal kind of every deserialization failure.
// Use errors.Is(err, ErrDeserialize) to test for it.
var ErrDeserialize = errors.New("gomapper: deserialize failed")

// ErrCycle is returned by Serialize when the cycle guard detects an object
// that is already being serialized further up the graph.
var ErrCycle = errors.New("gomapper: cycle detected")

// DeserializeError describes why a Mapping could not be turned into an object.
type DeserializeError struct {
	Path    string // JSON Pointer (for example: /comment/id).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

func (e *DeserializeError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = i18n.T(e.Code, nil)
	}
	path := e.Path
	if path == "" {
		path = "/"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s at %s: %s: %v", e.Code, path, msg, e.Cause)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, path, msg)
}

func (e *DeserializeError) Is(target error) bool { return target == ErrDeserialize }

func (e *DeserializeError) Unwrap() error { return e.Cause }

// AsDeserializeError extracts a DeserializeError using errors.As internally.
func AsDeserializeError(err error) (*DeserializeError, bool) {
	if err == nil {
		return nil, false
	}
	var de *DeserializeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func deserializeErr(path, code string, data map[string]string) *DeserializeError {
	return &DeserializeError{Path: path, Code: code, Message: i18n.T(code, data)}
}

// rebase prefixes the path of a nested failure with the parent location.
func rebase(base string, err error) error {
	de, ok := AsDeserializeError(err)
	if !ok {
		return &DeserializeError{Path: base, Code: CodeParseError, Message: err.Error(), Cause: err}
	}
	if base == "" || base == "/" {
		return de
	}
	p := de.Path
	switch {
	case p == "" || p == "/":
		p = base
	case p[0] == '/':
		p = base + p
	default:
		p = base + "/" + p
	}
	return &DeserializeError{Path: p, Code: de.Code, Message: de.Message, Cause: de.Cause}
}

// ResolutionError reports a type whose metadata cannot be derived. It is a
// programming or configuration defect, not a data validation failure.
type ResolutionError struct {
	Type   reflect.Type
	Field  string
	Reason string
}

func (e *ResolutionError) Error() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.String()
	}
	if e.Field != "" {
		return fmt.Sprintf("gomapper: cannot resolve %s.%s: %s", name, e.Field, e.Reason)
	}
	return fmt.Sprintf("gomapper: cannot resolve %s: %s", name, e.Reason)
}

// AsResolutionError extracts a ResolutionError using errors.As internally.
func AsResolutionError(err error) (*ResolutionError, bool) {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
