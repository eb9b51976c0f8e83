package element

import "fmt"

// Code is a machine-readable error kind, following the taxonomy of
// spec.md §7 and the teacher's ErrorCode pattern in
// internal/model/errors.go.
type Code string

const (
	CodeBadQuery         Code = "BAD_QUERY"
	CodeBadRange         Code = "BAD_RANGE"
	CodeMalformedRecord  Code = "MALFORMED_RECORD"
	CodeKindMismatch     Code = "KIND_MISMATCH"
	CodeUnknownQualifier Code = "UNKNOWN_QUALIFIER"
	CodeAmbiguous        Code = "AMBIGUOUS"
	CodeUnsupported      Code = "UNSUPPORTED"
)

// Error is the structured error value raised within the core. Most call
// sites don't propagate it (per spec.md §7's recovery policy); it exists
// so the places that DO log a warning have a uniform shape to log.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds an Error with the given code and message.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Warning is a non-fatal diagnostic produced by post-processing or path
// resolution. Callers may collect these; the core never raises them as
// errors.
type Warning struct {
	Code    Code
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}
