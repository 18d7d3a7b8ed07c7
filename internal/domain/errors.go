package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal error")
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a bad-request error carrying a summary message and the
// individual field failures behind it. It unwraps to ErrBadRequest.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return ErrBadRequest }

func invalid(msg string, fields ...FieldError) error {
	return &ValidationError{Message: msg, Fields: fields}
}

// Error is a classified failure whose Msg is shown to API callers as is.
// It unwraps to Kind, one of the sentinels above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func BadRequest(msg string) error   { return &Error{Kind: ErrBadRequest, Msg: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Msg: msg} }
func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Msg: msg} }
func Internal(msg string) error     { return &Error{Kind: ErrInternal, Msg: msg} }

// Message returns the user-facing text of err: the validation summary, the
// Msg of a domain Error, or the text before a directly wrapped sentinel.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	msg := err.Error()
	for _, s := range []error{ErrNotFound, ErrConflict, ErrUnauthorized, ErrBadRequest, ErrInternal} {
		msg = strings.TrimSuffix(msg, ": "+s.Error())
	}
	return msg
}

// Fields returns the per-field failures carried by err, if any.
func Fields(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
