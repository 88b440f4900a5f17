package api

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the client can surface. Resource services
// pass these through unchanged; view controllers decide what to do with
// them.
type Kind string

const (
	// KindNetwork: no response was received (transport failure, timeout,
	// open circuit breaker).
	KindNetwork Kind = "network"
	// KindHTTP: a non-2xx response with a parsed body.
	KindHTTP Kind = "http"
	// KindDecode: malformed or non-JSON response content.
	KindDecode Kind = "decode"
	// KindValidation: client-side input rejected before send.
	KindValidation Kind = "validation"
	// KindAuth: a 401, always escalated to session teardown.
	KindAuth Kind = "auth"
)

type Error struct {
	Kind       Kind
	Message    string
	HTTPStatus int
}

func (e *Error) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.HTTPStatus)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind reports whether err (or anything it wraps) is an api.Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error()}
}

func httpError(status int, message string) *Error {
	return &Error{Kind: KindHTTP, Message: message, HTTPStatus: status}
}

func decodeError(err error) *Error {
	return &Error{Kind: KindDecode, Message: err.Error()}
}

func authError() *Error {
	return &Error{Kind: KindAuth, Message: "session expired or unauthorized", HTTPStatus: 401}
}
