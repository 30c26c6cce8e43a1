package sdk

import (
	"errors"
	"net/http"
)

// Error kinds shared by the backend and the client
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrRateLimited       = errors.New("rate limited")
	ErrTransient         = errors.New("transient failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrGenerationFailed  = errors.New("generation failed")
)

// User-facing messages returned by the backend
const (
	MessageInvalidEmail    = "Invalid email"
	MessageMissingPrompt   = "Prompt is required"
	MessageUnauthorized    = "Unauthorized"
	MessageSessionInvalid  = "Invalid session"
	MessageRateLimited     = "Too many requests. Please wait a minute."
	MessageGenerationError = "Generation failed. Please try again."
	MessageTimeout         = "The server took too long to answer. Please try again."
	MessageUnreachable     = "Could not reach the server. Please try again."
)

// Error is a classified failure with a flat user-facing message
type Error struct {
	Kind    error  // One of the Err* kinds
	Message string // Message suitable for display
	Err     error  // Underlying cause, if any
}

func NewError(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Kind.Error() + ": " + e.Err.Error()
	default:
		return e.Kind.Error()
	}
}

// Is matches the error's kind so callers can use errors.Is(err, sdk.ErrForbidden)
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindForStatus maps an HTTP status code onto an error kind
func KindForStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrInvalidInput
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrTransient
	default:
		return ErrGenerationFailed
	}
}

// StatusForKind maps an error onto the HTTP status code used to report it
func StatusForKind(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing text of err
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
