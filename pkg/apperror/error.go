package apperror

import (
	"net/http"
)

// Kind classifies an AppError so the HTTP layer can pick a response shape
// without inspecting messages.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindRelay         Kind = "relay"
	KindConfiguration Kind = "configuration"
	KindRateLimit     Kind = "rate_limit"
	KindInternal      Kind = "internal"
)

type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation is a caller mistake; the message is safe to show to the user.
func Validation(message string, err error) *AppError {
	return &AppError{Kind: KindValidation, Code: http.StatusBadRequest, Message: message, Err: err}
}

// Relay wraps an outbound mail transport failure. The message is the generic
// text returned to the client; err carries the detail for the logs.
func Relay(message string, err error) *AppError {
	return &AppError{Kind: KindRelay, Code: http.StatusInternalServerError, Message: message, Err: err}
}

// Configuration reports missing or unusable external configuration.
func Configuration(message string, err error) *AppError {
	return &AppError{Kind: KindConfiguration, Code: http.StatusInternalServerError, Message: message, Err: err}
}

func TooManyRequests(message string) *AppError {
	return &AppError{Kind: KindRateLimit, Code: http.StatusTooManyRequests, Message: message}
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}
