package client

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned, without any network call, by operations that
// need a bearer token when none is stored.
var ErrNoToken = errors.New("no authentication token found")

// ErrorDetail is one entry of a Directus error payload.
type ErrorDetail struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code,omitempty"`
	} `json:"extensions"`
}

// APIError is a non-2xx response from Directus.
type APIError struct {
	StatusCode int           `json:"-"`
	Errors     []ErrorDetail `json:"errors"`
	Msg        string        `json:"message,omitempty"`
}

// Message returns the first backend-supplied message, or "".
func (e *APIError) Message() string {
	for _, detail := range e.Errors {
		if detail.Message != "" {
			return detail.Message
		}
	}
	return e.Msg
}

// Code returns the first Directus error code, e.g. INVALID_CREDENTIALS.
func (e *APIError) Code() string {
	for _, detail := range e.Errors {
		if detail.Extensions.Code != "" {
			return detail.Extensions.Code
		}
	}
	return ""
}

func (e *APIError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Error is the normalized failure of an auth or file operation: a plain
// message, backend-supplied when available, with the cause kept for errors.Is.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// normalize replaces err's message with the backend one, or fallback.
func normalize(err error, fallback string) error {
	msg := fallback
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message() != "" {
		msg = apiErr.Message()
	}
	return &Error{Message: msg, Err: err}
}
