package handler

import (
	"errors"
	"net/http"
)

var (
	// ErrNilResponse indicates a handler returned nil instead of a Response.
	ErrNilResponse = errors.New("handler returned nil response")
	// ErrStreamingUnsupported indicates the response writer cannot flush.
	ErrStreamingUnsupported = errors.New("streaming not supported by response writer")
)

// HTTPError is an error with an HTTP status code and a stable machine key.
// Err, when set, carries the client-facing cause.
type HTTPError struct {
	Code int    // HTTP status code
	Key  string // machine-readable code, e.g. "not_found"
	Err  error
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Key + ": " + e.Err.Error()
	}
	return e.Key
}

// Unwrap returns the cause.
func (e HTTPError) Unwrap() error {
	return e.Err
}

// Wrap returns a copy of e carrying err as its cause.
//
//	return handler.JSONError(handler.ErrBadRequest.Wrap(err))
func (e HTTPError) Wrap(err error) HTTPError {
	e.Err = err
	return e
}

var (
	ErrBadRequest           = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrNotFound             = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed     = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrConflict             = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrUnsupportedMediaType = HTTPError{Code: http.StatusUnsupportedMediaType, Key: "unsupported_media_type"}
	ErrUnprocessableEntity  = HTTPError{Code: http.StatusUnprocessableEntity, Key: "unprocessable_entity"}
	ErrTooManyRequests      = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests"}
	ErrInternalServerError  = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}
	ErrServiceUnavailable   = HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable"}
)

// NewHTTPError creates an HTTP error with the given status code and key.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}
