package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRateLimitExceeded is returned when every attempt was answered with 429
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// RateLimitError carries the number of attempts made before giving up
type RateLimitError struct {
	Method   string
	Path     string
	Attempts int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s %s: rate limited after %d attempts", e.Method, e.Path, e.Attempts)
}

// Unwrap lets errors.Is match ErrRateLimitExceeded
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimitExceeded
}

// StatusError is a non-2xx, non-429 response
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string // First bytes of the response body
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Code, http.StatusText(e.Code), e.Body)
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return http.StatusTooManyRequests
	}
	return 0
}
