package shared

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")

	// API and transport errors
	ErrAPIRequest  = fmt.Errorf("API request failed")
	ErrUnreachable = fmt.Errorf("API unreachable")
	ErrNotFound    = fmt.Errorf("resource not found")
	ErrStale       = fmt.Errorf("stale response discarded")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// APIError carries a server-side failure: the HTTP status and the message
// the server returned, falling back to a generic one when the body had none.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, msg)
}

// Unwrap maps the status onto the sentinel taxonomy so call sites can use
// [errors.Is] without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrTokenExpired
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrAPIRequest
	}
}

// IsAuthError reports whether err represents an authorization failure that
// should trigger the single-shot refresh flow.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrNotAuthenticated)
}
