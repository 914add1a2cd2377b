package client

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrLoginRequired is returned, without touching the network, when an
// operation that needs a bearer token is called with no session.
var ErrLoginRequired = errors.New("Anda harus login untuk melakukan aksi ini") //nolint:staticcheck // shown verbatim in the UI

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// Kind classifies a request failure.
type Kind int

const (
	KindNone Kind = iota
	KindNetwork
	KindLoginRequired
	KindUnauthorized
	KindForbidden
	KindValidation
	KindNotFound
	KindUnknown
)

// Classify maps err onto the failure taxonomy the views render messages for.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrLoginRequired) {
		return KindLoginRequired
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case 400:
			return KindValidation
		case 401:
			return KindUnauthorized
		case 403:
			return KindForbidden
		case 404:
			return KindNotFound
		}
		return KindUnknown
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindNetwork
	}
	return KindUnknown
}

// ServerMessage returns the message the backend sent with a failed response,
// or "" when err is not an HTTPError or the body carried nothing useful.
func ServerMessage(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return ""
}
