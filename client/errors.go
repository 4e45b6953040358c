package client

import "fmt"

// ErrorKind buckets every failure into the categories callers branch on.
// One classifier here replaces per-call-site substring matching on messages.
type ErrorKind string

const (
	KindNetwork      ErrorKind = "network"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindServer       ErrorKind = "server"
	KindUnknown      ErrorKind = "unknown"
)

// APIError is the tagged failure result of any client operation. A call either
// returns a value or an *APIError, never an ambiguous in-between.
type APIError struct {
	Kind    ErrorKind
	Status  int // HTTP status, 0 for transport failures
	Message string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func networkError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: err.Error()}
}

func classifyStatus(status int, message string) *APIError {
	kind := KindUnknown
	switch {
	case status == 401:
		kind = KindUnauthorized
	case status == 403:
		kind = KindForbidden
	case status == 404:
		kind = KindNotFound
	case status >= 500:
		kind = KindServer
	}
	if message == "" {
		message = "request failed"
	}
	return &APIError{Kind: kind, Status: status, Message: message}
}
