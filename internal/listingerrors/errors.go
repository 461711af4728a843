package listingerrors

import (
	"errors"
	"fmt"
)

// Error kinds shared by every layer
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUpstream     = errors.New("upstream failure")
)

// Error pairs an error kind with a message that is safe to return to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an *Error of the given kind
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Unauthorized, NotFound and Validation are shorthands for New
func Unauthorized(message string) *Error { return New(ErrUnauthorized, message) }

func NotFound(message string) *Error { return New(ErrNotFound, message) }

func Validation(format string, args ...any) *Error {
	return New(ErrValidation, fmt.Sprintf(format, args...))
}

// UpstreamKind classifies image host failures
type UpstreamKind int

const (
	UpstreamUnknown UpstreamKind = iota
	UpstreamAuth
	UpstreamBadRequest
)

func (k UpstreamKind) String() string {
	switch k {
	case UpstreamAuth:
		return "auth"
	case UpstreamBadRequest:
		return "bad_request"
	default:
		return "unknown"
	}
}

// UpstreamError is returned when the image host rejects an upload
type UpstreamError struct {
	Kind       UpstreamKind
	StatusCode int
	Message    string
}

// ClassifyUpstream maps an upstream HTTP status to an UpstreamError
func ClassifyUpstream(statusCode int, message string) *UpstreamError {
	kind := UpstreamUnknown
	switch statusCode {
	case 401:
		kind = UpstreamAuth
	case 400:
		kind = UpstreamBadRequest
	}
	return &UpstreamError{Kind: kind, StatusCode: statusCode, Message: message}
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case UpstreamAuth:
		return "image host authentication failed. Please check your API credentials."
	case UpstreamBadRequest:
		return "image host upload failed: " + e.Message
	default:
		if e.Message == "" {
			return "image host error: Unknown error"
		}
		return "image host error: " + e.Message
	}
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }
