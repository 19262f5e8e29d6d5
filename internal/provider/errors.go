package provider

import "fmt"

// ErrKind classifies provider failures. Every kind is recovered inside the
// enrichment pipeline; none of them ever propagates to an API caller.
type ErrKind string

const (
	// KindUnavailable covers transport failures, timeouts and non-success statuses.
	KindUnavailable ErrKind = "unavailable"
	// KindRateLimited is an explicit throttling signal from the upstream.
	KindRateLimited ErrKind = "rate_limited"
	// KindMalformed means the upstream answered with an unexpected payload shape.
	KindMalformed ErrKind = "malformed"
)

// Error is the typed failure returned by all provider adapters.
type Error struct {
	Kind     ErrKind
	Provider string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%s): %v", e.Provider, e.Message, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

func errUnavailable(provider, message string, cause error) *Error {
	return &Error{Kind: KindUnavailable, Provider: provider, Message: message, Cause: cause}
}

func errRateLimited(provider, message string) *Error {
	return &Error{Kind: KindRateLimited, Provider: provider, Message: message}
}

func errMalformed(provider, message string, cause error) *Error {
	return &Error{Kind: KindMalformed, Provider: provider, Message: message, Cause: cause}
}
