// Package apperrors defines the error kinds the access engine reports.
//
// Every transition failure is one of these kinds so that transport layers
// can translate them without inspecting error strings.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind int

const (
	// KindUnknown is an unclassified internal failure.
	KindUnknown Kind = iota
	// KindUnauthorized means the actor lacks the required capability.
	KindUnauthorized
	// KindInvalidState means the transition is not legal from the current
	// channel state (owner leaving, deleted channel, and so on).
	KindInvalidState
	// KindNotFound means the channel or user is unknown.
	KindNotFound
	// KindExpiredInvite means the invite code matched but its expiry passed.
	KindExpiredInvite
	// KindAlreadyMember means the user is already a member; callers treat
	// this as a no-op success, not a failure.
	KindAlreadyMember
	// KindAuditDegraded means a moderation action succeeded but its audit
	// record was lost. Non-fatal.
	KindAuditDegraded
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidState:
		return "invalid_state"
	case KindNotFound:
		return "not_found"
	case KindExpiredInvite:
		return "expired_invite"
	case KindAlreadyMember:
		return "already_member"
	case KindAuditDegraded:
		return "audit_degraded"
	default:
		return "unknown"
	}
}

// Error is a kinded engine error.
type Error struct {
	kind    Kind
	message string
	err     error
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Wrap creates an error of the given kind around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{kind: kind, message: message, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *Error) Unwrap() error {
	return e.err
}

// Kind returns the error classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// KindOf extracts the Kind from err, or KindUnknown if err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindUnknown
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
