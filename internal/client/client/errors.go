package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthorityLost means the server no longer accepts the session
	// cookie (HTTP 401). The transport has already notified the session
	// layer when a caller sees it.
	ErrAuthorityLost = errors.New("session authority lost")

	// ErrForbidden is a valid session without permission for the resource
	// (HTTP 403). It never ends the session.
	ErrForbidden = errors.New("forbidden")

	ErrNotFound      = errors.New("not found")
	ErrAccountLocked = errors.New("account locked")

	// ErrValidationFailed is matched by every *ValidationError.
	ErrValidationFailed = errors.New("validation failed")

	ErrUnavailable = errors.New("server unavailable")
	ErrTimeout     = errors.New("request timed out")
)

// ValidationError carries the user-displayable messages of a rejected
// request, either from the server (400/422) or from client-side checks.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return ErrValidationFailed.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(e.Messages, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// StatusError is an unexpected HTTP status with no dedicated sentinel.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

// IsRetryable reports whether err is a transport failure the user may
// retry by repeating the action.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout)
}
