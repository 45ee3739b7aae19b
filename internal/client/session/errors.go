package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/govadmin/internal/client/client"
)

var (
	// ErrSuperseded is returned by Login when a newer login, logout or
	// authority loss started while the request was in flight. Neither the
	// state nor the store were touched.
	ErrSuperseded = errors.New("login superseded by a newer session operation")

	ErrAlreadyRehydrated = errors.New("session already rehydrated")
	ErrInvalidTransition = errors.New("invalid session transition")
)

// LoginErrorKind classifies why a login failed.
type LoginErrorKind int

const (
	LoginOther LoginErrorKind = iota
	LoginBadCredentials
	LoginAccountLocked
	LoginValidation
	LoginUnavailable
	LoginTimeout
	LoginStorage
)

func (k LoginErrorKind) String() string {
	switch k {
	case LoginBadCredentials:
		return "bad credentials"
	case LoginAccountLocked:
		return "account locked"
	case LoginValidation:
		return "validation"
	case LoginUnavailable:
		return "unavailable"
	case LoginTimeout:
		return "timeout"
	case LoginStorage:
		return "storage"
	default:
		return "other"
	}
}

// LoginError is the typed failure of Login.
type LoginError struct {
	Kind LoginErrorKind
	Err  error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed (%s): %v", e.Kind, e.Err)
}

func (e *LoginError) Unwrap() error { return e.Err }

func classifyLogin(err error) *LoginError {
	kind := LoginOther
	switch {
	// The login endpoint answers 401 to a wrong email or password.
	case errors.Is(err, client.ErrAuthorityLost):
		kind = LoginBadCredentials
	case errors.Is(err, client.ErrAccountLocked):
		kind = LoginAccountLocked
	case errors.Is(err, client.ErrValidationFailed):
		kind = LoginValidation
	case errors.Is(err, client.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		kind = LoginTimeout
	case errors.Is(err, client.ErrUnavailable):
		kind = LoginUnavailable
	}
	return &LoginError{Kind: kind, Err: err}
}
