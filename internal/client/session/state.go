package session

import (
	"fmt"

	"github.com/dmitrijs2005/govadmin/internal/client/models"
)

// Status is the authentication status of the application.
type Status int

const (
	// StatusUnknown is the value at process start, before rehydration.
	StatusUnknown Status = iota
	StatusAuthenticating
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a snapshot of the session. Credential is non-nil only when
// Status is StatusAuthenticated.
type State struct {
	Status     Status
	Credential *models.Credential
}

type transition string

const (
	trRestore       transition = "restore"
	trRestoreEmpty  transition = "restore-empty"
	trLoginStart    transition = "login-start"
	trLoginSucceed  transition = "login-succeed"
	trLoginFail     transition = "login-fail"
	trLogout        transition = "logout"
	trAuthorityLost transition = "authority-lost"
)

type edge struct {
	from []Status
	to   Status
}

var transitions = map[transition]edge{
	trRestore:       {from: []Status{StatusUnknown}, to: StatusAuthenticated},
	trRestoreEmpty:  {from: []Status{StatusUnknown}, to: StatusUnauthenticated},
	trLoginStart:    {from: []Status{StatusUnknown, StatusUnauthenticated, StatusAuthenticated, StatusAuthenticating}, to: StatusAuthenticating},
	trLoginSucceed:  {from: []Status{StatusAuthenticating}, to: StatusAuthenticated},
	trLoginFail:     {from: []Status{StatusAuthenticating}, to: StatusUnauthenticated},
	trLogout:        {from: []Status{StatusUnknown, StatusAuthenticating, StatusAuthenticated, StatusUnauthenticated}, to: StatusUnauthenticated},
	trAuthorityLost: {from: []Status{StatusUnknown, StatusAuthenticated}, to: StatusUnauthenticated},
}

// machine owns the session state. It is not safe for concurrent use; the
// Manager serialises access.
type machine struct {
	state   State
	version uint64
}

func (m *machine) fire(tr transition, cred *models.Credential) error {
	e, ok := transitions[tr]
	if !ok {
		return fmt.Errorf("unknown transition %q", tr)
	}

	allowed := false
	for _, s := range e.from {
		if s == m.state.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, tr, m.state.Status)
	}

	next := State{Status: e.to}
	if e.to == StatusAuthenticated {
		if cred == nil {
			return fmt.Errorf("%w: %s without credential", ErrInvalidTransition, tr)
		}
		c := *cred
		next.Credential = &c
	}

	m.state = next
	m.version++
	return nil
}

// snapshot returns a copy safe to hand to callers.
func (m *machine) snapshot() State {
	s := m.state
	if s.Credential != nil {
		c := *s.Credential
		s.Credential = &c
	}
	return s
}
