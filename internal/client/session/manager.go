// Package session owns the authenticated-or-not state of govadmin. The
// Manager is the single writer of the credential store and the single
// handler of authority loss reported by the transport.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/govadmin/internal/client/credstore"
	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/dmitrijs2005/govadmin/internal/common"
	"github.com/dmitrijs2005/govadmin/internal/logging"
)

// Authenticator is the part of the API client the Manager calls.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
}

// Listener observes every state transition.
type Listener func(State)

type subscriber struct {
	id int
	fn Listener
}

type Manager struct {
	api   Authenticator
	store *credstore.Store
	log   logging.Logger

	mu          sync.Mutex
	m           machine
	subs        []subscriber
	nextSub     int
	rehydrated  bool
	resolved    chan struct{}
	resolveOnce sync.Once

	// notifyMu orders listener delivery; delivered is the last version
	// handed to listeners.
	notifyMu  sync.Mutex
	delivered uint64
}

func NewManager(api Authenticator, store *credstore.Store, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop()
	}
	return &Manager{
		api:      api,
		store:    store,
		log:      log.With("component", "session"),
		resolved: make(chan struct{}),
	}
}

// State returns the live session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.m.snapshot()
}

// Resolved is closed once Rehydrate has finished.
func (m *Manager) Resolved() <-chan struct{} {
	return m.resolved
}

// Subscribe registers fn for every subsequent transition. The returned
// func removes it. Listeners run on the goroutine that caused the
// transition and must not block.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// fire applies tr and returns what publish needs. Callers hold m.mu.
func (m *Manager) fire(ctx context.Context, tr transition, cred *models.Credential) (State, uint64, []subscriber) {
	from := m.m.state.Status
	if err := m.m.fire(tr, cred); err != nil {
		m.log.Error(ctx, "transition rejected", "transition", tr, "error", err)
		return State{}, 0, nil
	}
	m.log.Debug(ctx, "transition", "transition", tr, "from", from, "to", m.m.state.Status)
	return m.m.snapshot(), m.m.version, append([]subscriber(nil), m.subs...)
}

func (m *Manager) publish(st State, version uint64, subs []subscriber) {
	if version == 0 {
		return
	}
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	if version <= m.delivered {
		return
	}
	m.delivered = version
	for _, s := range subs {
		s.fn(st)
	}
}

// Login authenticates creds against the API. The session is Authenticating
// while the request is in flight; on success the credential record is
// stored and returned. Failures are *LoginError and leave the session
// Unauthenticated with an empty store. creds.Password is wiped before
// Login returns.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) (*models.Credential, error) {
	req := models.LoginRequest{Email: creds.Email, Password: string(creds.Password)}
	common.WipeByteArray(creds.Password)

	m.mu.Lock()
	gen := m.store.Begin()
	st, v, subs := m.fire(ctx, trLoginStart, nil)
	m.mu.Unlock()
	m.publish(st, v, subs)

	resp, err := m.api.Login(ctx, req)

	m.mu.Lock()
	if m.store.Current() != gen {
		m.mu.Unlock()
		m.log.Info(ctx, "login result discarded", "generation", gen)
		return nil, ErrSuperseded
	}

	if err != nil {
		if cerr := m.store.Clear(ctx, gen); cerr != nil {
			m.log.Error(ctx, "clear credential after failed login", "error", cerr)
		}
		st, v, subs := m.fire(ctx, trLoginFail, nil)
		m.mu.Unlock()
		m.publish(st, v, subs)
		return nil, classifyLogin(err)
	}

	cred := resp.Credential()
	if err := m.store.Save(ctx, gen, cred); err != nil {
		if cerr := m.store.Clear(ctx, gen); cerr != nil {
			m.log.Error(ctx, "clear credential after failed save", "error", cerr)
		}
		st, v, subs := m.fire(ctx, trLoginFail, nil)
		m.mu.Unlock()
		m.publish(st, v, subs)
		return nil, &LoginError{Kind: LoginStorage, Err: err}
	}

	st, v, subs = m.fire(ctx, trLoginSucceed, &cred)
	m.mu.Unlock()
	m.publish(st, v, subs)

	m.log.Info(ctx, "logged in", "user", cred.ID)
	return &cred, nil
}

// Logout ends the session locally whatever the logout endpoint answers.
// If a newer login started meanwhile, that login owns the session and
// Logout leaves it alone.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	gen := m.store.Begin()
	m.mu.Unlock()

	if err := m.api.Logout(ctx); err != nil {
		m.log.Warn(ctx, "logout request failed", "error", err)
	}

	m.mu.Lock()
	if m.store.Current() != gen {
		m.mu.Unlock()
		return
	}
	if err := m.store.Clear(ctx, gen); err != nil {
		m.log.Error(ctx, "clear credential on logout", "error", err)
	}
	st, v, subs := m.fire(ctx, trLogout, nil)
	m.mu.Unlock()
	m.publish(st, v, subs)
}

// Rehydrate restores the session from the persisted record, once per
// process. A stored record is trusted until the first request proves
// otherwise. A load failure leaves the session Unauthenticated and is
// returned for logging.
func (m *Manager) Rehydrate(ctx context.Context) error {
	m.mu.Lock()
	if m.rehydrated {
		m.mu.Unlock()
		return ErrAlreadyRehydrated
	}
	m.rehydrated = true
	gen := m.store.Begin()
	m.mu.Unlock()
	defer m.resolveOnce.Do(func() { close(m.resolved) })

	cred, loadErr := m.store.Load(ctx)

	m.mu.Lock()
	if m.store.Current() != gen || m.m.state.Status != StatusUnknown {
		m.mu.Unlock()
		return loadErr
	}

	var (
		st   State
		v    uint64
		subs []subscriber
	)
	if loadErr == nil && cred != nil {
		st, v, subs = m.fire(ctx, trRestore, cred)
	} else {
		st, v, subs = m.fire(ctx, trRestoreEmpty, nil)
	}
	m.mu.Unlock()
	m.publish(st, v, subs)

	if loadErr != nil {
		m.log.Error(ctx, "rehydrate", "error", loadErr)
	}
	return loadErr
}

// AuthorityLost tears the session down after the server rejected it. gen
// is the generation the failing request was issued under; a 401 from a
// request that predates the latest session operation is ignored, and so
// is one that arrives while a login is in flight.
func (m *Manager) AuthorityLost(ctx context.Context, gen credstore.Generation) {
	m.mu.Lock()
	if gen != m.store.Current() {
		m.mu.Unlock()
		m.log.Debug(ctx, "stale authority loss ignored", "generation", gen)
		return
	}
	if m.m.state.Status == StatusAuthenticating {
		m.mu.Unlock()
		return
	}

	next := m.store.Begin()
	if err := m.store.Clear(ctx, next); err != nil && !errors.Is(err, credstore.ErrStaleGeneration) {
		m.log.Error(ctx, "clear credential on authority loss", "error", err)
	}

	if m.m.state.Status == StatusUnauthenticated {
		m.mu.Unlock()
		return
	}
	st, v, subs := m.fire(ctx, trAuthorityLost, nil)
	m.mu.Unlock()
	m.publish(st, v, subs)
	m.log.Info(ctx, "session ended by server")
}
