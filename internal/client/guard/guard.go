// Package guard is the access check composed around every protected view.
// It reads the live session state on each evaluation and never caches it.
package guard

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/govadmin/internal/client/session"
)

// ErrRedirect is returned by Enter when the session is not authenticated
// and the caller must hand control to the login entry point.
var ErrRedirect = errors.New("authentication required")

type Decision int

const (
	Loading Decision = iota
	Render
	Redirect
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "loading"
	}
}

// Decide maps a session status to what a protected view must do.
func Decide(s session.Status) Decision {
	switch s {
	case session.StatusAuthenticated:
		return Render
	case session.StatusUnauthenticated:
		return Redirect
	default:
		return Loading
	}
}

// StateSource is the part of session.Manager the guard reads.
type StateSource interface {
	State() session.State
	Subscribe(fn session.Listener) (unsubscribe func())
}

// View is protected content. It receives the state it was admitted under.
type View func(ctx context.Context, st session.State) error

type Guard struct {
	src        StateSource
	onLoading  func()
	onRedirect func()
}

type Option func(*Guard)

// WithLoading sets the neutral indicator shown while the session is
// unresolved.
func WithLoading(fn func()) Option {
	return func(g *Guard) { g.onLoading = fn }
}

// WithRedirect sets the hand-off to the login entry point.
func WithRedirect(fn func()) Option {
	return func(g *Guard) { g.onRedirect = fn }
}

func New(src StateSource, opts ...Option) *Guard {
	g := &Guard{src: src}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Evaluate returns the decision for the live state.
func (g *Guard) Evaluate() Decision {
	return Decide(g.src.State().Status)
}

// Enter runs view if the session is authenticated. While the session is
// unresolved it shows the loading indicator once and waits for the next
// transition. An unauthenticated session triggers the redirect hook and
// ErrRedirect; view is not run.
func (g *Guard) Enter(ctx context.Context, view View) error {
	changed := make(chan struct{}, 1)
	unsubscribe := g.src.Subscribe(func(session.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	shown := false
	for {
		st := g.src.State()
		switch Decide(st.Status) {
		case Render:
			return view(ctx, st)
		case Redirect:
			if g.onRedirect != nil {
				g.onRedirect()
			}
			return ErrRedirect
		}

		if !shown && g.onLoading != nil {
			g.onLoading()
		}
		shown = true

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// Watch calls fn with the current decision and again after every session
// transition until ctx is done. fn runs on the transitioning goroutine and
// must not block.
func (g *Guard) Watch(ctx context.Context, fn func(Decision)) {
	unsubscribe := g.src.Subscribe(func(st session.State) {
		fn(Decide(st.Status))
	})
	fn(g.Evaluate())

	go func() {
		<-ctx.Done()
		unsubscribe()
	}()
}
