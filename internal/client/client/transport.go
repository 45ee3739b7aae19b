package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/govadmin/internal/client/credstore"
	"github.com/dmitrijs2005/govadmin/internal/common"
	"github.com/dmitrijs2005/govadmin/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// GenerationSource reports the current session generation. The transport
// samples it when a request is issued so a late 401 can be attributed to
// the session it was sent under.
type GenerationSource interface {
	Current() credstore.Generation
}

// AuthorityLossFunc is called for every 401 response with the generation
// captured when the failing request was issued.
type AuthorityLossFunc func(ctx context.Context, gen credstore.Generation)

// authorityTransport is the single interception point of every request.
type authorityTransport struct {
	base        http.RoundTripper
	generations GenerationSource
	limiter     *rate.Limiter
	log         logging.Logger

	mu     sync.RWMutex
	onLost AuthorityLossFunc
}

func (t *authorityTransport) setHandler(fn AuthorityLossFunc) {
	t.mu.Lock()
	t.onLost = fn
	t.mu.Unlock()
}

func (t *authorityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	var gen credstore.Generation
	if t.generations != nil {
		gen = t.generations.Current()
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: rate limit: %v", ErrTimeout, err)
		}
	}

	id := req.Header.Get(common.RequestIDHeaderName)
	if id == "" {
		id = uuid.NewString()
	}
	ctx = logging.ContextWith(ctx, "request_id", id)
	req = req.Clone(ctx)
	req.Header.Set(common.RequestIDHeaderName, id)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	t.log.Debug(ctx, "response",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode)

	// Only 401 means the authority is gone; 403 is a permission problem
	// on one resource and must not end the session.
	if resp.StatusCode == http.StatusUnauthorized {
		t.mu.RLock()
		fn := t.onLost
		t.mu.RUnlock()

		if fn != nil {
			t.log.Info(ctx, "authority lost", "path", req.URL.Path, "generation", gen)
			fn(context.WithoutCancel(ctx), gen)
		}
	}

	return resp, nil
}
