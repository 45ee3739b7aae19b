package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/govadmin/internal/client/client"
	"github.com/dmitrijs2005/govadmin/internal/client/config"
	"github.com/dmitrijs2005/govadmin/internal/client/credstore"
	"github.com/dmitrijs2005/govadmin/internal/client/guard"
	"github.com/dmitrijs2005/govadmin/internal/client/resources"
	"github.com/dmitrijs2005/govadmin/internal/client/services"
	"github.com/dmitrijs2005/govadmin/internal/client/session"
	"github.com/dmitrijs2005/govadmin/internal/logging"
)

type App struct {
	config    *config.Config
	log       logging.Logger
	api       client.Client
	sessions  *session.Manager
	auth      services.AuthService
	resources services.ResourceService
	guard     *guard.Guard
	reader    *bufio.Reader
	closers   []io.Closer

	// current is the resource selected with "use".
	current string
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	store, storeCloser, err := credstore.Open(ctx, c.StoreDriver, c.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	httpClient, err := client.NewHTTPClient(client.Options{
		BaseURL:     c.ServerBaseURL,
		Timeout:     c.RequestTimeout,
		RateLimit:   c.RateLimit,
		RateBurst:   c.RateBurst,
		Generations: store,
		Logger:      log,
	})
	if err != nil {
		_ = storeCloser.Close()
		return nil, err
	}

	mgr := session.NewManager(httpClient, store, log)
	httpClient.OnAuthorityLost(mgr.AuthorityLost)

	var api client.Client = httpClient
	a := &App{
		config:    c,
		log:       log,
		api:       api,
		sessions:  mgr,
		auth:      services.NewAuthService(mgr, api),
		resources: services.NewResourceService(resources.Default(), api, c.PageSize, log),
		reader:    bufio.NewReader(os.Stdin),
		closers:   []io.Closer{api, storeCloser},
	}
	a.guard = guard.New(mgr,
		guard.WithLoading(func() { printlnFn(mutedStyle.Render("Checking session...")) }),
	)
	mgr.Subscribe(a.onSessionChange)

	return a, nil
}

// onSessionChange drops all listing state once the session ends.
func (a *App) onSessionChange(st session.State) {
	if st.Status == session.StatusUnauthenticated {
		a.resources.Reset()
	}
}

// Run restores the stored session and serves the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	if err := a.sessions.Rehydrate(ctx); err != nil && !errors.Is(err, session.ErrAlreadyRehydrated) {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}

	printlnFn(titleStyle.Render("govadmin") + " " + mutedStyle.Render(a.config.ServerBaseURL))
	printlnFn("Type 'help' for the list of commands.")

	runREPL(ctx, a, a.status, a.reader)
}

// Close releases the API client and the credential store. Later calls
// are no-ops.
func (a *App) Close() error {
	closers := a.closers
	a.closers = nil

	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.auth.State().Status == session.StatusAuthenticated
}

// status is the prompt prefix: the signed-in email and the selected resource.
func (a *App) status() string {
	st := a.auth.State()
	switch st.Status {
	case session.StatusAuthenticated:
		if a.current != "" {
			return st.Credential.Email + " " + a.current
		}
		return st.Credential.Email
	case session.StatusUnknown, session.StatusAuthenticating:
		return "..."
	default:
		return "guest"
	}
}

// protected runs fn behind the route guard. A missing or lost session
// hands off to the login prompt without an error banner.
func (a *App) protected(ctx context.Context, fn func(ctx context.Context) error) error {
	err := a.guard.Enter(ctx, func(ctx context.Context, _ session.State) error {
		return fn(ctx)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, guard.ErrRedirect), errors.Is(err, client.ErrAuthorityLost):
		return a.Login(ctx)
	}
	renderError(err)
	return err
}
