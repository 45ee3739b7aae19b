package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/dmitrijs2005/govadmin/internal/logging"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const DefaultTimeout = 30 * time.Second

// Options configures an HTTPClient.
type Options struct {
	BaseURL string

	// Timeout is the fixed budget applied to every request.
	Timeout time.Duration

	// RateLimit caps outbound requests per second; zero disables it.
	RateLimit float64
	RateBurst int

	Generations GenerationSource
	Logger      logging.Logger

	// Transport is the underlying round tripper, http.DefaultTransport
	// when nil.
	Transport http.RoundTripper
}

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the admin REST API. The session cookie set by the
// server is kept in a cookie jar and attached to every request by the
// standard library; it is never read by this package.
type HTTPClient struct {
	baseURL   *url.URL
	timeout   time.Duration
	http      *http.Client
	transport *authorityTransport
	log       logging.Logger
}

func NewHTTPClient(opts Options) (*HTTPClient, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("component", "transport")

	rt := opts.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}

	t := &authorityTransport{base: rt, generations: opts.Generations, log: log}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPClient{
		baseURL:   base,
		timeout:   timeout,
		http:      &http.Client{Jar: jar, Transport: t},
		transport: t,
		log:       log,
	}, nil
}

// OnAuthorityLost registers the single authority-loss handler. A later
// call replaces the earlier handler.
func (c *HTTPClient) OnAuthorityLost(fn AuthorityLossFunc) {
	c.transport.setHandler(fn)
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, PathLogin, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, PathLogout, nil, nil, nil)
}

func (c *HTTPClient) RecoverPassword(ctx context.Context, req models.PasswordRecoveryRequest) error {
	return c.do(ctx, http.MethodPost, PathRecoverPassword, nil, req, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, req models.PasswordResetRequest) error {
	return c.do(ctx, http.MethodPost, PathResetPassword, nil, req, nil)
}

// List fetches one page of a listing endpoint.
func (c *HTTPClient) List(ctx context.Context, endpoint string, shape models.ListShape, q models.Query) (*models.RawPage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, endpoint, queryValues(q), nil, &raw); err != nil {
		return nil, err
	}

	page, err := decodePage(raw, shape)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return page, nil
}

// Do sends an arbitrary JSON request, used for mutations.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, nil, body, out)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if ctx.Err() != nil {
			return mapTransportError(ctx.Err())
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapTransportError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, ErrTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func queryValues(q models.Query) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	for name, value := range q.Filters {
		if value != "" {
			v.Set(name, value)
		}
	}
	return v
}
