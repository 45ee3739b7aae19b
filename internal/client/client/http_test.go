package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/govadmin/internal/client/credstore"
	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/dmitrijs2005/govadmin/internal/common"
	"github.com/stretchr/testify/require"
)

type fixedGen credstore.Generation

func (g fixedGen) Current() credstore.Generation { return credstore.Generation(g) }

type lossRecorder struct {
	mu   sync.Mutex
	gens []credstore.Generation
}

func (r *lossRecorder) handle(_ context.Context, gen credstore.Generation) {
	r.mu.Lock()
	r.gens = append(r.gens, gen)
	r.mu.Unlock()
}

func (r *lossRecorder) calls() []credstore.Generation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]credstore.Generation(nil), r.gens...)
}

func newTestClient(t *testing.T, h http.Handler, gen credstore.Generation) (*HTTPClient, *lossRecorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(Options{BaseURL: srv.URL, Timeout: 2 * time.Second, Generations: fixedGen(gen)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	rec := &lossRecorder{}
	c.OnAuthorityLost(rec.handle)
	return c, rec
}

func status(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

func TestNewHTTPClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewHTTPClient(Options{BaseURL: "/api"})
	require.Error(t, err)
}

func TestUnauthorized_NotifiesWithIssueGeneration(t *testing.T) {
	c, rec := newTestClient(t, status(http.StatusUnauthorized, ""), 7)

	_, err := c.List(context.Background(), "/Noticia/listar", models.DefaultListShape, models.Query{Page: 1})
	require.ErrorIs(t, err, ErrAuthorityLost)
	require.Equal(t, []credstore.Generation{7}, rec.calls())
}

func TestForbidden_DoesNotNotify(t *testing.T) {
	c, rec := newTestClient(t, status(http.StatusForbidden, `{"message":"sem permissão"}`), 3)

	err := c.Do(context.Background(), http.MethodDelete, "/Noticia/excluir/1", nil, nil)
	require.ErrorIs(t, err, ErrForbidden)
	require.Empty(t, rec.calls())
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
		want error
	}{
		{"not found", http.StatusNotFound, "", ErrNotFound},
		{"locked", http.StatusLocked, "", ErrAccountLocked},
		{"bad request", http.StatusBadRequest, `{"message":"campo inválido"}`, ErrValidationFailed},
		{"unprocessable", http.StatusUnprocessableEntity, `{"errors":["x"]}`, ErrValidationFailed},
		{"request timeout", http.StatusRequestTimeout, "", ErrTimeout},
		{"gateway timeout", http.StatusGatewayTimeout, "", ErrTimeout},
		{"server error", http.StatusInternalServerError, "boom", ErrUnavailable},
		{"bad gateway", http.StatusBadGateway, "", ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestClient(t, status(tt.code, tt.body), 1)
			err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil)
			require.ErrorIs(t, err, tt.want)
			require.Empty(t, rec.calls())
		})
	}
}

func TestStatusMapping_Unexpected(t *testing.T) {
	c, _ := newTestClient(t, status(http.StatusTeapot, `{"title":"teapot"}`), 1)

	err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusTeapot, se.Code)
	require.Equal(t, "teapot", se.Message)
	require.False(t, IsRetryable(err))
}

func TestValidationMessages(t *testing.T) {
	body := `{"title":"One or more validation errors occurred.","errors":{"Titulo":["obrigatório"],"Email":["inválido","curto"]}}`
	c, _ := newTestClient(t, status(http.StatusBadRequest, body), 1)

	err := c.Do(context.Background(), http.MethodPost, "/x", map[string]string{}, nil)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, []string{"inválido", "curto", "obrigatório"}, ve.Messages)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewHTTPClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	err = c.Do(context.Background(), http.MethodGet, "/slow", nil, nil)
	require.ErrorIs(t, err, ErrTimeout)
	require.True(t, IsRetryable(err))
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	err = c.Do(context.Background(), http.MethodGet, "/x", nil, nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCookieRoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+PathLogin, func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		http.SetCookie(w, &http.Cookie{Name: "auth", Value: "opaque", Path: "/", HttpOnly: true})
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "opaque",
			"user":  map[string]any{"id": 42, "name": "Ana", "email": req.Email},
		})
	})
	mux.HandleFunc("GET /Tag/listar", func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("auth")
		if err != nil || ck.Value != "opaque" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"id":1}],"total":1}`))
	})

	c, rec := newTestClient(t, mux, 1)
	ctx := context.Background()

	resp, err := c.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Empty(t, resp.Token)
	require.Equal(t, models.Credential{ID: "42", DisplayName: "Ana", Email: "ana@example.com"}, resp.Credential())

	page, err := c.List(ctx, "/Tag/listar", models.DefaultListShape, models.Query{Page: 1})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Empty(t, rec.calls())
}

func TestRequestIDAndQuery(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = w.Write([]byte(`[]`))
	}), 1)

	q := models.Query{Page: 2, PageSize: 10, Sort: "titulo", Filters: map[string]string{"busca": "obra", "status": ""}}
	page, err := c.List(context.Background(), "/Noticia/listar", models.DefaultListShape, q)
	require.NoError(t, err)
	require.Empty(t, page.Items)

	require.NotEmpty(t, got.Header.Get(common.RequestIDHeaderName))
	require.Equal(t, "2", got.URL.Query().Get("page"))
	require.Equal(t, "10", got.URL.Query().Get("pageSize"))
	require.Equal(t, "titulo", got.URL.Query().Get("sort"))
	require.Equal(t, "obra", got.URL.Query().Get("busca"))
	require.False(t, got.URL.Query().Has("status"))
}

func TestRateLimit_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(status(http.StatusOK, ""))
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(Options{BaseURL: srv.URL, RateLimit: 0.001, RateBurst: 1})
	require.NoError(t, err)

	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/a", nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = c.Do(ctx, http.MethodGet, "/b", nil, nil)
	require.Error(t, err)
}

func TestHTTPClient_ServesClientContract(t *testing.T) {
	h, _ := newTestClient(t, status(http.StatusOK, `{"items":[{"id":1}],"total":1}`), 1)

	var c Client = h
	page, err := c.List(context.Background(), "/Tag/listar", models.DefaultListShape, models.Query{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	require.NoError(t, c.Close())
}
