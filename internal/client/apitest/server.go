// Package apitest provides an in-process fake of the admin REST API for
// transport, session and front-end tests. It keeps users, cookie sessions
// and resource records in memory and speaks the same envelopes, status
// codes and cookie conventions as the real service.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/dmitrijs2005/govadmin/internal/logging"
)

// SessionCookie is the name of the authority cookie.
const SessionCookie = "govadmin_session"

type User struct {
	ID          int
	Name        string
	Email       string
	Password    string
	Locked      bool
	Permissions []string
}

type collection struct {
	shape   models.ListShape
	records []models.Record
}

type failure struct {
	code      int
	remaining int
}

type Server struct {
	*httptest.Server

	log logging.Logger

	mu         sync.Mutex
	users      map[string]User
	sessions   map[string]int
	resetToken string
	data       map[string]*collection
	forbidden  map[string]bool
	failures   map[string]failure
	latency    func(r *http.Request) time.Duration
	hits       map[string]int
}

type Option func(*Server)

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

// NewServer starts the fake API. The caller must Close it.
func NewServer(opts ...Option) *Server {
	s := &Server{
		log:        logging.Nop(),
		users:      map[string]User{},
		sessions:   map[string]int{},
		resetToken: "reset-token",
		data:       map[string]*collection{},
		forbidden:  map[string]bool{},
		failures:   map[string]failure{},
		hits:       map[string]int{},
	}
	for _, o := range opts {
		o(s)
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /Auth/login", s.handleLogin)
	mux.HandleFunc("POST /Auth/logout", s.handleLogout)
	mux.HandleFunc("POST /Auth/recuperar-senha", s.handleRecover)
	mux.HandleFunc("POST /Auth/resetar-senha", s.handleReset)
	mux.Handle("GET /{resource}/listar", s.requireSession(s.handleList))
	mux.Handle("DELETE /{resource}/excluir/{id}", s.requireSession(s.handleDelete))
	mux.Handle("PUT /{resource}/{action}/{id}", s.requireSession(s.handleToggle))
	return s.instrument(mux)
}

// AddUser registers an account that can log in.
func (s *Server) AddUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Email] = u
}

// Seed replaces the records of the resource at base (e.g. "/Noticia"),
// served in the envelope described by shape.
func (s *Server) Seed(base string, shape models.ListShape, records ...models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[base] = &collection{shape: shape, records: records}
}

// Forbid makes every request to the resource at base answer 403.
func (s *Server) Forbid(base string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forbidden[base] = true
}

// ExpireSessions invalidates every issued cookie, as a server-side expiry
// would.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = map[string]int{}
}

// FailNext makes the next n requests to path answer code.
func (s *Server) FailNext(path string, code, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = failure{code: code, remaining: n}
}

// SetLatency delays every response by fn(r).
func (s *Server) SetLatency(fn func(r *http.Request) time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = fn
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// ActiveSessions returns the number of live cookie sessions.
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		latency := s.latency
		code := 0
		if f := s.failures[r.URL.Path]; f.remaining > 0 {
			code = f.code
			f.remaining--
			s.failures[r.URL.Path] = f
		}
		s.mu.Unlock()

		s.log.Debug(r.Context(), "request", "method", r.Method, "path", r.URL.Path)

		if latency != nil {
			select {
			case <-time.After(latency(r)):
			case <-r.Context().Done():
				return
			}
		}
		if code != 0 {
			writeJSON(w, code, map[string]string{"message": http.StatusText(code)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}
