package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/google/uuid"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// requireSession answers 401 unless the request carries a live session
// cookie, and 403 for forbidden resources.
func (s *Server) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(SessionCookie)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "missing session")
			return
		}

		s.mu.Lock()
		userID, ok := s.sessions[ck.Value]
		forbidden := s.forbidden["/"+r.PathValue("resource")]
		s.mu.Unlock()

		if !ok {
			writeMessage(w, http.StatusUnauthorized, "session expired")
			return
		}
		if forbidden {
			writeMessage(w, http.StatusForbidden, "sem permissão para este recurso")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

type problemDetails struct {
	Title  string              `json:"title"`
	Errors map[string][]string `json:"errors"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "corpo inválido")
		return
	}

	problems := map[string][]string{}
	if req.Email == "" {
		problems["Email"] = []string{"O e-mail é obrigatório."}
	}
	if req.Password == "" {
		problems["Password"] = []string{"A senha é obrigatória."}
	}
	if len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, problemDetails{Title: "One or more validation errors occurred.", Errors: problems})
		return
	}

	s.mu.Lock()
	u, ok := s.users[req.Email]
	s.mu.Unlock()

	if !ok || u.Password != req.Password {
		writeMessage(w, http.StatusUnauthorized, "E-mail ou senha inválidos.")
		return
	}
	if u.Locked {
		writeMessage(w, http.StatusLocked, "Conta bloqueada.")
		return
	}

	token := uuid.NewString()
	expires := time.Now().Add(8 * time.Hour)

	s.mu.Lock()
	s.sessions[token] = u.ID
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"token":       token,
		"expiresAt":   expires.UTC().Format(time.RFC3339),
		"user":        map[string]any{"id": u.ID, "name": u.Name, "email": u.Email},
		"permissions": u.Permissions,
		"profiles":    []string{"Administrador"},
		"menus":       []map[string]string{{"name": "Notícias", "path": "/noticias"}},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if ck, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, ck.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordRecoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeMessage(w, http.StatusBadRequest, "O e-mail é obrigatório.")
		return
	}
	// Unknown addresses get the same answer.
	writeMessage(w, http.StatusOK, "Se o e-mail estiver cadastrado, você receberá as instruções.")
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "corpo inválido")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[req.Email]
	if !ok || req.Token != s.resetToken {
		writeJSON(w, http.StatusBadRequest, problemDetails{Errors: map[string][]string{"Token": {"Token inválido ou expirado."}}})
		return
	}
	u.Password = req.Password
	s.users[req.Email] = u
	w.WriteHeader(http.StatusNoContent)
}

// ResetToken is the token ResetPassword accepts.
func (s *Server) ResetToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetToken
}
