// Package models defines the client-side data shapes exchanged with the
// admin API and kept by the session layer.
package models

import (
	"encoding/json"
	"strconv"
)

// Credential is the authenticated identity shown by the UI. It carries no
// authority: the session token lives only in the HTTP cookie jar.
type Credential struct {
	ID          string `json:"id" cbor:"1,keyasint"`
	DisplayName string `json:"displayName" cbor:"2,keyasint"`
	Email       string `json:"email" cbor:"3,keyasint"`
}

// Credentials are what the user types into the login form.
type Credentials struct {
	Email    string
	Password []byte
}

// LoginRequest is the body of POST /Auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo is the user block of a login response. The API is not
// consistent about the id type, so it is kept as a raw number or string.
type UserInfo struct {
	ID    FlexibleID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
}

// LoginResponse is the body returned by POST /Auth/login. The token is
// transported by cookie; the copy in the body is deliberately not decoded.
// Permissions, profiles and menus are kept raw: their shape differs
// between API versions and nothing in the client reads them yet.
type LoginResponse struct {
	Token       string          `json:"-"`
	ExpiresAt   string          `json:"expiresAt"`
	User        UserInfo        `json:"user"`
	Permissions json.RawMessage `json:"permissions"`
	Profiles    json.RawMessage `json:"profiles"`
	Menus       json.RawMessage `json:"menus"`
}

// Credential extracts the display identity from the response.
func (r *LoginResponse) Credential() Credential {
	return Credential{ID: string(r.User.ID), DisplayName: r.User.Name, Email: r.User.Email}
}

// PasswordRecoveryRequest is the body of POST /Auth/recuperar-senha.
type PasswordRecoveryRequest struct {
	Email string `json:"email"`
}

// PasswordResetRequest is the body of POST /Auth/resetar-senha.
type PasswordResetRequest struct {
	Email           string `json:"email"`
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// FlexibleID decodes both JSON numbers and strings into a string.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	*f = FlexibleID(b)
	return nil
}
