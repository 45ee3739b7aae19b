// Package services contains the application services of the govadmin
// client. This file defines the authentication service: form validation in
// front of the session manager and the password-recovery endpoints.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/govadmin/internal/client/client"
	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/dmitrijs2005/govadmin/internal/client/session"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const minPasswordLength = 8

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: validate the form, then sign in through the session manager.
//   - Logout: end the session; never fails.
//   - RecoverPassword / ResetPassword: the password-recovery flow, outside
//     the session.
//   - State: the live session state.
//
// Form problems are reported as *client.ValidationError before any request
// is sent.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*models.Credential, error)
	Logout(ctx context.Context)
	RecoverPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req models.PasswordResetRequest) error
	State() session.State
}

// Sessions is the part of session.Manager the service drives.
type Sessions interface {
	Login(ctx context.Context, creds models.Credentials) (*models.Credential, error)
	Logout(ctx context.Context)
	State() session.State
}

// PasswordAPI is the password-recovery part of the API client.
type PasswordAPI interface {
	RecoverPassword(ctx context.Context, req models.PasswordRecoveryRequest) error
	ResetPassword(ctx context.Context, req models.PasswordResetRequest) error
}

type authService struct {
	sessions Sessions
	api      PasswordAPI
}

func NewAuthService(sessions Sessions, api PasswordAPI) AuthService {
	return &authService{sessions: sessions, api: api}
}

type loginForm struct {
	Email    string `json:"email"`
	Password []byte `json:"password"`
}

func (f loginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Password, validation.Required),
	)
}

type recoveryForm struct {
	Email string `json:"email"`
}

func (f recoveryForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, is.Email),
	)
}

type resetForm models.PasswordResetRequest

func (f resetForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Token, validation.Required),
		validation.Field(&f.Password, validation.Required, validation.Length(minPasswordLength, 100)),
		validation.Field(&f.ConfirmPassword, validation.Required, validation.By(equals(f.Password))),
	)
}

func equals(str string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("as senhas não conferem")
		}
		return nil
	}
}

// Login validates the form and signs in. The password is wiped in every
// case.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Credential, error) {
	if err := (loginForm{Email: email, Password: password}).Validate(); err != nil {
		clear(password)
		return nil, toValidationError(err)
	}
	return a.sessions.Login(ctx, models.Credentials{Email: email, Password: password})
}

func (a *authService) Logout(ctx context.Context) {
	a.sessions.Logout(ctx)
}

func (a *authService) State() session.State {
	return a.sessions.State()
}

func (a *authService) RecoverPassword(ctx context.Context, email string) error {
	if err := (recoveryForm{Email: email}).Validate(); err != nil {
		return toValidationError(err)
	}
	if err := a.api.RecoverPassword(ctx, models.PasswordRecoveryRequest{Email: email}); err != nil {
		return fmt.Errorf("recover password: %w", err)
	}
	return nil
}

func (a *authService) ResetPassword(ctx context.Context, req models.PasswordResetRequest) error {
	if err := resetForm(req).Validate(); err != nil {
		return toValidationError(err)
	}
	if err := a.api.ResetPassword(ctx, req); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// toValidationError flattens ozzo field errors into the display form used
// for server-side validation failures.
func toValidationError(err error) error {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return &client.ValidationError{Messages: []string{err.Error()}}
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, fmt.Sprintf("%s: %v", name, fields[name]))
	}
	return &client.ValidationError{Messages: msgs}
}
