package client

import (
	"context"

	"github.com/dmitrijs2005/govadmin/internal/client/models"
)

// Client is the transport-agnostic contract of the admin API.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
	RecoverPassword(ctx context.Context, req models.PasswordRecoveryRequest) error
	ResetPassword(ctx context.Context, req models.PasswordResetRequest) error
	List(ctx context.Context, endpoint string, shape models.ListShape, q models.Query) (*models.RawPage, error)
	Do(ctx context.Context, method, path string, body, out any) error
	Close() error
}

// API paths of the authentication endpoints.
const (
	PathLogin           = "/Auth/login"
	PathLogout          = "/Auth/logout"
	PathRecoverPassword = "/Auth/recuperar-senha"
	PathResetPassword   = "/Auth/resetar-senha"
)
