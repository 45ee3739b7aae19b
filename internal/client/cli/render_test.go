package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/govadmin/internal/client/client"
	"github.com/dmitrijs2005/govadmin/internal/client/listing"
	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/dmitrijs2005/govadmin/internal/client/resources"
	"github.com/dmitrijs2005/govadmin/internal/client/services"
	"github.com/dmitrijs2005/govadmin/internal/client/session"
	"github.com/stretchr/testify/require"
)

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &client.ValidationError{Messages: []string{"email: obrigatório", "senha: curta"}},
			"Please fix the following:\n  - email: obrigatório\n  - senha: curta"},
		{"login validation", &session.LoginError{Kind: session.LoginValidation, Err: &client.ValidationError{Messages: []string{"x"}}},
			"Please fix the following:\n  - x"},
		{"bad credentials", &session.LoginError{Kind: session.LoginBadCredentials, Err: client.ErrAuthorityLost},
			"Invalid email or password."},
		{"locked", &session.LoginError{Kind: session.LoginAccountLocked, Err: client.ErrAccountLocked},
			"This account is locked. Contact an administrator."},
		{"login timeout", &session.LoginError{Kind: session.LoginTimeout, Err: client.ErrTimeout},
			"The server did not answer in time. Try logging in again."},
		{"login other", &session.LoginError{Kind: session.LoginOther, Err: errors.New("boom")},
			"Login failed: boom"},
		{"forbidden", fmt.Errorf("list: %w", client.ErrForbidden),
			"You do not have permission for this resource."},
		{"not found", client.ErrNotFound,
			"The record was not found. It may have been removed."},
		{"unavailable", fmt.Errorf("list: %w", client.ErrUnavailable),
			"The server is unavailable. Run 'refresh' to retry."},
		{"timeout", client.ErrTimeout,
			"The server did not answer in time. Run 'refresh' to retry."},
		{"page", &listing.InvalidPageError{Page: 5, TotalPages: 3},
			"Page 5 does not exist; choose 1 to 3."},
		{"page before total", &listing.InvalidPageError{Page: 0},
			"Page 0 does not exist."},
		{"page size", listing.ErrInvalidPageSize,
			"Page size must be a positive number."},
		{"unknown resource", fmt.Errorf("%w: %q", services.ErrUnknownResource, "x"),
			services.ErrUnknownResource.Error() + `: "x". Run 'resources' to see what is available.`},
		{"status", &client.StatusError{Code: 418, Message: "teapot"},
			"Error: unexpected status 418: teapot"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, describeError(tc.err))
		})
	}
}

func TestRenderPage(t *testing.T) {
	r := resources.Resource{
		Title:   "Categorias",
		Columns: []resources.Column{{Field: "id", Header: "ID"}, {Field: "nome", Header: "Nome"}, {Field: "ativo", Header: "Ativo"}},
	}
	s := listing.Snapshot[models.Record]{
		Filters:    map[string]string{"status": "ativo", "busca": "sa"},
		Sort:       "nome",
		Page:       1,
		PageSize:   10,
		TotalItems: 2,
		TotalKnown: true,
		Items: []models.Record{
			{"id": float64(3), "nome": "Saúde", "ativo": true},
			{"id": float64(4), "nome": "Saneamento", "ativo": false},
		},
	}

	out := renderPage(r, s)
	require.Contains(t, out, "Categorias")
	require.Contains(t, out, "filters: busca=sa, status=ativo")
	require.Contains(t, out, "Nome")
	require.Contains(t, out, "Saúde")
	require.Contains(t, out, "sim")
	require.Contains(t, out, "não")
	require.Contains(t, out, "page 1 of 1, 2 items, sort nome")
}

func TestRenderPage_Empty(t *testing.T) {
	out := renderPage(resources.Resource{Title: "Tags"}, listing.Snapshot[models.Record]{Page: 1, PageSize: 10, TotalKnown: true})
	require.Contains(t, out, "No records found.")
	require.Contains(t, out, "page 1 of 1, 0 items")
}

func TestRenderCatalog(t *testing.T) {
	out := renderCatalog(resources.Default().All())
	require.Contains(t, out, "noticias")
	require.Contains(t, out, "Transparência")
	require.Contains(t, out, "excluir, ativar, desativar")
}
