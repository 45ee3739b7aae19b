package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/dmitrijs2005/govadmin/internal/client/session"
	"github.com/dmitrijs2005/govadmin/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and signs in. Failures are shown
// by kind; the password buffer is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	cred, err := a.auth.Login(ctx, email, password)
	if err != nil {
		renderError(err)
		return err
	}

	printlnFn(successStyle.Render(fmt.Sprintf("Welcome, %s!", displayName(*cred))))
	return nil
}

// Logout ends the session. It always succeeds locally, even when the
// server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	a.current = ""
	printlnFn("Logged out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	st := a.auth.State()
	if st.Status != session.StatusAuthenticated {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s> id=%s", displayName(*st.Credential), st.Credential.Email, st.Credential.ID))
	return nil
}

// Recover asks the server to send a password recovery email.
func (a *App) Recover(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.auth.RecoverPassword(ctx, email); err != nil {
		renderError(err)
		return err
	}
	printlnFn("If the address is registered, a recovery email is on its way.")
	return nil
}

// Reset sets a new password with the token received by email.
func (a *App) Reset(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	token, err := getSimpleText(a.reader, "Enter recovery token", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("New password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat new password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	err = a.auth.ResetPassword(ctx, models.PasswordResetRequest{
		Email:           email,
		Token:           token,
		Password:        string(password),
		ConfirmPassword: string(confirm),
	})
	if err != nil {
		renderError(err)
		return err
	}
	printlnFn("Password changed. You can log in now.")
	return nil
}

func displayName(c models.Credential) string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Email
}
