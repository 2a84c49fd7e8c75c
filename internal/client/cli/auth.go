package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/services"
	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for username, email and password and creates an account.
// The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Register(ctx, userName, email, password)
	if err != nil {
		a.report(ctx, "registration failed", err)
		return err
	}

	fmt.Fprintf(a.out, "Registered %s <%s>\n", u.Username, u.Email)
	return nil
}

// Login prompts for credentials and stores the issued session.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, userName, password)
	if err != nil {
		a.report(ctx, "login failed", err)
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (token valid until %s)\n", userName, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// Logout forgets the saved session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.report(ctx, "logout failed", err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	name, err := a.authService.Profile(ctx)
	if err != nil {
		a.report(ctx, "profile failed", err)
		return err
	}
	fmt.Fprintf(a.out, "Username: %s\n", name)
	return nil
}

func (a *App) Protected(ctx context.Context) error {
	text, err := a.authService.Protected(ctx)
	if err != nil {
		a.report(ctx, "protected call failed", err)
		return err
	}
	fmt.Fprintln(a.out, text)
	return nil
}

func (a *App) report(ctx context.Context, msg string, err error) {
	a.logger.Debug(ctx, msg, "error", err)
	fmt.Fprintln(a.out, describeError(err))
}

func describeError(err error) string {
	switch {
	case errors.Is(err, services.ErrNotLoggedIn):
		return "You are not logged in."
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Sprintf("Not authorized: %v", err)
	case errors.Is(err, client.ErrConflict):
		return fmt.Sprintf("Rejected: %v", err)
	case errors.Is(err, client.ErrBadRequest):
		return fmt.Sprintf("Invalid input: %v", err)
	case errors.Is(err, client.ErrUnavailable):
		return "Server is unavailable, try again later."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
