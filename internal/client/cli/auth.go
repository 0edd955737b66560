package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/dmitrijs2005/safedocs/internal/client/services"
	"github.com/dmitrijs2005/safedocs/internal/common"
)

// getSimpleText, getPassword and confirm are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

// Register collects name, email, password with confirmation and the terms
// acceptance, creates the account and signs in with the same credentials.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	accepted, err := confirm(a.reader, "Do you accept the terms of use?", a.out)
	if err != nil {
		return err
	}

	user, err := a.auth.Register(ctx, models.RegisterForm{
		Name:            name,
		Email:           email,
		Password:        string(password),
		ConfirmPassword: string(confirmation),
		AcceptTerms:     &accepted,
	})
	if state, lastErr := a.auth.State(); state != services.FormSuccess {
		printlnFn("Registration failed:", userMessage(lastErr))
		return err
	}

	printlnFn("Account created.")
	a.welcome(ctx, user)
	return nil
}

// Login prompts for credentials and opens a session. On success the
// document list is loaded.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, email, string(password))
	if state, lastErr := a.auth.State(); state != services.FormSuccess {
		printlnFn("Login failed:", userMessage(lastErr))
		return err
	}

	a.welcome(ctx, user)
	return nil
}

func (a *App) welcome(ctx context.Context, user *models.User) {
	printlnFn(fmt.Sprintf("Welcome, %s!", user.Name))
	if err := a.dashboard.Refresh(ctx); err != nil {
		printlnFn("Could not load documents:", userMessage(err))
	}
}

// Logout drops the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout failed", "error", err)
		printlnFn("Logout failed:", err)
		return err
	}
	printlnFn("Signed out.")
	return nil
}
