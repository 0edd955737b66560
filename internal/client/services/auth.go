// Package services contains the application services of the SafeDocs
// terminal client: the auth flow, the document dashboard, the share dialog
// and the public share viewer.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/safedocs/internal/client/client"
	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/dmitrijs2005/safedocs/internal/logging"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrTermsNotAccepted = errors.New("terms of use must be accepted")
	ErrMissingFields    = errors.New("email and password are required")
)

// FormState is the progress of an auth form submission.
type FormState string

const (
	FormIdle       FormState = "idle"
	FormSubmitting FormState = "submitting"
	FormSuccess    FormState = "success"
)

// SessionStore is the part of the session the services write to.
type SessionStore interface {
	Save(ctx context.Context, sess models.Session) error
	Clear(ctx context.Context) error
	Current() (models.Session, bool)
}

// AuthService drives the login and registration forms.
//
// Contract:
//   - Login: exchange credentials for a token and persist the session.
//   - Register: validate the form locally, create the account, then log in
//     with the same credentials.
//   - Logout: drop the session.
//   - State: the form state and the error of the last failed submission.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, form models.RegisterForm) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser() (*models.User, bool)
	State() (FormState, error)
}

type authService struct {
	client   client.Client
	sessions SessionStore
	log      logging.Logger

	mu      sync.Mutex
	state   FormState
	lastErr error
}

func NewAuthService(c client.Client, sessions SessionStore, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, sessions: sessions, log: log.With("service", "auth"), state: FormIdle}
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	a.begin()
	user, err := a.login(ctx, email, password)
	a.finish(err)
	return user, err
}

func (a *authService) login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	resp, err := a.client.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		a.log.Warn(ctx, "login failed", "email", email, "error", err)
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := a.sessions.Save(ctx, models.Session{Token: resp.AccessToken, User: resp.User}); err != nil {
		return nil, err
	}

	a.log.Info(ctx, "signed in", "user", resp.User.Email, "role", resp.User.Role)
	user := resp.User
	return &user, nil
}

func (a *authService) Register(ctx context.Context, form models.RegisterForm) (*models.User, error) {
	a.begin()

	user, err := a.register(ctx, form)
	a.finish(err)
	return user, err
}

func (a *authService) register(ctx context.Context, form models.RegisterForm) (*models.User, error) {
	if form.Password != form.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if form.AcceptTerms != nil && !*form.AcceptTerms {
		return nil, ErrTermsNotAccepted
	}
	if strings.TrimSpace(form.Email) == "" || form.Password == "" {
		return nil, ErrMissingFields
	}

	if err := a.client.Register(ctx, form.Payload()); err != nil {
		a.log.Warn(ctx, "registration failed", "email", form.Email, "error", err)
		return nil, fmt.Errorf("register: %w", err)
	}
	a.log.Info(ctx, "account created", "email", form.Email)

	return a.login(ctx, form.Email, form.Password)
}

func (a *authService) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.state, a.lastErr = FormIdle, nil
	a.mu.Unlock()

	if err := a.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.log.Info(ctx, "signed out")
	return nil
}

func (a *authService) CurrentUser() (*models.User, bool) {
	sess, ok := a.sessions.Current()
	if !ok {
		return nil, false
	}
	return &sess.User, true
}

func (a *authService) State() (FormState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, a.lastErr
}

func (a *authService) begin() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state, a.lastErr = FormSubmitting, nil
}

func (a *authService) finish(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.state, a.lastErr = FormIdle, err
		return
	}
	a.state = FormSuccess
}
