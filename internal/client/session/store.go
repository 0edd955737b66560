// Package session holds the signed-in user's bearer token and profile. The
// pair lives in memory behind a mutex and is persisted to the state DB under
// fixed keys so a restarted client resumes the session.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/dmitrijs2005/safedocs/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/safedocs/internal/common"
	"github.com/dmitrijs2005/safedocs/internal/dbx"
	"github.com/dmitrijs2005/safedocs/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Store is safe for concurrent use. It satisfies oauth2.TokenSource.
type Store struct {
	mu      sync.RWMutex
	db      *sql.DB
	current *models.Session

	// repo binds the key/value repository to the DB or to a transaction.
	repo func(dbx.DBTX) metadata.Repository

	log logging.Logger
	now func() time.Time
}

func NewStore(db *sql.DB, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		db:   db,
		repo: func(db dbx.DBTX) metadata.Repository { return metadata.NewSQLiteRepository(db) },
		log:  log.With("component", "session"),
		now:  time.Now,
	}
}

// Load restores the persisted session. A user record that does not decode or
// a JWT whose exp has passed drops the stored pair. It returns nil when there
// is no usable session.
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	repo := s.repo(s.db)

	token, err := repo.Get(ctx, common.SessionTokenKey)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("load session token: %w", err)
	}
	rawUser, err := repo.Get(ctx, common.SessionUserKey)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("load session user: %w", err)
	}

	if len(token) == 0 && len(rawUser) == 0 {
		s.set(nil)
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		s.log.Warn(ctx, "stored user is unreadable, discarding session", "error", err)
		return nil, s.Clear(ctx)
	}
	if len(token) == 0 {
		s.log.Warn(ctx, "stored user without token, discarding session")
		return nil, s.Clear(ctx)
	}
	if expired(string(token), s.now()) {
		s.log.Info(ctx, "stored token has expired, discarding session")
		return nil, s.Clear(ctx)
	}

	sess := &models.Session{Token: string(token), User: user}
	s.set(sess)
	return s.snapshot(), nil
}

// Save persists token and user together and makes them current.
func (s *Store) Save(ctx context.Context, sess models.Session) error {
	if sess.Token == "" {
		return common.ErrInvalidToken
	}
	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, common.SessionTokenKey, []byte(sess.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.SessionUserKey, rawUser)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.set(&sess)
	s.log.Debug(ctx, "session saved", "user", sess.User.Email)
	return nil
}

// Clear removes both session keys. The in-memory session is dropped even if
// the state DB cannot be written.
func (s *Store) Clear(ctx context.Context) error {
	s.set(nil)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).Delete(ctx, common.SessionTokenKey, common.SessionUserKey)
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns a copy of the live session.
func (s *Store) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Session{}, false
	}
	return *s.current, true
}

// Token implements oauth2.TokenSource.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.Token == "" {
		return nil, common.ErrNoSession
	}
	return &oauth2.Token{AccessToken: s.current.Token, TokenType: "Bearer"}, nil
}

func (s *Store) set(sess *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess == nil {
		s.current = nil
		return
	}
	cp := *sess
	s.current = &cp
}

func (s *Store) snapshot() *models.Session {
	sess, ok := s.Current()
	if !ok {
		return nil
	}
	return &sess
}

// expired reads the exp claim without verifying the signature; the backend
// remains the authority. Tokens that are not JWTs never expire locally.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time)
}
