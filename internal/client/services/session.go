package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/identity"
	"github.com/dmitrijs2005/storefront/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// ErrNoSession is returned by Current when nobody is signed in.
var ErrNoSession = errors.New("not signed in")

const (
	keyUID         = "uid"
	keyEmail       = "email"
	keyDisplayName = "display_name"
	keyProvider    = "provider"
	keyExpiresAt   = "expires_at"
)

// StoredSession is the locally persisted record of the signed-in user.
// Tokens and credentials are never part of it.
type StoredSession struct {
	UID         string
	Email       string
	DisplayName string
	Provider    string
	ExpiresAt   time.Time
}

// Expired reports whether the backend token the session came from has
// expired at now. A zero ExpiresAt never expires.
func (s StoredSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionService persists the signed-in user in the local metadata table.
type SessionService interface {
	Save(ctx context.Context, user *identity.UserIdentity) error
	Current(ctx context.Context) (*StoredSession, error)
	Clear(ctx context.Context) error
}

type sessionService struct {
	db   *sql.DB
	repo func(dbx.DBTX) metadata.Repository
	log  logging.Logger
}

func NewSessionService(db *sql.DB, log logging.Logger) SessionService {
	return &sessionService{
		db: db,
		repo: func(conn dbx.DBTX) metadata.Repository {
			return metadata.NewSQLiteRepository(conn)
		},
		log: log.With("store", "session"),
	}
}

// Save replaces any stored session with user.
func (s *sessionService) Save(ctx context.Context, user *identity.UserIdentity) error {
	if user == nil {
		return fmt.Errorf("save session: nil user")
	}

	values := map[string]string{
		keyUID:         user.UID,
		keyEmail:       user.Email,
		keyDisplayName: user.DisplayName,
		keyProvider:    user.ProviderID,
	}
	if !user.ExpiresAt.IsZero() {
		values[keyExpiresAt] = user.ExpiresAt.UTC().Format(time.RFC3339)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		for k, v := range values {
			if err := repo.Set(ctx, k, []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.log.Debug(ctx, "session saved", "uid", user.UID)
	return nil
}

func (s *sessionService) Current(ctx context.Context) (*StoredSession, error) {
	m, err := s.repo(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	uid := string(m[keyUID])
	if uid == "" {
		return nil, ErrNoSession
	}

	sess := &StoredSession{
		UID:         uid,
		Email:       string(m[keyEmail]),
		DisplayName: string(m[keyDisplayName]),
		Provider:    string(m[keyProvider]),
	}
	if raw := string(m[keyExpiresAt]); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("load session: bad %s: %w", keyExpiresAt, err)
		}
		sess.ExpiresAt = t
	}
	return sess, nil
}

func (s *sessionService) Clear(ctx context.Context) error {
	if err := s.repo(s.db).Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Debug(ctx, "session cleared")
	return nil
}
