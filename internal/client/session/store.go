package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/dmitrijs2005/shopadmin/internal/client/storage"
	"github.com/dmitrijs2005/shopadmin/internal/dbx"
)

// ErrNoSession is returned by operations that need a live session record.
var ErrNoSession = errors.New("no active session")

// Store is the one owner of the session record. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	repo func(dbx.DBTX) storage.Repository
	now  func() time.Time

	mu      sync.RWMutex
	current *models.User
	expiry  time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRepository replaces the repository constructor.
func WithRepository(fn func(dbx.DBTX) storage.Repository) Option {
	return func(s *Store) { s.repo = fn }
}

func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:  db,
		now: time.Now,
		repo: func(db dbx.DBTX) storage.Repository {
			return storage.NewSQLiteRepository(db)
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads the persisted record. A missing record yields (nil, nil). An
// unparsable or expired record is deleted and also yields (nil, nil), so a
// second call right after finds nothing to delete.
func (s *Store) Load(ctx context.Context) (*models.User, error) {
	repo := s.repo(s.db)

	raw, err := repo.Get(ctx, KeyUser)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if raw == nil {
		s.set(nil, time.Time{})
		return nil, nil
	}

	rec, err := Decode(raw)
	if err != nil || !Valid(rec, s.now()) {
		s.set(nil, time.Time{})
		if err := repo.Delete(ctx, KeyUser); err != nil {
			return nil, fmt.Errorf("purge session: %w", err)
		}
		return nil, nil
	}

	s.set(rec.Value, rec.ExpiresAt())
	return s.Current(), nil
}

// Save overwrites the record with user and an expiry of now+ttl.
func (s *Store) Save(ctx context.Context, user models.User, ttl time.Duration) (Record, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	rec := NewRecord(user, s.now(), ttl)
	if err := s.write(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Update applies fn to a copy of the current user and writes the full record
// back with the original expiry.
func (s *Store) Update(ctx context.Context, fn func(u *models.User)) (*models.User, error) {
	s.mu.RLock()
	cur, expiry := s.current, s.expiry
	s.mu.RUnlock()

	if cur == nil || !expiry.After(s.now()) {
		return nil, ErrNoSession
	}

	next := *cur
	fn(&next)
	if err := s.write(ctx, Record{Value: &next, Expiry: expiry.UnixMilli()}); err != nil {
		return nil, err
	}
	return s.Current(), nil
}

// Clear removes the session record.
func (s *Store) Clear(ctx context.Context) error {
	s.set(nil, time.Time{})
	if err := s.repo(s.db).Delete(ctx, KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// ClearAll drops the session record and the pending register email in one
// transaction.
func (s *Store) ClearAll(ctx context.Context) error {
	s.set(nil, time.Time{})
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Delete(ctx, KeyUser); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyEmail)
	})
}

// Current returns a copy of the loaded user or nil.
func (s *Store) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// ExpiresAt is the expiry of the loaded record.
func (s *Store) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiry
}

// Token returns the bearer token of the loaded user, or "" without a session.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

func (s *Store) SetPendingEmail(ctx context.Context, email string) error {
	if err := s.repo(s.db).Set(ctx, KeyEmail, []byte(email)); err != nil {
		return fmt.Errorf("save pending email: %w", err)
	}
	return nil
}

func (s *Store) PendingEmail(ctx context.Context) (string, error) {
	v, err := s.repo(s.db).Get(ctx, KeyEmail)
	if err != nil {
		return "", fmt.Errorf("read pending email: %w", err)
	}
	return string(v), nil
}

func (s *Store) ClearPendingEmail(ctx context.Context) error {
	if err := s.repo(s.db).Delete(ctx, KeyEmail); err != nil {
		return fmt.Errorf("clear pending email: %w", err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, rec Record) error {
	raw, err := Encode(rec)
	if err != nil {
		return err
	}
	if err := s.repo(s.db).Set(ctx, KeyUser, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.set(rec.Value, rec.ExpiresAt())
	return nil
}

func (s *Store) set(u *models.User, expiry time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.current, s.expiry = nil, time.Time{}
		return
	}
	cp := *u
	s.current, s.expiry = &cp, expiry
}
