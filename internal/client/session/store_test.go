package session

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/dmitrijs2005/shopadmin/internal/client/storage"
	"github.com/dmitrijs2005/shopadmin/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "admin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// countingRepo counts deletes on top of the real repository.
type countingRepo struct {
	storage.Repository
	deletes *atomic.Int32
}

func (c countingRepo) Delete(ctx context.Context, key string) error {
	c.deletes.Add(1)
	return c.Repository.Delete(ctx, key)
}

// failingRepo fails deletes of one key.
type failingRepo struct {
	storage.Repository
	key string
}

func (f failingRepo) Delete(ctx context.Context, key string) error {
	if key == f.key {
		return errors.New("delete refused")
	}
	return f.Repository.Delete(ctx, key)
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func putRaw(t *testing.T, db *sql.DB, key string, raw []byte) {
	t.Helper()
	require.NoError(t, storage.NewSQLiteRepository(db).Set(context.Background(), key, raw))
}

func getRaw(t *testing.T, db *sql.DB, key string) []byte {
	t.Helper()
	v, err := storage.NewSQLiteRepository(db).Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

func TestSave_ExpiryIsNowPlusTTL(t *testing.T) {
	db := setupDB(t)
	now := time.Now()
	s := NewStore(db, WithClock(fixedClock(now)))

	user := models.User{ID: "1", Name: "A", Token: "T"}
	rec, err := s.Save(context.Background(), user, DefaultTTL)
	require.NoError(t, err)

	want := now.UnixMilli() + 7*24*60*60*1000
	assert.InDelta(t, want, rec.Expiry, 1000)

	stored, err := Decode(getRaw(t, db, KeyUser))
	require.NoError(t, err)
	assert.Equal(t, rec.Expiry, stored.Expiry)
	assert.Equal(t, "T", stored.Value.Token)
	assert.Equal(t, "T", s.Token())
}

func TestSave_NonPositiveTTLFallsBackToDefault(t *testing.T) {
	now := time.Now()
	s := NewStore(setupDB(t), WithClock(fixedClock(now)))

	rec, err := s.Save(context.Background(), models.User{ID: "1"}, 0)
	require.NoError(t, err)
	assert.Equal(t, now.Add(DefaultTTL).UnixMilli(), rec.Expiry)
}

func TestLoad(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	user := models.User{ID: "7", Name: "Admin", Email: "a@b.com", Token: "tok"}

	valid, _ := Encode(NewRecord(user, now, time.Hour))
	expired, _ := Encode(NewRecord(user, now, -time.Second))
	exact, _ := Encode(Record{Value: &user, Expiry: now.UnixMilli()})
	noUser, _ := Encode(Record{Expiry: now.Add(time.Hour).UnixMilli()})

	tests := []struct {
		name       string
		raw        []byte
		wantUser   bool
		wantPurged bool
	}{
		{name: "valid record", raw: valid, wantUser: true},
		{name: "expired record", raw: expired, wantPurged: true},
		{name: "expiry equal to now", raw: exact, wantPurged: true},
		{name: "record without user", raw: noUser, wantPurged: true},
		{name: "garbage", raw: []byte("{not json"), wantPurged: true},
		{name: "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupDB(t)
			if tt.raw != nil {
				putRaw(t, db, KeyUser, tt.raw)
			}
			s := NewStore(db, WithClock(fixedClock(now)))

			got, err := s.Load(context.Background())
			require.NoError(t, err)

			if tt.wantUser {
				require.NotNil(t, got)
				assert.Equal(t, user, *got)
				assert.Equal(t, "tok", s.Token())
				assert.NotNil(t, getRaw(t, db, KeyUser))
				return
			}

			assert.Nil(t, got)
			assert.Nil(t, s.Current())
			assert.Empty(t, s.Token())
			if tt.wantPurged {
				assert.Nil(t, getRaw(t, db, KeyUser), "record must be purged")
			}
		})
	}
}

func TestLoad_IsIdempotent(t *testing.T) {
	db := setupDB(t)
	now := time.Now()
	expired, _ := Encode(NewRecord(models.User{ID: "1"}, now, -time.Minute))
	putRaw(t, db, KeyUser, expired)

	var deletes atomic.Int32
	s := NewStore(db, WithClock(fixedClock(now)), WithRepository(func(d dbx.DBTX) storage.Repository {
		return countingRepo{Repository: storage.NewSQLiteRepository(d), deletes: &deletes}
	}))

	first, err := s.Load(context.Background())
	require.NoError(t, err)
	second, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.Nil(t, first)
	assert.Nil(t, second)
	assert.Equal(t, int32(1), deletes.Load(), "second load must not clear again")
}

func TestLoad_ValidTwiceReturnsSameUser(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db)
	_, err := s.Save(context.Background(), models.User{ID: "1", Name: "A"}, time.Hour)
	require.NoError(t, err)

	a, err := s.Load(context.Background())
	require.NoError(t, err)
	b, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestUpdate_MergesAndKeepsExpiry(t *testing.T) {
	db := setupDB(t)
	now := time.Now()
	s := NewStore(db, WithClock(fixedClock(now)))
	ctx := context.Background()

	rec, err := s.Save(ctx, models.User{ID: "1", Name: "Old", Phone: "1", Token: "T"}, time.Hour)
	require.NoError(t, err)

	u, err := s.Update(ctx, func(u *models.User) {
		u.Name = "New"
		u.Phone = "555"
	})
	require.NoError(t, err)
	assert.Equal(t, "New", u.Name)
	assert.Equal(t, "T", u.Token)

	stored, err := Decode(getRaw(t, db, KeyUser))
	require.NoError(t, err)
	assert.Equal(t, rec.Expiry, stored.Expiry)
	assert.Equal(t, "New", stored.Value.Name)
	assert.Equal(t, "555", stored.Value.Phone)
}

func TestUpdate_WithoutSession(t *testing.T) {
	s := NewStore(setupDB(t))
	_, err := s.Update(context.Background(), func(*models.User) {})
	require.ErrorIs(t, err, ErrNoSession)
}

func TestClearAndClearAll(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db)
	ctx := context.Background()

	_, err := s.Save(ctx, models.User{ID: "1"}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.SetPendingEmail(ctx, "new@shop.io"))

	require.NoError(t, s.Clear(ctx))
	assert.Nil(t, getRaw(t, db, KeyUser))
	email, err := s.PendingEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new@shop.io", email)

	_, err = s.Save(ctx, models.User{ID: "1"}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.ClearAll(ctx))
	assert.Nil(t, getRaw(t, db, KeyUser))
	assert.Nil(t, getRaw(t, db, KeyEmail))
	assert.Nil(t, s.Current())
}

func TestClearAll_FailureKeepsBothKeys(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db, WithRepository(func(tx dbx.DBTX) storage.Repository {
		return failingRepo{Repository: storage.NewSQLiteRepository(tx), key: KeyEmail}
	}))
	ctx := context.Background()

	_, err := s.Save(ctx, models.User{ID: "1"}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.SetPendingEmail(ctx, "new@shop.io"))

	require.Error(t, s.ClearAll(ctx))
	assert.NotNil(t, getRaw(t, db, KeyUser), "user delete must roll back")
	assert.Equal(t, []byte("new@shop.io"), getRaw(t, db, KeyEmail))
}

func TestPendingEmail_Lifecycle(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()

	email, err := s.PendingEmail(ctx)
	require.NoError(t, err)
	assert.Empty(t, email)

	require.NoError(t, s.SetPendingEmail(ctx, "a@b.com"))
	email, err = s.PendingEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email)

	require.NoError(t, s.ClearPendingEmail(ctx))
	email, err = s.PendingEmail(ctx)
	require.NoError(t, err)
	assert.Empty(t, email)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, ok := TokenExpiry(tok)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)

	_, ok = TokenExpiry("")
	assert.False(t, ok)
}
