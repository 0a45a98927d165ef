package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/shopadmin/internal/client/api"
	"github.com/dmitrijs2005/shopadmin/internal/client/storage"
	"github.com/stretchr/testify/require"
)

// fakeDoer replays a scripted envelope and records every request.
type fakeDoer struct {
	Env   *api.Envelope
	Err   error
	Calls []api.Request
}

func (f *fakeDoer) Do(_ context.Context, req api.Request, out any) (*api.Envelope, error) {
	f.Calls = append(f.Calls, req)
	if f.Err != nil {
		return f.Env, f.Err
	}
	env := f.Env
	if env == nil {
		env = &api.Envelope{Success: true}
	}
	if out != nil && env.HasData() {
		if err := env.Decode(out); err != nil {
			return env, err
		}
	}
	return env, nil
}

func (f *fakeDoer) Last() api.Request {
	if len(f.Calls) == 0 {
		return api.Request{}
	}
	return f.Calls[len(f.Calls)-1]
}

func envelope(t *testing.T, data any, msg string) *api.Envelope {
	t.Helper()
	env := &api.Envelope{Success: true, Msg: msg}
	if data != nil {
		b, err := json.Marshal(data)
		require.NoError(t, err)
		env.Data = b
	}
	return env
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "admin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
