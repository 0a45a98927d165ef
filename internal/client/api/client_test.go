package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	c, err := New(srv.URL+"/api/v1", opts...)
	require.NoError(t, err)
	return c
}

func TestNew_ValidatesBaseURL(t *testing.T) {
	_, err := New("ftp://example.com")
	require.Error(t, err)

	_, err = New("://bad")
	require.Error(t, err)

	c, err := New("http://localhost:7000/api/v1/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:7000/api/v1", c.BaseURL())
}

func TestDo_SuccessDecodesDataAndSetsHeaders(t *testing.T) {
	var gotAuth, gotReqID, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get(RequestIDHeader)
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []item{{ID: "1", Name: "Phones"}},
		})
	}))
	defer srv.Close()

	c := newClient(t, srv, WithTokenSource(TokenFunc(func() string { return "T" })))

	var got []item
	env, err := c.Do(context.Background(), Request{Path: "/get-orders", Auth: true}, &got)
	require.NoError(t, err)
	require.True(t, env.Success)
	assert.Equal(t, []item{{ID: "1", Name: "Phones"}}, got)
	assert.Equal(t, "Bearer T", gotAuth)
	assert.Equal(t, "/api/v1/get-orders", gotPath)
	_, err = uuid.Parse(gotReqID)
	assert.NoError(t, err)
}

func TestDo_NoAuthHeaderForPublicCalls(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	c := newClient(t, srv, WithTokenSource(TokenFunc(func() string { return "T" })))
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "login", Body: map[string]string{"email": "a"}}, nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDo_ApplicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "msg": "Invalid credentials"})
	}))
	defer srv.Close()

	c := newClient(t, srv)
	env, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/login"}, nil)

	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	require.NotNil(t, env)
	assert.Equal(t, "Invalid credentials", Message(err, "Login failed"))
}

func TestDo_TransportErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "server message", status: http.StatusBadRequest, body: `{"success":false,"msg":"Email exists"}`, wantMsg: "Email exists"},
		{name: "no body", status: http.StatusInternalServerError, body: ``, wantMsg: "fallback"},
		{name: "html body", status: http.StatusBadGateway, body: `<html>`, wantMsg: "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newClient(t, srv).Do(context.Background(), Request{Path: "/x"}, nil)

			var tErr *TransportError
			require.ErrorAs(t, err, &tErr)
			assert.Equal(t, tt.status, tErr.Status)
			assert.Equal(t, tt.wantMsg, Message(err, "fallback"))
		})
	}
}

func TestDo_SuccessStatusWithBrokenBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not json")
	}))
	defer srv.Close()

	_, err := newClient(t, srv).Do(context.Background(), Request{Path: "/x"}, nil)
	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, http.StatusOK, tErr.Status)
}

func TestDo_UnauthorizedFiresHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "msg": "jwt expired"})
	}))
	defer srv.Close()

	var hooks atomic.Int32
	c := newClient(t, srv,
		WithTokenSource(TokenFunc(func() string { return "old" })),
		WithUnauthorizedHook(func(context.Context) { hooks.Add(1) }),
	)

	_, err := c.Do(context.Background(), Request{Path: "/get-all-user", Auth: true}, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "jwt expired", Message(err, "x"))
	assert.Equal(t, int32(1), hooks.Load())
}

func TestDo_AuthWithoutTokenSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	var hooks atomic.Int32
	c := newClient(t, srv, WithUnauthorizedHook(func(context.Context) { hooks.Add(1) }))

	_, err := c.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/delete-user/1", Auth: true}, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.ErrorIs(t, err, ErrNoToken)
	assert.Zero(t, hits.Load())
	assert.Equal(t, int32(1), hooks.Load())
}

func TestDo_NetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newClient(t, srv)
	srv.Close()

	_, err := c.Do(context.Background(), Request{Path: "/get-category"}, nil)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "Failed to fetch", Message(err, "Failed to fetch"))
}

func TestDo_Multipart(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "phone.png")
	require.NoError(t, os.WriteFile(img, []byte("png-bytes"), 0o600))

	type seen struct {
		name, brand, file, ctype string
	}
	got := make(chan seen, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("images")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, _ := io.ReadAll(f)
		got <- seen{
			name:  r.FormValue("name"),
			brand: r.FormValue("brand"),
			file:  hdr.Filename + ":" + string(b),
			ctype: hdr.Header.Get("Content-Type"),
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": item{ID: "p1", Name: "Phone"}})
	}))
	defer srv.Close()

	form := &Multipart{}
	form.AddField("name", "Phone")
	form.AddField("brand", "Acme")
	form.AddFile("images", img)

	var out item
	_, err := newClient(t, srv).Do(context.Background(), Request{Method: http.MethodPost, Path: "/create-product/1", Form: form}, &out)
	require.NoError(t, err)
	assert.Equal(t, "p1", out.ID)

	s := <-got
	assert.Equal(t, "Phone", s.name)
	assert.Equal(t, "Acme", s.brand)
	assert.Equal(t, "phone.png:png-bytes", s.file)
	assert.Equal(t, "image/png", s.ctype)
}

func TestDo_MultipartMissingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	}))
	defer srv.Close()

	form := &Multipart{}
	form.AddFile("image", filepath.Join(t.TempDir(), "missing.png"))
	_, err := newClient(t, srv).Do(context.Background(), Request{Method: http.MethodPost, Path: "/x", Form: form}, nil)
	require.Error(t, err)
}

func TestDo_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	c := newClient(t, srv, WithRateLimit(0.01, 1))
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/a"}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Do(ctx, Request{Method: http.MethodPost, Path: "/b"}, nil)
	require.ErrorContains(t, err, "rate limit")
}

func TestDo_ConcurrentGetsShareOneRoundTrip(t *testing.T) {
	var hits atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(entered)
		}
		<-release
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []item{{ID: "1"}}})
	}))
	defer srv.Close()

	c := newClient(t, srv)
	var wg sync.WaitGroup
	results := make([][]item, 2)

	call := func(i int) {
		defer wg.Done()
		_, err := c.Do(context.Background(), Request{Path: "/get-all-review"}, &results[i])
		assert.NoError(t, err)
	}

	wg.Add(1)
	go call(0)
	<-entered
	wg.Add(1)
	go call(1)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, results[0], results[1])
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	c := newClient(t, srv)
	require.NoError(t, c.Ping(context.Background()))

	srv.Close()
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestPathEscape(t *testing.T) {
	assert.Equal(t, "delete-user/a%2Fb", PathEscape("delete-user", "a/b"))
}
