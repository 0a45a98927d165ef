package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/shopadmin/internal/client/models"
)

// adminMux answers /login and records the last request body per path.
type adminMux struct {
	*http.ServeMux
	mu     sync.Mutex
	bodies map[string]map[string]any
	files  map[string]string
}

func newAdminMux() *adminMux {
	m := &adminMux{ServeMux: http.NewServeMux(), bodies: map[string]map[string]any{}, files: map[string]string{}}
	m.HandleFunc("/api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]any{
			"success": true,
			"user":    models.User{ID: "u1", Name: "Ada", Email: "admin@shop.io", Token: testToken},
		})
	})
	return m
}

func writeEnvelope(w http.ResponseWriter, v map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// capture stores the JSON or multipart body of r under its path.
func (m *adminMux) capture(t *testing.T, r *http.Request) {
	body := map[string]any{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		for k, v := range r.MultipartForm.Value {
			body[k] = v[0]
		}
		for field, fhs := range r.MultipartForm.File {
			f, err := fhs[0].Open()
			if err != nil {
				t.Errorf("open part: %v", err)
				return
			}
			b, _ := io.ReadAll(f)
			_ = f.Close()
			m.mu.Lock()
			m.files[field] = string(b)
			m.mu.Unlock()
		}
	} else {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	m.mu.Lock()
	m.bodies[r.URL.Path] = body
	m.mu.Unlock()
}

func (m *adminMux) body(path string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bodies["/api/v1"+path]
}

func (m *adminMux) file(field string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[field]
}

func loggedIn(t *testing.T, mux http.Handler, input string) *App {
	t.Helper()
	stubPassword(t, "secret")
	a, _ := newTestApp(t, mux, strings.NewReader("admin@shop.io\n"+input))
	require.NoError(t, a.Login(context.Background()))
	return a
}

func TestCategoryAdd_UploadsImageAndReleasesPreview(t *testing.T) {
	lines := capturePrint(t)

	img := filepath.Join(t.TempDir(), "phones.png")
	require.NoError(t, os.WriteFile(img, []byte("png-bytes"), 0o600))

	mux := newAdminMux()
	mux.HandleFunc("/api/v1/create-category/u1", func(w http.ResponseWriter, r *http.Request) {
		mux.capture(t, r)
		writeEnvelope(w, map[string]any{
			"success": true,
			"msg":     "Category created",
			"data":    []models.Category{{ID: "c1", Name: "Phones"}},
		})
	})

	a := loggedIn(t, mux, "Phones\n"+img+"\n")
	require.NoError(t, a.Screen(context.Background(), "categories", []string{"add"}))

	assert.Contains(t, lines.Lines(), "Category created")
	assert.Equal(t, "Phones", mux.body("/create-category/u1")["name"])
	assert.Equal(t, "png-bytes", mux.file("image"))

	cats := a.screens["categories"].(*collection[models.Category])
	assert.Len(t, cats.list.Items(), 1)

	entries, err := os.ReadDir(a.config.PreviewDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCategoryAdd_MissingImage(t *testing.T) {
	lines := capturePrint(t)

	a := loggedIn(t, newAdminMux(), "Phones\n\n")
	err := a.Screen(context.Background(), "categories", []string{"add"})
	require.Error(t, err)
	assert.Contains(t, lines.Lines(), "Category image is required.")
}

func TestElectronicAdd_SendsCategoryAsWattage(t *testing.T) {
	lines := capturePrint(t)

	mux := newAdminMux()
	mux.HandleFunc("/api/v1/electronics/create-electronics", func(w http.ResponseWriter, r *http.Request) {
		mux.capture(t, r)
		writeEnvelope(w, map[string]any{
			"success": true,
			"msg":     "Item added",
			"data":    models.Electronic{ID: "e1", Name: "Heater", Wattage: "2000W"},
		})
	})

	a := loggedIn(t, mux, "Heater\n2000W\n")
	require.NoError(t, a.Screen(context.Background(), "electronics", []string{"add"}))

	assert.Contains(t, lines.Lines(), "Item added")
	assert.Equal(t, map[string]any{"name": "Heater", "Wattage": "2000W"}, mux.body("/electronics/create-electronics"))
}

func TestProductToggle_PatchesFlag(t *testing.T) {
	capturePrint(t)

	mux := newAdminMux()
	mux.HandleFunc("/api/v1/get-all-product", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]any{"success": true, "data": []models.Product{{ID: "p1", Name: "Phone", IsTrending: true}}})
	})
	mux.HandleFunc("/api/v1/patch-product/p1", func(w http.ResponseWriter, r *http.Request) {
		mux.capture(t, r)
		writeEnvelope(w, map[string]any{"success": true, "data": models.Product{ID: "p1", Name: "Phone"}})
	})

	a := loggedIn(t, mux, "")
	ctx := context.Background()
	require.NoError(t, a.Screen(ctx, "products", []string{"trending", "p1"}))

	assert.Equal(t, map[string]any{"isTrending": false}, mux.body("/patch-product/p1"))
	products := a.screens["products"].(*collection[models.Product])
	p, ok := products.list.Get("p1")
	require.True(t, ok)
	assert.False(t, p.IsTrending)
}

func TestMessagesClear_AsksFirst(t *testing.T) {
	lines := capturePrint(t)

	var deleted atomic.Int32
	mux := newAdminMux()
	mux.HandleFunc("/api/v1/delete-all-review", func(w http.ResponseWriter, r *http.Request) {
		deleted.Add(1)
		writeEnvelope(w, map[string]any{"success": true, "msg": "All reviews deleted", "data": []models.Review{}})
	})

	a := loggedIn(t, mux, "n\ny\n")
	ctx := context.Background()

	require.Error(t, a.Screen(ctx, "messages", []string{"reviews", "clear"}))
	assert.Contains(t, lines.Lines(), "Cancelled.")
	assert.Equal(t, int32(0), deleted.Load())

	require.NoError(t, a.Screen(ctx, "messages", []string{"reviews", "clear"}))
	assert.Equal(t, int32(1), deleted.Load())
	assert.Contains(t, lines.Lines(), "All reviews deleted")
	assert.Equal(t, "/messages", a.currentRoute())
}

func TestScreen_UnknownName(t *testing.T) {
	a := loggedIn(t, newAdminMux(), "")
	assert.ErrorIs(t, a.Screen(context.Background(), "widgets", nil), errUnknownCommand)
}

func TestParseQuery(t *testing.T) {
	q, err := parseQuery("orders", []string{"-status", "pending", "-page", "2", "john"})
	require.NoError(t, err)
	assert.Equal(t, "pending", q.Status)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, "john", q.Search)

	_, err = parseQuery("orders", []string{"-page", "x"})
	assert.Error(t, err)
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "a b c", clip("a\n b   c", 10))
	assert.Equal(t, "abcd…", clip("abcdefgh", 5))
}
