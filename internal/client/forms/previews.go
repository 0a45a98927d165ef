package forms

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/shopadmin/internal/filex"
	"github.com/google/uuid"
)

// ErrUnknownPreview is returned when releasing a preview this set does not own.
var ErrUnknownPreview = errors.New("unknown preview")

// Preview is a selected file staged for upload. Path is a private copy in the
// preview directory; URI points at it for display.
type Preview struct {
	Source string
	Path   string
	URI    string
}

// Previews owns the staged copies of one form. Every copy must be released
// when it is superseded or the form goes away.
type Previews struct {
	dir string

	mu    sync.Mutex
	owned map[string]Preview
}

func NewPreviews(dir string) (*Previews, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("preview dir: %w", err)
	}
	return &Previews{dir: abs, owned: make(map[string]Preview)}, nil
}

// Add stages src under a fresh name.
func (p *Previews) Add(src string) (Preview, error) {
	info, err := os.Stat(src)
	if err != nil {
		return Preview{}, fmt.Errorf("select %s: %w", src, err)
	}
	if info.IsDir() {
		return Preview{}, fmt.Errorf("select %s: is a directory", src)
	}

	dst := filepath.Join(p.dir, uuid.NewString()+filepath.Ext(src))
	if err := filex.CopyFile(src, dst); err != nil {
		return Preview{}, err
	}

	pv := Preview{Source: src, Path: dst, URI: (&url.URL{Scheme: "file", Path: filepath.ToSlash(dst)}).String()}
	p.mu.Lock()
	p.owned[pv.Path] = pv
	p.mu.Unlock()
	return pv, nil
}

// Replace stages src and releases old. old is kept when staging fails.
func (p *Previews) Replace(old Preview, src string) (Preview, error) {
	pv, err := p.Add(src)
	if err != nil {
		return Preview{}, err
	}
	if err := p.Release(old); err != nil && !errors.Is(err, ErrUnknownPreview) {
		return pv, err
	}
	return pv, nil
}

func (p *Previews) Release(pv Preview) error {
	p.mu.Lock()
	_, ok := p.owned[pv.Path]
	delete(p.owned, pv.Path)
	p.mu.Unlock()

	if !ok {
		return ErrUnknownPreview
	}
	return remove(pv.Path)
}

// ReleaseAll removes every staged copy. It is safe to call more than once.
func (p *Previews) ReleaseAll() error {
	p.mu.Lock()
	owned := p.owned
	p.owned = make(map[string]Preview)
	p.mu.Unlock()

	var errs []error
	for path := range owned {
		errs = append(errs, remove(path))
	}
	return errors.Join(errs...)
}

// Len is the number of staged copies.
func (p *Previews) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.owned)
}

func remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("release preview: %w", err)
	}
	return nil
}
