package forms

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Submit after the modal was closed.
var ErrClosed = errors.New("modal closed")

// Modal is the lifetime of one create/edit dialog. Its previews are released
// on Close whether or not anything was submitted.
type Modal struct {
	previews *Previews

	mu     sync.Mutex
	closed bool
}

func NewModal(previews *Previews) *Modal {
	return &Modal{previews: previews}
}

func (m *Modal) Previews() *Previews { return m.previews }

// Submit validates, then sends. A successful send closes the modal; on any
// error it stays open so the form can be corrected.
func (m *Modal) Submit(ctx context.Context, validate func() error, send func(ctx context.Context) error) error {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if validate != nil {
		if err := validate(); err != nil {
			return err
		}
	}
	if err := send(ctx); err != nil {
		return err
	}
	return m.Close()
}

// Close releases all previews. Calling it again is a no-op.
func (m *Modal) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	if m.previews == nil {
		return nil
	}
	return m.previews.ReleaseAll()
}

func (m *Modal) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
