// Package controllers keeps the in-memory copy of each admin collection and
// derives the filtered, paginated views the screens show.
//
// The server is authoritative: every mutation is reconciled from its
// response, and when the response carries neither the record nor the
// collection the controller refetches instead of guessing.
package controllers

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/dmitrijs2005/shopadmin/internal/client/services"
)

// ErrCancelled is returned when the admin declines a destructive action.
var ErrCancelled = errors.New("cancelled")

// Confirmer asks the admin to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// Backend is the collection service a List talks to; *services.Resource
// implements it.
type Backend[T models.Identified] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, adminID models.ID, p services.Payload) (services.Mutation[T], error)
	Update(ctx context.Context, id models.ID, p services.Payload) (services.Mutation[T], error)
	Patch(ctx context.Context, id models.ID, fields map[string]any) (services.Mutation[T], error)
	Delete(ctx context.Context, id models.ID) (services.Mutation[T], error)
	DeleteAll(ctx context.Context) (services.Mutation[T], error)
}

// List is the controller behind one list screen.
//
// The mutex guards memory only. Responses are applied in the order they
// resolve, so a slow reload may overwrite a newer mutation result.
type List[T models.Identified] struct {
	backend Backend[T]
	screen  Screen[T]
	confirm Confirmer

	mu    sync.RWMutex
	items []T
}

func NewList[T models.Identified](backend Backend[T], screen Screen[T], confirm Confirmer) *List[T] {
	return &List[T]{backend: backend, screen: screen, confirm: confirm}
}

func (l *List[T]) Screen() Screen[T] { return l.screen }

// Load replaces the collection with a fresh copy from the server. On failure
// the collection is emptied.
func (l *List[T]) Load(ctx context.Context) error {
	items, err := l.backend.List(ctx)
	if err != nil {
		l.replace(nil)
		return err
	}
	l.replace(items)
	return nil
}

// Items returns a copy of the collection in server order.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

// Get looks up a record by id.
func (l *List[T]) Get(id models.ID) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.index(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// View filters and paginates the collection.
func (l *List[T]) View(q Query) Page[T] {
	return l.screen.View(l.Items(), q)
}

func (l *List[T]) Create(ctx context.Context, adminID models.ID, p services.Payload) (string, error) {
	m, err := l.backend.Create(ctx, adminID, p)
	if err != nil {
		return "", err
	}
	return m.Msg, l.reconcile(ctx, m)
}

func (l *List[T]) Update(ctx context.Context, id models.ID, p services.Payload) (string, error) {
	m, err := l.backend.Update(ctx, id, p)
	if err != nil {
		return "", err
	}
	return m.Msg, l.reconcile(ctx, m)
}

func (l *List[T]) Patch(ctx context.Context, id models.ID, fields map[string]any) (string, error) {
	m, err := l.backend.Patch(ctx, id, fields)
	if err != nil {
		return "", err
	}
	return m.Msg, l.reconcile(ctx, m)
}

// Delete removes one record after confirmation.
func (l *List[T]) Delete(ctx context.Context, id models.ID) (string, error) {
	if err := l.ask(ctx, fmt.Sprintf("Delete %s %s?", l.screen.Singular(), id)); err != nil {
		return "", err
	}
	m, err := l.backend.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	return m.Msg, l.reconcileDelete(ctx, m, id)
}

// DeleteAll empties the collection after confirmation. It is sent once; a
// failed call is reported, not retried.
func (l *List[T]) DeleteAll(ctx context.Context) (string, error) {
	if err := l.ask(ctx, fmt.Sprintf("Delete all %s?", l.screen.Name)); err != nil {
		return "", err
	}
	m, err := l.backend.DeleteAll(ctx)
	if err != nil {
		return "", err
	}
	return m.Msg, l.reconcileDelete(ctx, m, "")
}

func (l *List[T]) ask(ctx context.Context, prompt string) error {
	if l.confirm == nil {
		return nil
	}
	ok, err := l.confirm.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

func (l *List[T]) reconcile(ctx context.Context, m services.Mutation[T]) error {
	switch {
	case m.List != nil:
		l.replace(m.List)
	case m.Record != nil:
		l.upsert(*m.Record)
	default:
		if err := l.Load(ctx); err != nil {
			return fmt.Errorf("refresh %s: %w", l.screen.Name, err)
		}
	}
	return nil
}

// reconcileDelete applies a delete reply. A returned collection replaces the
// list; anything else (the deleted document or a bare acknowledgement) is
// followed by a refetch. The deleted id never survives either way.
func (l *List[T]) reconcileDelete(ctx context.Context, m services.Mutation[T], id models.ID) error {
	if m.List == nil {
		if err := l.Load(ctx); err != nil {
			return fmt.Errorf("refresh %s: %w", l.screen.Name, err)
		}
	} else {
		l.replace(m.List)
	}
	if id != "" {
		l.remove(id)
	}
	return nil
}

func (l *List[T]) remove(id models.ID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = slices.DeleteFunc(l.items, func(it T) bool { return it.GetID() == id })
}

func (l *List[T]) replace(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = slices.Clone(items)
}

func (l *List[T]) upsert(rec T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(rec.GetID()); i >= 0 {
		l.items[i] = rec
		return
	}
	l.items = append(l.items, rec)
}

// index must be called with mu held.
func (l *List[T]) index(id models.ID) int {
	return slices.IndexFunc(l.items, func(it T) bool { return it.GetID() == id })
}
