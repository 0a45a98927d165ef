package controllers

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/models"
)

// DefaultPageSize is the number of rows per page when a screen sets none.
const DefaultPageSize = 10

// Query selects a window of a collection. Zero values disable a filter.
type Query struct {
	Search string
	// Date is a YYYY-MM-DD day matched against the record's creation date (UTC).
	Date   string
	Status string
	Page   int
}

// Page is one window of the filtered collection.
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	Total      int
}

// Screen is the per-screen configuration of a list. Accessors left nil
// disable the corresponding filter.
type Screen[T models.Identified] struct {
	Name     string
	Item     string
	PageSize int
	Search   func(T) []string
	Date     func(T) time.Time
	Status   func(T) string
}

// Singular names one record of the screen.
func (s Screen[T]) Singular() string {
	if s.Item != "" {
		return s.Item
	}
	return strings.TrimSuffix(s.Name, "s")
}

// View applies the query's filters to items and cuts the requested page.
func (s Screen[T]) View(items []T, q Query) Page[T] {
	filtered := make([]T, 0, len(items))
	for _, it := range items {
		if s.match(it, q) {
			filtered = append(filtered, it)
		}
	}
	return paginate(filtered, q.Page, s.PageSize)
}

func (s Screen[T]) match(it T, q Query) bool {
	if term := strings.TrimSpace(q.Search); term != "" && s.Search != nil {
		if !containsFold(s.Search(it), term) {
			return false
		}
	}
	if q.Date != "" && s.Date != nil {
		created := s.Date(it)
		if created.IsZero() || created.UTC().Format(time.DateOnly) != q.Date {
			return false
		}
	}
	if q.Status != "" && s.Status != nil {
		if !strings.EqualFold(s.Status(it), q.Status) {
			return false
		}
	}
	return true
}

func containsFold(fields []string, term string) bool {
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// paginate clamps page into [1, totalPages] and returns that window.
func paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size

	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	from := (page - 1) * size
	to := min(from+size, total)
	if from > total {
		from = total
	}
	return Page[T]{Items: items[from:to], Page: page, TotalPages: pages, Total: total}
}
