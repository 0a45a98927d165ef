package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/shopadmin/internal/client/controllers"
	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/dmitrijs2005/shopadmin/internal/client/services"
	"github.com/dmitrijs2005/shopadmin/internal/flagx"
)

// screenHandler is one list screen of the console.
type screenHandler interface {
	route() string
	run(ctx context.Context, args []string) error
}

type action func(ctx context.Context, args []string) error

// collection is the command surface shared by every list screen: list with
// filters, delete, clear and watch. Screen specific verbs live in actions.
type collection[T models.Identified] struct {
	app     *App
	name    string
	path    string
	list    *controllers.List[T]
	header  string
	row     func(T) string
	actions map[string]action
}

func newCollection[T models.Identified](a *App, route string, backend controllers.Backend[T], screen controllers.Screen[T], header string, row func(T) string) *collection[T] {
	return &collection[T]{
		app:     a,
		name:    screen.Name,
		path:    route,
		list:    controllers.NewList(backend, screen, a),
		header:  header,
		row:     row,
		actions: make(map[string]action),
	}
}

func (c *collection[T]) route() string { return c.path }

func (c *collection[T]) run(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list", "ls", "l":
		return c.show(ctx, args)
	case "delete", "rm":
		return c.delete(ctx, args)
	case "clear":
		return c.clear(ctx)
	case "watch":
		return c.app.watch(ctx, c.name, c.list.Load, func() string {
			return fmt.Sprintf("%d %s", len(c.list.Items()), c.name)
		})
	}
	if act, ok := c.actions[sub]; ok {
		return act(ctx, args)
	}
	printlnFn(fmt.Sprintf("Unknown %s command: %s (type 'help')", c.name, sub))
	return nil
}

// parseQuery reads the list flags; positional words are joined into the search.
func parseQuery(name string, args []string) (controllers.Query, error) {
	var q controllers.Query
	positional, err := flagx.ParseCommand(name, args, func(fs *flag.FlagSet) {
		fs.StringVar(&q.Search, "q", "", "search text")
		fs.StringVar(&q.Date, "date", "", "creation date (YYYY-MM-DD)")
		fs.StringVar(&q.Status, "status", "", "status")
		fs.IntVar(&q.Page, "page", 1, "page number")
	})
	if err != nil {
		return q, err
	}
	if q.Search == "" && len(positional) > 0 {
		q.Search = strings.Join(positional, " ")
	}
	return q, nil
}

func (c *collection[T]) show(ctx context.Context, args []string) error {
	q, err := parseQuery(c.name, args)
	if err != nil {
		printlnFn("Usage:", c.name, "list [-q text] [-date YYYY-MM-DD] [-status s] [-page n]")
		return err
	}
	if err := c.list.Load(ctx); err != nil {
		return c.app.fail(ctx, err, "Failed to load "+c.name)
	}
	c.print(c.list.View(q))
	return nil
}

func (c *collection[T]) print(p controllers.Page[T]) {
	if p.Total == 0 {
		printlnFn("No " + c.name + " found.")
		return
	}
	printlnFn(table(c.header, p.Items, c.row))
	printlnFn(fmt.Sprintf("Page %d/%d (%d %s)", p.Page, p.TotalPages, p.Total, c.name))
}

func (c *collection[T]) delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage:", c.name, "delete <id>")
		return nil
	}
	msg, err := c.list.Delete(ctx, models.ID(args[0]))
	if err != nil {
		return c.app.fail(ctx, err, "Delete failed")
	}
	printlnFn(orText(msg, "Deleted."))
	return nil
}

func (c *collection[T]) clear(ctx context.Context) error {
	msg, err := c.list.DeleteAll(ctx)
	if errors.Is(err, services.ErrUnsupported) {
		printlnFn("Clearing is not available for", c.name)
		return nil
	}
	if err != nil {
		return c.app.fail(ctx, err, "Delete failed")
	}
	printlnFn(orText(msg, "All "+c.name+" deleted."))
	return nil
}

// find returns the record with id, reloading once when it is not cached.
func (c *collection[T]) find(ctx context.Context, id string) (T, bool) {
	if rec, ok := c.list.Get(models.ID(id)); ok {
		return rec, true
	}
	if err := c.list.Load(ctx); err != nil {
		_ = c.app.fail(ctx, err, "Failed to load "+c.name)
		var zero T
		return zero, false
	}
	rec, ok := c.list.Get(models.ID(id))
	if !ok {
		printlnFn("Not found:", id)
	}
	return rec, ok
}

// mutated prints the outcome of a create/update.
func (c *collection[T]) mutated(ctx context.Context, msg string, err error, fallback, ok string) error {
	if err != nil {
		return c.app.fail(ctx, err, fallback)
	}
	printlnFn(orText(msg, ok))
	return nil
}

func table[T any](header string, items []T, row func(T) string) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	for _, it := range items {
		fmt.Fprintln(w, row(it))
	}
	_ = w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}

// Screen dispatches a list screen command after the gate allowed its route.
func (a *App) Screen(ctx context.Context, name string, args []string) error {
	h, ok := a.screens[name]
	if !ok {
		return errUnknownCommand
	}
	if !a.enter(ctx, h.route()) {
		return nil
	}
	return h.run(ctx, args)
}

// adminID is the id of the logged in admin, used by create endpoints.
func (a *App) adminID() models.ID {
	if u := a.store.Current(); u != nil {
		return u.ID
	}
	return ""
}
