package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/api"
	"github.com/dmitrijs2005/shopadmin/internal/client/config"
	"github.com/dmitrijs2005/shopadmin/internal/client/controllers"
	"github.com/dmitrijs2005/shopadmin/internal/client/gate"
	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/dmitrijs2005/shopadmin/internal/client/services"
	"github.com/dmitrijs2005/shopadmin/internal/client/session"
	"github.com/dmitrijs2005/shopadmin/internal/client/storage"
	"github.com/dmitrijs2005/shopadmin/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pinger reports API reachability.
type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	store   *session.Store
	gate    *gate.Gate
	api     *api.Client
	pinger  pinger
	auth    services.AuthService
	profile services.ProfileService
	screens map[string]screenHandler
	reader  *bufio.Reader
	out     io.Writer

	// dashboard sources
	orders   *controllers.List[models.Order]
	products *controllers.List[models.Product]

	mu        sync.RWMutex
	route     string
	Mode      Mode
	otpSentAt time.Time
}

// NewApp opens the local database and wires the console.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	a, err := newApp(c, logger, db, bufio.NewReader(os.Stdin), os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, reader *bufio.Reader, out io.Writer) (*App, error) {
	a := &App{config: c, logger: logger, db: db, reader: reader, out: out}

	a.store = session.NewStore(db)
	a.gate = gate.New(a.store, gate.NavigatorFunc(a.navigate), c.SettleDelay, logger)

	client, err := api.New(c.BaseURL,
		api.WithTimeout(c.RequestTimeout),
		api.WithTokenSource(api.TokenFunc(a.store.Token)),
		api.WithRateLimit(c.RateLimit, c.RateBurst),
		api.WithUnauthorizedHook(a.gate.Unauthorized),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	a.api = client
	a.pinger = client

	a.auth = services.NewAuthService(client, a.store, c.SessionTTL)
	a.profile = services.NewProfileService(client, a.store)
	a.screens = a.buildScreens(client)
	return a, nil
}

// Close releases the local database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Run settles the session, starts the connectivity watcher and blocks in the
// REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	printlnFn("Welcome to the shop admin console (type 'help' for commands)")

	state, err := a.gate.Settle(ctx)
	if err != nil {
		a.logger.Warn(ctx, "session settle failed", "error", err)
	}
	if state == gate.Authenticated {
		a.navigate(gate.RouteHome)
	} else {
		a.navigate(gate.RouteLogin)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.gate.State() == gate.Authenticated
}

// navigate records the current route; the gate calls it on redirects.
func (a *App) navigate(route string) {
	a.mu.Lock()
	changed := a.route != route
	a.route = route
	a.mu.Unlock()
	if changed {
		printlnFn("->", route)
	}
}

func (a *App) currentRoute() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.route
}

// enter guards route and navigates to it when allowed.
func (a *App) enter(ctx context.Context, route string) bool {
	if gate.IsProtected(route) && a.gate.State() != gate.Unknown {
		a.gate.Check(ctx)
	}
	switch d := a.gate.Guard(route); d.Action {
	case gate.Allow:
		a.navigate(route)
		return true
	case gate.Wait:
		printlnFn("Loading...")
	case gate.NotFound:
		printlnFn("Page not found:", route)
	case gate.Redirect:
		printlnFn("Please log in first.")
	}
	return false
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	prev := a.Mode
	a.Mode = mode
	a.mu.Unlock()

	if prev == mode {
		return
	}
	a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	// The first check only establishes the baseline.
	if prev == "" {
		return
	}
	switch mode {
	case ModeOnline:
		printlnFn("Back online!")
	case ModeOffline:
		printlnFn("You are offline.")
	}
}

func (a *App) mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.Mode
}

// StartOnlineStatusWatcher pings the API every interval and reports
// transitions between online and offline until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.pinger.Ping(pctx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// Confirm asks a yes/no question; anything but y/yes declines.
func (a *App) Confirm(_ context.Context, prompt string) (bool, error) {
	answer, err := getSimpleText(a.reader, prompt+" [y/N]", a.out)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (a *App) getStatus() string {
	parts := make([]string, 0, 3)
	if u := a.store.Current(); u != nil && a.isLoggedIn() {
		parts = append(parts, u.Email)
	}
	if m := a.mode(); m != "" {
		parts = append(parts, string(m))
	}
	if r := a.currentRoute(); r != "" {
		parts = append(parts, r)
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}
