// Package gate implements route protection on top of the session store.
//
// The gate is a three-state machine (Unknown, Authenticated, Unauthenticated).
// Decide is the pure routing decision; Guard applies it and is the only place
// that navigates because of session state.
package gate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/dmitrijs2005/shopadmin/internal/logging"
)

type State int

const (
	Unknown State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

type Action int

const (
	Allow Action = iota
	Wait
	Redirect
	NotFound
)

// Decision is the outcome of Decide. Target is set for Redirect.
type Decision struct {
	Action Action
	Target string
}

// Routes.
const (
	RouteHome        = "/"
	RouteCategories  = "/categories"
	RouteProducts    = "/products"
	RouteOrders      = "/orders"
	RouteProfile     = "/profile"
	RouteMessages    = "/messages"
	RouteUsers       = "/users"
	RouteElectronics = "/electronics"
	RouteProjects    = "/project"

	RouteRegister       = "/register"
	RouteLogin          = "/login"
	RouteForgotPassword = "/forgot-password"
	RouteOTP            = "/otp"
	RouteResetPassword  = "/reset-password/"
)

var protectedRoutes = map[string]struct{}{
	RouteHome: {}, RouteCategories: {}, RouteProducts: {}, RouteOrders: {}, RouteProfile: {},
	RouteMessages: {}, RouteUsers: {}, RouteElectronics: {}, RouteProjects: {},
}

var publicRoutes = map[string]struct{}{
	RouteRegister: {}, RouteLogin: {}, RouteForgotPassword: {}, RouteOTP: {},
}

// Normalize strips a query string and a trailing slash.
func Normalize(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	if route == "" {
		return RouteHome
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
	}
	return route
}

func IsProtected(route string) bool {
	_, ok := protectedRoutes[Normalize(route)]
	return ok
}

func IsPublic(route string) bool {
	route = Normalize(route)
	if _, ok := publicRoutes[route]; ok {
		return true
	}
	return strings.HasPrefix(route, RouteResetPassword) && len(route) > len(RouteResetPassword)
}

// ResetToken extracts :token from /reset-password/:token.
func ResetToken(route string) (string, bool) {
	route = Normalize(route)
	if !strings.HasPrefix(route, RouteResetPassword) {
		return "", false
	}
	token := strings.TrimPrefix(route, RouteResetPassword)
	if token == "" || strings.Contains(token, "/") {
		return "", false
	}
	return token, true
}

// Decide maps a gate state and a route to a Decision. It has no side effects.
func Decide(state State, route string) Decision {
	switch {
	case IsPublic(route):
		return Decision{Action: Allow}
	case !IsProtected(route):
		return Decision{Action: NotFound}
	case state == Unknown:
		return Decision{Action: Wait}
	case state == Authenticated:
		return Decision{Action: Allow}
	default:
		return Decision{Action: Redirect, Target: RouteLogin}
	}
}

// SessionStore is the part of session.Store the gate needs.
type SessionStore interface {
	Load(ctx context.Context) (*models.User, error)
	ClearAll(ctx context.Context) error
}

// Navigator performs navigation on behalf of the gate.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

type Gate struct {
	store  SessionStore
	nav    Navigator
	settle time.Duration
	logger logging.Logger

	mu    sync.RWMutex
	state State
}

func New(store SessionStore, nav Navigator, settle time.Duration, logger logging.Logger) *Gate {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Gate{store: store, nav: nav, settle: settle, logger: logger}
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Settle waits the settle delay, loads the session and leaves Unknown. A load
// error counts as no session.
func (g *Gate) Settle(ctx context.Context) (State, error) {
	if g.settle > 0 {
		t := time.NewTimer(g.settle)
		select {
		case <-ctx.Done():
			t.Stop()
			return g.State(), ctx.Err()
		case <-t.C:
		}
	}

	user, err := g.store.Load(ctx)
	if err != nil {
		g.setState(Unauthenticated)
		return Unauthenticated, fmt.Errorf("settle: %w", err)
	}
	if user == nil {
		g.setState(Unauthenticated)
		return Unauthenticated, nil
	}
	g.setState(Authenticated)
	return Authenticated, nil
}

// Check reloads the session without the settle delay, so a record that
// expired while the console was open is noticed on the next guarded command.
func (g *Gate) Check(ctx context.Context) State {
	user, err := g.store.Load(ctx)
	if err != nil || user == nil {
		if err != nil {
			g.logger.Warn(ctx, "session check failed", "error", err)
		}
		g.setState(Unauthenticated)
		return Unauthenticated
	}
	g.setState(Authenticated)
	return Authenticated
}

// Guard decides for route and performs the redirect, if any.
func (g *Gate) Guard(route string) Decision {
	d := Decide(g.State(), route)
	if d.Action == Redirect && g.nav != nil {
		g.nav.Navigate(d.Target)
	}
	return d
}

// Login marks the gate authenticated after a session was saved.
func (g *Gate) Login() {
	g.setState(Authenticated)
}

// Logout clears the session and sends the user to the login screen.
func (g *Gate) Logout(ctx context.Context) error {
	return g.dropSession(ctx)
}

// Unauthorized reacts to an authorization failure from the API.
func (g *Gate) Unauthorized(ctx context.Context) {
	if g.State() == Unauthenticated {
		return
	}
	g.logger.Warn(ctx, "session rejected by server")
	if err := g.dropSession(ctx); err != nil {
		g.logger.Error(ctx, "failed to clear session", "error", err)
	}
}

func (g *Gate) dropSession(ctx context.Context) error {
	g.setState(Unauthenticated)
	err := g.store.ClearAll(ctx)
	if g.nav != nil {
		g.nav.Navigate(RouteLogin)
	}
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (g *Gate) setState(s State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = s
}
