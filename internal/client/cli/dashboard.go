package cli

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/shopadmin/internal/client/controllers"
	"github.com/dmitrijs2005/shopadmin/internal/client/gate"
	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/dmitrijs2005/shopadmin/internal/client/services"
	"github.com/dmitrijs2005/shopadmin/internal/client/session"
)

// Dashboard prints the store overview: totals, stock alerts and the most
// recent orders.
func (a *App) Dashboard(ctx context.Context) error {
	if !a.enter(ctx, gate.RouteHome) {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.products.Load(gctx) })
	g.Go(func() error { return a.orders.Load(gctx) })
	if err := g.Wait(); err != nil {
		return a.fail(ctx, err, "Failed to load the dashboard")
	}

	products, orders := a.products.Items(), a.orders.Items()

	var revenue float64
	pending := 0
	for _, o := range orders {
		switch o.Status {
		case models.OrderSuccessful:
			revenue += o.Total()
		case models.OrderPending:
			pending++
		}
	}
	printlnFn(fmt.Sprintf("Products: %d  Orders: %d  Pending: %d  Revenue: %.2f", len(products), len(orders), pending, revenue))

	if alerts := controllers.LowStock(products, a.config.LowStockThreshold); len(alerts) > 0 {
		printlnFn("Stock alerts:")
		printlnFn(table("ID\tNAME\tQTY\tLEVEL", alerts, func(s controllers.StockAlert) string {
			return fmt.Sprintf("%s\t%s\t%d\t%s", s.Product.ID, s.Product.Name, s.Product.Quantity, s.Severity)
		}))
	}

	if recent := controllers.RecentOrders(orders, controllers.RecentOrdersLimit); len(recent) > 0 {
		printlnFn("Recent orders:")
		printlnFn(table("ID\tCUSTOMER\tDATE\tTOTAL\tSTATUS", recent, orderRow))
	}
	return nil
}

// Profile shows the admin's profile; "profile edit" changes name and phone.
func (a *App) Profile(ctx context.Context, args []string) error {
	if !a.enter(ctx, gate.RouteProfile) {
		return nil
	}
	current := a.store.Current()
	if current == nil {
		return nil
	}

	if len(args) > 0 && args[0] == "edit" {
		var (
			in  services.ProfileUpdate
			err error
		)
		if in.Name, err = a.askDefault("Name", current.Name); err != nil {
			return err
		}
		if in.Phone, err = a.askDefault("Phone", current.Phone); err != nil {
			return err
		}
		user, msg, err := a.profile.Update(ctx, current.ID, in)
		if err != nil {
			return a.fail(ctx, err, "Failed to update profile")
		}
		printlnFn(orText(msg, "Profile updated."))
		printProfile(user)
		return nil
	}

	user, err := a.profile.Get(ctx, current.ID)
	if err != nil {
		return a.fail(ctx, err, "Failed to load profile")
	}
	printProfile(user)
	return nil
}

func printProfile(u *models.User) {
	printlnFn(table("NAME\tEMAIL\tPHONE", []models.User{*u}, func(u models.User) string {
		return fmt.Sprintf("%s\t%s\t%s", u.Name, u.Email, u.Phone)
	}))
}

// Status prints connectivity and session details.
func (a *App) Status(ctx context.Context) error {
	mode := a.mode()
	if mode == "" {
		mode = "unknown"
	}
	printlnFn("Server:", a.config.BaseURL, "("+string(mode)+")")
	printlnFn("Route:", orText(a.currentRoute(), "-"))

	u := a.store.Current()
	if u == nil || !a.isLoggedIn() {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn("User:", u.Name, "<"+u.Email+">")
	if exp := a.store.ExpiresAt(); !exp.IsZero() {
		printlnFn("Session expires:", exp.Local().Format(time.DateTime))
	}
	if exp, ok := session.TokenExpiry(u.Token); ok {
		printlnFn("Token expires:", exp.Local().Format(time.DateTime))
	}
	return nil
}
