package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/shopadmin/internal/client/export"
	"github.com/dmitrijs2005/shopadmin/internal/client/models"
)

const msgNotExportable = "Only successful orders can be exported"

var orderStatuses = []string{models.OrderPending, models.OrderSuccessful, models.OrderCancelled}

func orderRow(o models.Order) string { return o.String() }

func (a *App) orderActions(c *collection[models.Order]) {
	c.actions["status"] = func(ctx context.Context, args []string) error {
		if len(args) < 2 {
			printlnFn("Usage: orders status <id> <" + strings.Join(orderStatuses, "|") + ">")
			return nil
		}
		status := strings.ToLower(args[1])
		if !slices.Contains(orderStatuses, status) {
			printlnFn("Unknown status:", args[1])
			return nil
		}
		msg, err := c.list.Patch(ctx, models.ID(args[0]), map[string]any{"status": status})
		return c.mutated(ctx, msg, err, "Failed to update order status", "Order status updated.")
	}

	c.actions["export"] = func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			printlnFn("Usage: orders export <id>")
			return nil
		}
		o, ok := c.find(ctx, args[0])
		if !ok {
			return nil
		}
		path, err := export.Order(a.config.ExportDir, o)
		if errors.Is(err, export.ErrNotExportable) {
			printlnFn(msgNotExportable)
			return nil
		}
		if err != nil {
			return a.fail(ctx, err, "Export failed")
		}
		printlnFn("Exported to", path)
		return nil
	}

	c.actions["show"] = func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			printlnFn("Usage: orders show <id>")
			return nil
		}
		o, ok := c.find(ctx, args[0])
		if !ok {
			return nil
		}
		printlnFn(table("ID\tCUSTOMER\tDATE\tTOTAL\tSTATUS", []models.Order{o}, orderRow))
		printlnFn(table("PRODUCT\tPRICE\tQTY", o.Products, func(l models.OrderLine) string {
			name := ""
			if l.Product != nil {
				name = l.Product.Name
			}
			return fmt.Sprintf("%s\t%.2f\t%d", name, l.Price, l.Quantity)
		}))
		return nil
	}
}
