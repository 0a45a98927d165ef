package controllers

import (
	"slices"

	"github.com/dmitrijs2005/shopadmin/internal/client/models"
)

// DefaultLowStockThreshold is the quantity at or below which a product is
// reported on the dashboard.
const DefaultLowStockThreshold = 5

// RecentOrdersLimit is the size of the dashboard's recent orders table.
const RecentOrdersLimit = 5

type Severity string

const (
	SeverityOut      Severity = "out"
	SeverityCritical Severity = "critical"
	SeverityLow      Severity = "low"
)

type StockAlert struct {
	Product  models.Product
	Severity Severity
}

func severity(qty int) Severity {
	switch {
	case qty <= 0:
		return SeverityOut
	case qty <= 2:
		return SeverityCritical
	default:
		return SeverityLow
	}
}

// LowStock lists products with quantity <= threshold, emptiest first.
func LowStock(products []models.Product, threshold int) []StockAlert {
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}
	alerts := make([]StockAlert, 0)
	for _, p := range products {
		if p.Quantity <= threshold {
			alerts = append(alerts, StockAlert{Product: p, Severity: severity(p.Quantity)})
		}
	}
	slices.SortStableFunc(alerts, func(a, b StockAlert) int {
		return a.Product.Quantity - b.Product.Quantity
	})
	return alerts
}

// RecentOrders returns the n newest orders by creation time.
func RecentOrders(orders []models.Order, n int) []models.Order {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b models.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
