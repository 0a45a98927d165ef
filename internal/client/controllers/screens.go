package controllers

import (
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/models"
)

var (
	CategoryScreen = Screen[models.Category]{
		Name:   "categories",
		Item:   "category",
		Search: func(c models.Category) []string { return []string{c.Name} },
		Date:   func(c models.Category) time.Time { return c.CreatedAt },
	}
	ProductScreen = Screen[models.Product]{
		Name:   "products",
		Search: func(p models.Product) []string { return []string{p.Name, p.Brand} },
		Date:   func(p models.Product) time.Time { return p.CreatedAt },
	}
	OrderScreen = Screen[models.Order]{
		Name: "orders",
		Search: func(o models.Order) []string {
			fields := o.ProductNames()
			if o.User != nil {
				fields = append(fields, o.User.Name, o.User.Email)
			}
			return fields
		},
		Date:   func(o models.Order) time.Time { return o.CreatedAt },
		Status: func(o models.Order) string { return o.Status },
	}
	UserScreen = Screen[models.Customer]{
		Name:   "users",
		Search: func(c models.Customer) []string { return []string{c.Name, c.Email} },
		Date:   func(c models.Customer) time.Time { return c.CreatedAt },
	}
	ElectronicScreen = Screen[models.Electronic]{
		Name:   "electronics",
		Search: func(e models.Electronic) []string { return []string{e.Name, e.Wattage} },
		Date:   func(e models.Electronic) time.Time { return e.CreatedAt },
	}
	ProjectScreen = Screen[models.Project]{
		Name:   "projects",
		Search: func(p models.Project) []string { return []string{p.Name} },
		Date:   func(p models.Project) time.Time { return p.CreatedAt },
	}
	ReviewScreen = Screen[models.Review]{
		Name: "reviews",
		Search: func(r models.Review) []string {
			fields := []string{r.Review}
			if r.User != nil {
				fields = append(fields, r.User.Name, r.User.Email)
			}
			if r.Product != nil {
				fields = append(fields, r.Product.Name)
			}
			return fields
		},
		Date: func(r models.Review) time.Time { return r.CreatedAt },
	}
	ContactScreen = Screen[models.Contact]{
		Name:   "contacts",
		Search: func(c models.Contact) []string { return []string{c.Name, c.Email, c.Message} },
		Date:   func(c models.Contact) time.Time { return c.CreatedAt },
	}
)
