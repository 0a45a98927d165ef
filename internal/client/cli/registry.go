package cli

import (
	"github.com/dmitrijs2005/shopadmin/internal/client/controllers"
	"github.com/dmitrijs2005/shopadmin/internal/client/gate"
	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/dmitrijs2005/shopadmin/internal/client/services"
)

// buildScreens wires one collection per list screen; each is the same
// generic controller configured with its endpoints and columns.
func (a *App) buildScreens(api services.Doer) map[string]screenHandler {
	categories := newCollection(a, gate.RouteCategories,
		services.NewResource[models.Category](api, services.CategoryEndpoints),
		controllers.CategoryScreen, "ID\tNAME\tIMAGE\tCREATED", categoryRow)
	a.categoryActions(categories)

	products := newCollection(a, gate.RouteProducts,
		services.NewResource[models.Product](api, services.ProductEndpoints),
		controllers.ProductScreen, "ID\tNAME\tBRAND\tPRICE\tQTY\tFLAGS", productRow)
	a.productActions(products)

	orders := newCollection(a, gate.RouteOrders,
		services.NewResource[models.Order](api, services.OrderEndpoints),
		controllers.OrderScreen, "ID\tCUSTOMER\tDATE\tTOTAL\tSTATUS", orderRow)
	a.orderActions(orders)

	users := newCollection(a, gate.RouteUsers,
		services.NewResource[models.Customer](api, services.UserEndpoints),
		controllers.UserScreen, "ID\tNAME\tEMAIL\tPHONE", customerRow)

	electronics := newCollection(a, gate.RouteElectronics,
		services.NewResource[models.Electronic](api, services.ElectronicEndpoints),
		controllers.ElectronicScreen, "ID\tNAME\tCATEGORY", electronicRow)
	a.electronicActions(electronics)

	projects := newCollection(a, gate.RouteProjects,
		services.NewResource[models.Project](api, services.ProjectEndpoints),
		controllers.ProjectScreen, "ID\tNAME\tFILES", projectRow)
	a.projectActions(projects)

	reviews := newCollection(a, gate.RouteMessages,
		services.NewResource[models.Review](api, services.ReviewEndpoints),
		controllers.ReviewScreen, "ID\tUSER\tPRODUCT\tRATING\tREVIEW\tDATE", reviewRow)

	contacts := newCollection(a, gate.RouteMessages,
		services.NewResource[models.Contact](api, services.ContactEndpoints),
		controllers.ContactScreen, "ID\tNAME\tEMAIL\tMESSAGE\tDATE", contactRow)

	a.orders = orders.list
	a.products = products.list

	return map[string]screenHandler{
		"categories":  categories,
		"products":    products,
		"orders":      orders,
		"users":       users,
		"electronics": electronics,
		"projects":    projects,
		"reviews":     reviews,
		"contacts":    contacts,
		"messages":    &messages{reviews: reviews, contacts: contacts},
	}
}
