package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/shopadmin/internal/client/api"
	"github.com/dmitrijs2005/shopadmin/internal/client/models"
)

// ErrUnsupported is returned for an operation the screen has no endpoint for.
var ErrUnsupported = errors.New("operation not supported")

// Endpoints configures one collection. Paths may contain the ":id" and
// ":adminId" placeholders. An empty path disables the operation.
type Endpoints struct {
	Name      string
	List      string
	Create    string
	Update    string
	Delete    string
	DeleteAll string
	Patch     string
	// UpdateMethod defaults to PUT.
	UpdateMethod string
	Auth         bool
}

var (
	CategoryEndpoints = Endpoints{
		Name:   "categories",
		List:   "/get-category",
		Create: "/create-category/:adminId",
		Update: "/update-category/:id",
		Delete: "/delete-category/:id",
	}
	ProductEndpoints = Endpoints{
		Name:   "products",
		List:   "/get-all-product",
		Create: "/create-product/:adminId",
		Update: "/edit-product/:id",
		Delete: "/delete-product/:id",
		Patch:  "/patch-product/:id",
	}
	OrderEndpoints = Endpoints{
		Name:   "orders",
		List:   "/get-orders",
		Delete: "/delete-order/:id",
		Patch:  "/status/:id",
		Auth:   true,
	}
	UserEndpoints = Endpoints{
		Name:   "users",
		List:   "/get-all-user",
		Delete: "/delete-user/:id",
		Auth:   true,
	}
	ElectronicEndpoints = Endpoints{
		Name:   "electronics",
		List:   "/electronics/get-all-electronics",
		Create: "/electronics/create-electronics",
		Update: "/electronics/update-electronic/:id",
		Delete: "/electronics/delete-electronics/:id",
		Auth:   true,
	}
	ProjectEndpoints = Endpoints{
		Name:   "projects",
		List:   "/get-project",
		Create: "/upload-project",
		Update: "/update-project/:id",
		Delete: "/delete-project/:id",
		Auth:   true,
	}
	ReviewEndpoints = Endpoints{
		Name:      "reviews",
		List:      "/get-all-review",
		Delete:    "/delete-review/:id",
		DeleteAll: "/delete-all-review",
		Auth:      true,
	}
	ContactEndpoints = Endpoints{
		Name:      "contacts",
		List:      "/get-all-contact",
		Delete:    "/delete-contact/:id",
		DeleteAll: "/delete-all-contact",
		Auth:      true,
	}
)

// Payload is a mutation body: JSON or, when Form is set, multipart.
type Payload struct {
	JSON any
	Form *api.Multipart
}

// Mutation is what the server returned for a write. At most one of List and
// Record is set; both nil means the caller has to refetch.
type Mutation[T models.Identified] struct {
	List   []T
	Record *T
	Msg    string
}

// Resource is the generic collection service behind every list screen.
type Resource[T models.Identified] struct {
	api Doer
	ep  Endpoints
}

func NewResource[T models.Identified](api Doer, ep Endpoints) *Resource[T] {
	return &Resource[T]{api: api, ep: ep}
}

func (r *Resource[T]) Endpoints() Endpoints { return r.ep }

// List fetches the whole collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	if r.ep.List == "" {
		return nil, ErrUnsupported
	}
	var items []T
	if _, err := r.api.Do(ctx, api.Request{Method: http.MethodGet, Path: r.ep.List, Auth: r.ep.Auth}, &items); err != nil {
		return nil, fmt.Errorf("%s list error: %w", r.ep.Name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (r *Resource[T]) Create(ctx context.Context, adminID models.ID, p Payload) (Mutation[T], error) {
	if r.ep.Create == "" {
		return Mutation[T]{}, ErrUnsupported
	}
	path := expand(r.ep.Create, "", adminID.String())
	return r.mutate(ctx, "create", http.MethodPost, path, p)
}

func (r *Resource[T]) Update(ctx context.Context, id models.ID, p Payload) (Mutation[T], error) {
	if r.ep.Update == "" {
		return Mutation[T]{}, ErrUnsupported
	}
	method := r.ep.UpdateMethod
	if method == "" {
		method = http.MethodPut
	}
	return r.mutate(ctx, "update", method, expand(r.ep.Update, id.String(), ""), p)
}

// Patch changes individual fields, for example a product flag or an order status.
func (r *Resource[T]) Patch(ctx context.Context, id models.ID, fields map[string]any) (Mutation[T], error) {
	if r.ep.Patch == "" {
		return Mutation[T]{}, ErrUnsupported
	}
	return r.mutate(ctx, "patch", http.MethodPatch, expand(r.ep.Patch, id.String(), ""), Payload{JSON: fields})
}

func (r *Resource[T]) Delete(ctx context.Context, id models.ID) (Mutation[T], error) {
	if r.ep.Delete == "" {
		return Mutation[T]{}, ErrUnsupported
	}
	return r.mutate(ctx, "delete", http.MethodDelete, expand(r.ep.Delete, id.String(), ""), Payload{})
}

func (r *Resource[T]) DeleteAll(ctx context.Context) (Mutation[T], error) {
	if r.ep.DeleteAll == "" {
		return Mutation[T]{}, ErrUnsupported
	}
	return r.mutate(ctx, "delete all", http.MethodDelete, r.ep.DeleteAll, Payload{})
}

func (r *Resource[T]) mutate(ctx context.Context, op, method, path string, p Payload) (Mutation[T], error) {
	req := api.Request{Method: method, Path: path, Body: p.JSON, Form: p.Form, Auth: r.ep.Auth}
	env, err := r.api.Do(ctx, req, nil)
	if err != nil {
		return Mutation[T]{}, fmt.Errorf("%s %s error: %w", r.ep.Name, op, err)
	}

	m := Mutation[T]{Msg: env.Msg}
	switch {
	case !env.HasData():
	case env.DataIsList():
		var items []T
		if err := env.Decode(&items); err != nil {
			return m, fmt.Errorf("%s %s error: %w", r.ep.Name, op, err)
		}
		if items == nil {
			items = []T{}
		}
		m.List = items
	default:
		var rec T
		if err := env.Decode(&rec); err != nil {
			return m, fmt.Errorf("%s %s error: %w", r.ep.Name, op, err)
		}
		// Some endpoints answer with an acknowledgement object rather than the record.
		if rec.GetID() != "" {
			m.Record = &rec
		}
	}
	return m, nil
}

func expand(path, id, adminID string) string {
	r := strings.NewReplacer(":adminId", api.PathEscape(adminID), ":id", api.PathEscape(id))
	return r.Replace(path)
}
