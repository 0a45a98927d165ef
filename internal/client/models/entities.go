// Package models holds the API payload types the console works with. Field
// names follow the server's JSON, including its "_id" identifiers.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Identified is implemented by every collection record.
type Identified interface {
	GetID() ID
}

// User is the authenticated admin as returned by /login and kept in the
// session record.
type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Token string `json:"token"`
}

// Customer is a record of the users screen.
type Customer struct {
	ID        ID        `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (c Customer) GetID() ID { return c.ID }

type Category struct {
	ID            ID        `json:"_id"`
	Name          string    `json:"name"`
	Image         string    `json:"image,omitempty"`
	ImagePublicID string    `json:"imagePublicId,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

func (c Category) GetID() ID { return c.ID }

type Product struct {
	ID           ID        `json:"_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Brand        string    `json:"brand,omitempty"`
	Warranty     string    `json:"warranty,omitempty"`
	Price        float64   `json:"price"`
	Discount     float64   `json:"discount,omitempty"`
	Quantity     int       `json:"quantity"`
	CategoryID   string    `json:"categoryId,omitempty"`
	Images       []string  `json:"images,omitempty"`
	IsTrending   bool      `json:"isTrending"`
	IsNewArrival bool      `json:"isNewArrival"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

func (p Product) GetID() ID { return p.ID }

// ProductRef is the embedded product summary inside orders and reviews.
type ProductRef struct {
	ID     ID       `json:"_id,omitempty"`
	Name   string   `json:"name"`
	Images []string `json:"images,omitempty"`
}

// Person is the embedded user summary inside orders and reviews.
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Order statuses known to the console.
const (
	OrderPending    = "pending"
	OrderSuccessful = "successful"
	OrderCancelled  = "cancelled"
)

type OrderLine struct {
	Product  *ProductRef `json:"product,omitempty"`
	Price    float64     `json:"price"`
	Quantity int         `json:"quantity"`
}

type Order struct {
	ID        ID          `json:"_id"`
	User      *Person     `json:"user,omitempty"`
	Products  []OrderLine `json:"products"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (o Order) GetID() ID { return o.ID }

// Total is the sum of price×quantity over the order lines.
func (o Order) Total() float64 {
	var total float64
	for _, l := range o.Products {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// ProductNames lists the names of the ordered products.
func (o Order) ProductNames() []string {
	names := make([]string, 0, len(o.Products))
	for _, l := range o.Products {
		if l.Product != nil {
			names = append(names, l.Product.Name)
		}
	}
	return names
}

// Electronic is an item of the electronics screen. The form's "category"
// input travels as Wattage.
type Electronic struct {
	ID        ID        `json:"_id"`
	Name      string    `json:"name"`
	Wattage   string    `json:"Wattage"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (e Electronic) GetID() ID { return e.ID }

type Project struct {
	ID        ID        `json:"_id"`
	Name      string    `json:"name"`
	Project   []string  `json:"project,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (p Project) GetID() ID { return p.ID }

type Review struct {
	ID        ID          `json:"_id"`
	User      *Person     `json:"user,omitempty"`
	Product   *ProductRef `json:"product,omitempty"`
	Rating    float64     `json:"rating"`
	Review    string      `json:"review"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (r Review) GetID() ID { return r.ID }

type Contact struct {
	ID        ID        `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c Contact) GetID() ID { return c.ID }

func (p Product) String() string {
	flags := make([]string, 0, 2)
	if p.IsTrending {
		flags = append(flags, "trending")
	}
	if p.IsNewArrival {
		flags = append(flags, "new")
	}
	return fmt.Sprintf("%s\t%s\t%s\t%.2f\t%d\t%s", p.ID, p.Name, p.Brand, p.Price, p.Quantity, strings.Join(flags, ","))
}

func (o Order) String() string {
	customer := ""
	if o.User != nil {
		customer = o.User.Name + " <" + o.User.Email + ">"
	}
	return fmt.Sprintf("%s\t%s\t%s\t%.2f\t%s", o.ID, customer, o.CreatedAt.Format(time.DateOnly), o.Total(), o.Status)
}
