package forms

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/shopadmin/internal/client/api"
	"github.com/dmitrijs2005/shopadmin/internal/client/models"
)

// Product image bounds.
const (
	MinProductImages = 1
	MaxProductImages = 4
)

const (
	msgImagesMin = "At least one image is required."
	msgImagesMax = "Maximum 4 images allowed."
)

// Product is the create/edit product form. Values are kept as typed so
// validation can report non-numeric input.
type Product struct {
	Name        string
	Description string
	Brand       string
	Warranty    string
	Price       string
	Discount    string
	Quantity    string
	CategoryID  string

	// Images are new files to upload.
	Images []Preview
	// Keep and Remove are existing image URLs; used by edit only.
	Keep   []string
	Remove []string
}

// EditProduct prefills the form from an existing product.
func EditProduct(p models.Product) Product {
	return Product{
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Warranty:    p.Warranty,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Discount:    strconv.FormatFloat(p.Discount, 'f', -1, 64),
		Quantity:    strconv.Itoa(p.Quantity),
		CategoryID:  p.CategoryID,
		Keep:        slices.Clone(p.Images),
	}
}

// DropExisting moves an existing image from Keep to Remove.
func (f *Product) DropExisting(url string) error {
	i := slices.Index(f.Keep, url)
	if i < 0 {
		return fmt.Errorf("image %q is not attached", url)
	}
	if len(f.Keep)+len(f.Images)-1 < MinProductImages {
		return &ValidationError{Fields: map[string]string{"images": msgImagesMin}}
	}
	f.Keep = slices.Delete(f.Keep, i, i+1)
	f.Remove = append(f.Remove, url)
	return nil
}

func (f Product) Validate() error {
	c := checker{}
	if blank(f.Name) {
		c.fail("name", "Name is required.")
	}
	if blank(f.Price) {
		c.fail("price", "Price is required.")
	} else if _, err := strconv.ParseFloat(f.Price, 64); err != nil {
		c.fail("price", "Price must be a number.")
	}
	if !blank(f.Discount) {
		if _, err := strconv.ParseFloat(f.Discount, 64); err != nil {
			c.fail("discount", "Discount must be a number.")
		}
	}
	if !blank(f.Quantity) {
		if _, err := strconv.Atoi(f.Quantity); err != nil {
			c.fail("quantity", "Quantity must be a whole number.")
		}
	}
	if blank(f.CategoryID) {
		c.fail("categoryId", "Category is required.")
	}

	switch n := len(f.Keep) + len(f.Images); {
	case n < MinProductImages:
		c.fail("images", msgImagesMin)
	case n > MaxProductImages:
		c.fail("images", msgImagesMax)
	}
	return c.err()
}

// CreatePayload validates the form and builds the create request body.
func (f Product) CreatePayload() (*api.Multipart, error) {
	if len(f.Keep) > 0 || len(f.Remove) > 0 {
		return nil, fmt.Errorf("create form carries existing images")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	form := f.fields()
	for _, pv := range f.Images {
		form.AddFile("images", pv.Path)
	}
	return form, nil
}

// EditPayload validates the form and builds the update request body.
func (f Product) EditPayload() (*api.Multipart, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	form := f.fields()

	keep, err := json.Marshal(nonNil(f.Keep))
	if err != nil {
		return nil, err
	}
	remove, err := json.Marshal(nonNil(f.Remove))
	if err != nil {
		return nil, err
	}
	form.AddField("imagesToKeep", string(keep))
	form.AddField("imagesToRemove", string(remove))
	for _, pv := range f.Images {
		form.AddFile("images", pv.Path)
	}
	return form, nil
}

func (f Product) fields() *api.Multipart {
	form := &api.Multipart{}
	form.AddField("name", f.Name)
	form.AddField("description", f.Description)
	form.AddField("brand", f.Brand)
	form.AddField("warranty", f.Warranty)
	form.AddField("price", f.Price)
	form.AddField("discount", orDefault(f.Discount, "0"))
	form.AddField("quantity", f.Quantity)
	form.AddField("categoryId", f.CategoryID)
	return form
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orDefault(s, def string) string {
	if blank(s) {
		return def
	}
	return s
}
