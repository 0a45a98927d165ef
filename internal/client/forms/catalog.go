package forms

import (
	"github.com/dmitrijs2005/shopadmin/internal/client/api"
)

// Category is the create/edit category form.
type Category struct {
	Name string
	// Image is required on create and replaces the current one on edit.
	Image *Preview
	// ImagePublicID identifies the stored image being replaced.
	ImagePublicID string
}

func (f Category) validate(create bool) error {
	c := checker{}
	if blank(f.Name) {
		c.fail("name", "Category name is required.")
	}
	if create && f.Image == nil {
		c.fail("image", "Category image is required.")
	}
	return c.err()
}

func (f Category) CreatePayload() (*api.Multipart, error) {
	if err := f.validate(true); err != nil {
		return nil, err
	}
	form := &api.Multipart{}
	form.AddField("name", f.Name)
	form.AddFile("image", f.Image.Path)
	return form, nil
}

func (f Category) EditPayload() (*api.Multipart, error) {
	if err := f.validate(false); err != nil {
		return nil, err
	}
	form := &api.Multipart{}
	form.AddField("name", f.Name)
	if f.Image != nil {
		form.AddFile("image", f.Image.Path)
		if f.ImagePublicID != "" {
			form.AddField("imagePublicId", f.ImagePublicID)
		}
	}
	return form, nil
}

// Project is the upload/edit project form.
type Project struct {
	Name string
	File *Preview
}

func (f Project) CreatePayload() (*api.Multipart, error) {
	c := checker{}
	if blank(f.Name) || f.File == nil {
		c.fail(FieldForm, "Please provide a project name and an image.")
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	form := &api.Multipart{}
	form.AddField("name", f.Name)
	form.AddFile("project", f.File.Path)
	return form, nil
}

func (f Project) EditPayload() (*api.Multipart, error) {
	c := checker{}
	if blank(f.Name) {
		c.fail("name", "Project name is required.")
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	form := &api.Multipart{}
	form.AddField("name", f.Name)
	if f.File != nil {
		form.AddFile("project", f.File.Path)
	}
	return form, nil
}

// Electronic is the electronics form. Its category travels as "Wattage".
type Electronic struct {
	Name     string
	Category string
}

type electronicBody struct {
	Name    string `json:"name"`
	Wattage string `json:"Wattage"`
}

func (f Electronic) Payload() (any, error) {
	c := checker{}
	if blank(f.Name) || blank(f.Category) {
		c.fail(FieldForm, "Name and category are required.")
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return electronicBody{Name: f.Name, Wattage: f.Category}, nil
}
