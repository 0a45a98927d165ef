package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/forms"
	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/dmitrijs2005/shopadmin/internal/client/services"
)

func categoryRow(c models.Category) string {
	return fmt.Sprintf("%s\t%s\t%s\t%s", c.ID, c.Name, c.Image, c.CreatedAt.Format(time.DateOnly))
}

func (a *App) categoryActions(c *collection[models.Category]) {
	c.actions["add"] = func(ctx context.Context, _ []string) error {
		m, err := a.newModal()
		if err != nil {
			return a.fail(ctx, err, "")
		}
		defer a.closeModal(ctx, m)

		var f forms.Category
		if f.Name, err = a.ask("Category name"); err != nil {
			return err
		}
		path, err := a.ask("Image path")
		if err != nil {
			return err
		}
		if f.Image, err = a.stageOne(m, path); err != nil {
			return a.fail(ctx, err, "Could not read the image")
		}

		var msg string
		err = m.Submit(ctx, nil, func(ctx context.Context) error {
			form, err := f.CreatePayload()
			if err != nil {
				return err
			}
			msg, err = c.list.Create(ctx, a.adminID(), services.Payload{Form: form})
			return err
		})
		return c.mutated(ctx, msg, err, "Failed to create category", "Category created.")
	}

	c.actions["edit"] = func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			printlnFn("Usage: categories edit <id>")
			return nil
		}
		cat, ok := c.find(ctx, args[0])
		if !ok {
			return nil
		}
		m, err := a.newModal()
		if err != nil {
			return a.fail(ctx, err, "")
		}
		defer a.closeModal(ctx, m)

		f := forms.Category{ImagePublicID: cat.ImagePublicID}
		if f.Name, err = a.askDefault("Category name", cat.Name); err != nil {
			return err
		}
		path, err := a.ask("New image path (empty keeps the current one)")
		if err != nil {
			return err
		}
		if f.Image, err = a.stageOne(m, path); err != nil {
			return a.fail(ctx, err, "Could not read the image")
		}

		var msg string
		err = m.Submit(ctx, nil, func(ctx context.Context) error {
			form, err := f.EditPayload()
			if err != nil {
				return err
			}
			msg, err = c.list.Update(ctx, cat.ID, services.Payload{Form: form})
			return err
		})
		return c.mutated(ctx, msg, err, "Failed to update category", "Category updated.")
	}
}

func productRow(p models.Product) string { return p.String() }

// productFields prompts for the scalar product fields, prefilled from f.
func (a *App) productFields(f *forms.Product) error {
	var err error
	if f.Name, err = a.askDefault("Name", f.Name); err != nil {
		return err
	}
	desc, err := GetMultiline(a.reader, "Description (end with an empty line, empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	if desc != "" {
		f.Description = desc
	}
	if f.Brand, err = a.askDefault("Brand", f.Brand); err != nil {
		return err
	}
	if f.Warranty, err = a.askDefault("Warranty", f.Warranty); err != nil {
		return err
	}
	if f.Price, err = a.askDefault("Price", f.Price); err != nil {
		return err
	}
	if f.Discount, err = a.askDefault("Discount", f.Discount); err != nil {
		return err
	}
	if f.Quantity, err = a.askDefault("Quantity", f.Quantity); err != nil {
		return err
	}
	if f.CategoryID, err = a.askDefault("Category id", f.CategoryID); err != nil {
		return err
	}
	return nil
}

func (a *App) productActions(c *collection[models.Product]) {
	c.actions["add"] = func(ctx context.Context, _ []string) error {
		m, err := a.newModal()
		if err != nil {
			return a.fail(ctx, err, "")
		}
		defer a.closeModal(ctx, m)

		var f forms.Product
		if err := a.productFields(&f); err != nil {
			return err
		}
		paths, err := a.ask(fmt.Sprintf("Image paths (comma separated, %d-%d)", forms.MinProductImages, forms.MaxProductImages))
		if err != nil {
			return err
		}
		if f.Images, err = a.stage(m, splitList(paths)); err != nil {
			return a.fail(ctx, err, "Could not read the images")
		}

		var msg string
		err = m.Submit(ctx, f.Validate, func(ctx context.Context) error {
			form, err := f.CreatePayload()
			if err != nil {
				return err
			}
			msg, err = c.list.Create(ctx, a.adminID(), services.Payload{Form: form})
			return err
		})
		return c.mutated(ctx, msg, err, "Failed to create product", "Product created.")
	}

	c.actions["edit"] = func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			printlnFn("Usage: products edit <id>")
			return nil
		}
		p, ok := c.find(ctx, args[0])
		if !ok {
			return nil
		}
		m, err := a.newModal()
		if err != nil {
			return a.fail(ctx, err, "")
		}
		defer a.closeModal(ctx, m)

		f := forms.EditProduct(p)
		if err := a.productFields(&f); err != nil {
			return err
		}

		for i, url := range f.Keep {
			printlnFn(fmt.Sprintf("  [%d] %s", i+1, url))
		}
		drop, err := a.ask("Images to remove (numbers, comma separated)")
		if err != nil {
			return err
		}
		var urls []string
		for _, s := range splitList(drop) {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > len(f.Keep) {
				printlnFn("No such image:", s)
				return nil
			}
			urls = append(urls, f.Keep[n-1])
		}

		paths, err := a.ask("New image paths (comma separated)")
		if err != nil {
			return err
		}
		if f.Images, err = a.stage(m, splitList(paths)); err != nil {
			return a.fail(ctx, err, "Could not read the images")
		}
		for _, url := range urls {
			if err := f.DropExisting(url); err != nil {
				return a.fail(ctx, err, "")
			}
		}

		var msg string
		err = m.Submit(ctx, f.Validate, func(ctx context.Context) error {
			form, err := f.EditPayload()
			if err != nil {
				return err
			}
			msg, err = c.list.Update(ctx, p.ID, services.Payload{Form: form})
			return err
		})
		return c.mutated(ctx, msg, err, "Failed to update product", "Product updated.")
	}

	c.actions["trending"] = a.productToggle(c, "trending", "isTrending", func(p models.Product) bool { return p.IsTrending })
	c.actions["new"] = a.productToggle(c, "new", "isNewArrival", func(p models.Product) bool { return p.IsNewArrival })
}

// productToggle flips a boolean product flag with a partial update.
func (a *App) productToggle(c *collection[models.Product], cmd, field string, get func(models.Product) bool) action {
	return func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			printlnFn("Usage: products", cmd, "<id>")
			return nil
		}
		p, ok := c.find(ctx, args[0])
		if !ok {
			return nil
		}
		msg, err := c.list.Patch(ctx, p.ID, map[string]any{field: !get(p)})
		return c.mutated(ctx, msg, err, "Failed to update product", "Product updated.")
	}
}
