package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/forms"
	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/dmitrijs2005/shopadmin/internal/client/services"
)

func customerRow(c models.Customer) string {
	return fmt.Sprintf("%s\t%s\t%s\t%s", c.ID, c.Name, c.Email, c.Phone)
}

func electronicRow(e models.Electronic) string {
	return fmt.Sprintf("%s\t%s\t%s", e.ID, e.Name, e.Wattage)
}

func projectRow(p models.Project) string {
	return fmt.Sprintf("%s\t%s\t%s", p.ID, p.Name, strings.Join(p.Project, ","))
}

func reviewRow(r models.Review) string {
	user, product := "", ""
	if r.User != nil {
		user = r.User.Name
	}
	if r.Product != nil {
		product = r.Product.Name
	}
	return fmt.Sprintf("%s\t%s\t%s\t%.1f\t%s\t%s", r.ID, user, product, r.Rating, clip(r.Review, 40), r.CreatedAt.Format(time.DateOnly))
}

func contactRow(c models.Contact) string {
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s", c.ID, c.Name, c.Email, clip(c.Message, 40), c.CreatedAt.Format(time.DateOnly))
}

// clip shortens s to n runes for table cells.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (a *App) electronicActions(c *collection[models.Electronic]) {
	submit := func(ctx context.Context, f forms.Electronic, send func(context.Context, services.Payload) (string, error)) (string, error) {
		body, err := f.Payload()
		if err != nil {
			return "", err
		}
		return send(ctx, services.Payload{JSON: body})
	}

	c.actions["add"] = func(ctx context.Context, _ []string) error {
		var (
			f   forms.Electronic
			err error
		)
		if f.Name, err = a.ask("Name"); err != nil {
			return err
		}
		if f.Category, err = a.ask("Category"); err != nil {
			return err
		}
		msg, err := submit(ctx, f, func(ctx context.Context, p services.Payload) (string, error) {
			return c.list.Create(ctx, a.adminID(), p)
		})
		return c.mutated(ctx, msg, err, "Failed to add item", "Item added.")
	}

	c.actions["edit"] = func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			printlnFn("Usage: electronics edit <id>")
			return nil
		}
		e, ok := c.find(ctx, args[0])
		if !ok {
			return nil
		}
		var (
			f   forms.Electronic
			err error
		)
		if f.Name, err = a.askDefault("Name", e.Name); err != nil {
			return err
		}
		if f.Category, err = a.askDefault("Category", e.Wattage); err != nil {
			return err
		}
		msg, err := submit(ctx, f, func(ctx context.Context, p services.Payload) (string, error) {
			return c.list.Update(ctx, e.ID, p)
		})
		return c.mutated(ctx, msg, err, "Failed to update item", "Item updated.")
	}
}

func (a *App) projectActions(c *collection[models.Project]) {
	c.actions["add"] = func(ctx context.Context, _ []string) error {
		m, err := a.newModal()
		if err != nil {
			return a.fail(ctx, err, "")
		}
		defer a.closeModal(ctx, m)

		var f forms.Project
		if f.Name, err = a.ask("Project name"); err != nil {
			return err
		}
		path, err := a.ask("Image path")
		if err != nil {
			return err
		}
		if f.File, err = a.stageOne(m, path); err != nil {
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
		return c.mutated(ctx, msg, err, "Failed to upload project", "Project uploaded.")
	}

	c.actions["edit"] = func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			printlnFn("Usage: projects edit <id>")
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

		var f forms.Project
		if f.Name, err = a.askDefault("Project name", p.Name); err != nil {
			return err
		}
		path, err := a.ask("New image path (empty keeps the current one)")
		if err != nil {
			return err
		}
		if f.File, err = a.stageOne(m, path); err != nil {
			return a.fail(ctx, err, "Could not read the image")
		}

		var msg string
		err = m.Submit(ctx, nil, func(ctx context.Context) error {
			form, err := f.EditPayload()
			if err != nil {
				return err
			}
			msg, err = c.list.Update(ctx, p.ID, services.Payload{Form: form})
			return err
		})
		return c.mutated(ctx, msg, err, "Failed to update project", "Project updated.")
	}
}

// messages is the combined inbox screen: reviews and contact requests.
type messages struct {
	reviews  *collection[models.Review]
	contacts *collection[models.Contact]
}

func (m *messages) route() string { return m.reviews.route() }

func (m *messages) run(ctx context.Context, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "reviews":
			return m.reviews.run(ctx, args[1:])
		case "contacts":
			return m.contacts.run(ctx, args[1:])
		}
	}
	printlnFn("Reviews:")
	if err := m.reviews.show(ctx, args); err != nil {
		return err
	}
	printlnFn("Contacts:")
	return m.contacts.show(ctx, args)
}
