package cats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sells-group/quotes-cli/internal/store"
)

// Console runs repository operations and prints a human-readable line for
// every outcome. Unavailable-server and permission failures are reported and
// swallowed; any other error is returned.
type Console struct {
	repo Repository
	out  io.Writer
}

// NewConsole creates a Console writing to out.
func NewConsole(repo Repository, out io.Writer) *Console {
	return &Console{repo: repo, out: out}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Report prints recoverable failures and returns nil for them. Any other
// error is returned unchanged.
func (c *Console) Report(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case store.IsPermission(err):
		c.printf("Error: insufficient permissions.")
	case store.IsUnavailable(err):
		c.printf("Error: MongoDB server is unavailable.")
	default:
		return err
	}
	zap.L().Warn("cats operation skipped", zap.String("op", op), zap.Error(err))
	return nil
}

// Drop removes the collection.
func (c *Console) Drop(ctx context.Context) error {
	if err := c.repo.Drop(ctx); err != nil {
		return c.Report("drop", err)
	}
	c.printf("Cats collection dropped.")
	return nil
}

// Add inserts a cat.
func (c *Console) Add(ctx context.Context, name string, age int, features []string) error {
	id, err := c.repo.Insert(ctx, Cat{Name: name, Age: age, Features: features})
	if err != nil {
		return c.Report("add", err)
	}
	c.printf("Added cat with ID: %s", id)
	return nil
}

// List prints every cat.
func (c *Console) List(ctx context.Context) error {
	all, err := c.repo.FindAll(ctx)
	if err != nil {
		return c.Report("list", err)
	}
	if len(all) == 0 {
		c.printf("Empty collection.")
		return nil
	}
	for _, cat := range all {
		c.printf("%s", formatCat(cat))
	}
	return nil
}

// Find prints a single cat by name.
func (c *Console) Find(ctx context.Context, name string) error {
	cat, err := c.repo.FindByName(ctx, name)
	if err != nil {
		return c.Report("find", err)
	}
	if cat == nil {
		c.printf("Cat %s does not exist.", name)
		return nil
	}
	c.printf("%s", formatCat(*cat))
	return nil
}

// SetAge updates a cat's age.
func (c *Console) SetAge(ctx context.Context, name string, age int) error {
	res, err := c.repo.UpdateAge(ctx, name, age)
	if err != nil {
		return c.Report("set-age", err)
	}
	switch {
	case res.Matched == 1 && res.Modified == 1:
		c.printf("Cat %s updated.", name)
	case res.Matched == 1:
		c.printf("Cat %s already has age %d.", name, age)
	default:
		c.printf("Cat %s was not updated.", name)
	}
	return nil
}

// AddFeature adds a feature unless the cat already has it.
func (c *Console) AddFeature(ctx context.Context, name, feature string) error {
	res, err := c.repo.AddFeature(ctx, name, feature)
	if err != nil {
		return c.Report("add-feature", err)
	}
	switch {
	case res.Matched == 1 && res.Modified == 1:
		c.printf("Cat %s updated.", name)
	case res.Matched == 1:
		c.printf("Cat %s already has feature %q.", name, feature)
	default:
		c.printf("Cat %s was not updated.", name)
	}
	return nil
}

// Delete removes a cat by name.
func (c *Console) Delete(ctx context.Context, name string) error {
	deleted, err := c.repo.DeleteByName(ctx, name)
	if err != nil {
		return c.Report("delete", err)
	}
	if deleted {
		c.printf("Cat %s deleted.", name)
	} else {
		c.printf("Cat %s does not exist.", name)
	}
	return nil
}

// DeleteAll removes every cat.
func (c *Console) DeleteAll(ctx context.Context) error {
	n, err := c.repo.DeleteAll(ctx)
	if err != nil {
		return c.Report("delete-all", err)
	}
	c.printf("Deleted cats: %d", n)
	return nil
}

// Demo runs the scripted walkthrough of every operation.
func (c *Console) Demo(ctx context.Context) error {
	steps := []struct {
		title string
		run   func() error
	}{
		{"", func() error { return c.Drop(ctx) }},
		{"Creating cats.", func() error {
			for _, cat := range []Cat{
				{"barsik", 3, []string{"wears slippers", "lets you pet him", "ginger"}},
				{"Liza", 4, []string{"uses the litter box", "lets you pet her", "white"}},
				{"Lama", 5, []string{"uses the litter box", "does not let you pet her", "grey"}},
			} {
				if err := c.Add(ctx, cat.Name, cat.Age, cat.Features); err != nil {
					return err
				}
			}
			return nil
		}},
		{"Finding cats.", func() error { return c.List(ctx) }},
		{"Find cat 'barsik':", func() error { return c.Find(ctx, "barsik") }},
		{"Updating barsik's age.", func() error {
			if err := c.SetAge(ctx, "barsik", 5); err != nil {
				return err
			}
			return c.Find(ctx, "barsik")
		}},
		{"Adding a feature to barsik.", func() error {
			if err := c.AddFeature(ctx, "barsik", "loves fish"); err != nil {
				return err
			}
			return c.Find(ctx, "barsik")
		}},
		{"Deleting Liza.", func() error {
			if err := c.Delete(ctx, "Liza"); err != nil {
				return err
			}
			return c.Find(ctx, "Liza")
		}},
		{"Deleting all cats.", func() error {
			if err := c.DeleteAll(ctx); err != nil {
				return err
			}
			return c.List(ctx)
		}},
	}

	for _, s := range steps {
		if s.title != "" {
			c.printf("\n%s", s.title)
		}
		if err := s.run(); err != nil {
			return err
		}
	}
	return nil
}

func formatCat(cat Cat) string {
	return fmt.Sprintf("{name: %s, age: %d, features: [%s]}", cat.Name, cat.Age, strings.Join(cat.Features, ", "))
}

func formatID(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
