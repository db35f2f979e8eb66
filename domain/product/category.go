package product

import (
	"regexp"
	"strings"
	"time"

	"marketplace/domain/shared"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Category groups products in the catalog. Slugs are unique.
type Category struct {
	id        string
	name      string
	slug      string
	createdAt time.Time
}

func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("category", "name", "name is required")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, shared.NewValidationError("category", "name", "name must contain letters or digits")
	}
	return &Category{id: shared.NewID(), name: name, slug: slug, createdAt: time.Now()}, nil
}

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func RebuildCategory(id, name, slug string, createdAt time.Time) *Category {
	return &Category{id: id, name: name, slug: slug, createdAt: createdAt}
}

func (c *Category) ID() string           { return c.id }
func (c *Category) Name() string         { return c.name }
func (c *Category) Slug() string         { return c.slug }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
