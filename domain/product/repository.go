package product

import "context"

// Filter narrows a catalog listing. Empty fields match everything.
type Filter struct {
	CategoryID string
	ArtisanID  string
}

// Repository Product repository interface
type Repository interface {
	// Save inserts a new product or compare-and-swaps an existing one on its version
	Save(ctx context.Context, product *Product) error

	FindByID(ctx context.Context, id string) (*Product, error)

	// List returns matching products, newest first
	List(ctx context.Context, filter Filter) ([]*Product, error)
}

// CategoryRepository Category repository interface
type CategoryRepository interface {
	// Save rejects a duplicate slug with ErrCategoryExists
	Save(ctx context.Context, category *Category) error

	FindByID(ctx context.Context, id string) (*Category, error)

	// List returns all categories ordered by name
	List(ctx context.Context) ([]*Category, error)
}
