package product

import (
	"fmt"

	"marketplace/domain/shared"
)

var (
	ErrProductNotFound   = fmt.Errorf("product %w", shared.ErrNotFound)
	ErrCategoryNotFound  = fmt.Errorf("category %w", shared.ErrNotFound)
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", shared.ErrConflict)
	ErrCategoryExists    = fmt.Errorf("%w: category already exists", shared.ErrConflict)
)

func NewProductNotFoundError(productID string) error {
	return &productDomainError{
		sentinel: ErrProductNotFound,
		message:  "product not found: " + productID,
		stack:    shared.CaptureStack(3),
	}
}

func NewCategoryNotFoundError(categoryID string) error {
	return &productDomainError{
		sentinel: ErrCategoryNotFound,
		field:    "categoryId",
		message:  "category not found: " + categoryID,
		stack:    shared.CaptureStack(3),
	}
}

func NewInsufficientStockError(productID string, available, requested int) error {
	return &productDomainError{
		sentinel: ErrInsufficientStock,
		message:  fmt.Sprintf("insufficient stock for product %s: available %d, requested %d", productID, available, requested),
		stack:    shared.CaptureStack(3),
	}
}

func NewCategoryExistsError(slug string) error {
	return &productDomainError{
		sentinel: ErrCategoryExists,
		field:    "name",
		message:  "category already exists: " + slug,
		stack:    shared.CaptureStack(3),
	}
}

type productDomainError struct {
	sentinel error
	field    string
	message  string
	stack    []uintptr
}

func (e *productDomainError) Error() string   { return e.message }
func (e *productDomainError) Unwrap() error   { return e.sentinel }
func (e *productDomainError) Field() string   { return e.field }
func (e *productDomainError) Stack() []string { return shared.FormatStack(e.stack) }
