/*
Package product Catalog subdomain

Products are listed by artisans under a category. Price and stock are owned by the artisan;
ratingsAverage and ratingsQuantity are derived from reviews and written only by rating recalculation.
*/
package product

import (
	"strings"
	"time"

	"marketplace/domain/shared"

	"github.com/shopspring/decimal"
)

// Product Product aggregate root
type Product struct {
	shared.EventRecorder

	id              string
	artisanID       string
	categoryID      string
	name            string
	description     string
	price           decimal.Decimal
	stock           int
	ratingsAverage  float64
	ratingsQuantity int
	version         int
	createdAt       time.Time
	updatedAt       time.Time

	isNew bool
}

// PostOptions Create product options
type PostOptions struct {
	ArtisanID   string
	CategoryID  string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

// NewProduct lists a new product with zero ratings.
func NewProduct(opts PostOptions) (*Product, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, shared.NewValidationError("product", "name", "name is required")
	}
	if !opts.Price.IsPositive() {
		return nil, shared.NewValidationError("product", "price", "price must be positive")
	}
	if opts.Stock < 0 {
		return nil, shared.NewValidationError("product", "stock", "stock cannot be negative")
	}
	if strings.TrimSpace(opts.ArtisanID) == "" {
		return nil, shared.NewValidationError("product", "artisanId", "artisan is required")
	}

	now := time.Now()
	return &Product{
		id:          shared.NewID(),
		artisanID:   opts.ArtisanID,
		categoryID:  opts.CategoryID,
		name:        name,
		description: strings.TrimSpace(opts.Description),
		price:       shared.RoundMoney(opts.Price),
		stock:       opts.Stock,
		createdAt:   now,
		updatedAt:   now,
		isNew:       true,
	}, nil
}

// Reserve takes quantity units out of stock at checkout.
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("product", "quantity", "quantity must be positive")
	}
	if p.stock < quantity {
		return NewInsufficientStockError(p.id, p.stock, quantity)
	}
	p.stock -= quantity
	p.updatedAt = time.Now()
	return nil
}

// ApplyRatings overwrites the derived rating fields from a full recount.
func (p *Product) ApplyRatings(quantity int, average float64) {
	if quantity <= 0 {
		quantity, average = 0, 0
	}
	p.ratingsQuantity = quantity
	p.ratingsAverage = average
	p.updatedAt = time.Now()
}

// IncrementVersionForSave is called by the repository after a successful save.
func (p *Product) IncrementVersionForSave() { p.version++ }

// MarkPersisted clears the new flag after the first insert.
func (p *Product) MarkPersisted() { p.isNew = false }

func (p *Product) ID() string              { return p.id }
func (p *Product) ArtisanID() string       { return p.artisanID }
func (p *Product) CategoryID() string      { return p.categoryID }
func (p *Product) Name() string            { return p.name }
func (p *Product) Description() string     { return p.description }
func (p *Product) Price() decimal.Decimal  { return p.price }
func (p *Product) Stock() int              { return p.stock }
func (p *Product) RatingsAverage() float64 { return p.ratingsAverage }
func (p *Product) RatingsQuantity() int    { return p.ratingsQuantity }
func (p *Product) Version() int            { return p.version }
func (p *Product) CreatedAt() time.Time    { return p.createdAt }
func (p *Product) UpdatedAt() time.Time    { return p.updatedAt }
func (p *Product) IsNew() bool             { return p.isNew }

// ReconstructionDTO Product reconstruction data transfer object
// ⚠️ Note: only repository implementations should use it
type ReconstructionDTO struct {
	ID              string
	ArtisanID       string
	CategoryID      string
	Name            string
	Description     string
	Price           decimal.Decimal
	Stock           int
	RatingsAverage  float64
	RatingsQuantity int
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Product {
	return &Product{
		id:              dto.ID,
		artisanID:       dto.ArtisanID,
		categoryID:      dto.CategoryID,
		name:            dto.Name,
		description:     dto.Description,
		price:           dto.Price,
		stock:           dto.Stock,
		ratingsAverage:  dto.RatingsAverage,
		ratingsQuantity: dto.RatingsQuantity,
		version:         dto.Version,
		createdAt:       dto.CreatedAt,
		updatedAt:       dto.UpdatedAt,
	}
}

func (p *Product) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:              p.id,
		ArtisanID:       p.artisanID,
		CategoryID:      p.categoryID,
		Name:            p.name,
		Description:     p.description,
		Price:           p.price,
		Stock:           p.stock,
		RatingsAverage:  p.ratingsAverage,
		RatingsQuantity: p.ratingsQuantity,
		Version:         p.version,
		CreatedAt:       p.createdAt,
		UpdatedAt:       p.updatedAt,
	}
}

var _ shared.AggregateRoot = (*Product)(nil)
