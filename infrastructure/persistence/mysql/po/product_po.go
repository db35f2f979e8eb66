package po

import (
	"time"

	"marketplace/domain/product"

	"github.com/shopspring/decimal"
)

type ProductPO struct {
	ID              string          `gorm:"primaryKey;size:64"`
	ArtisanID       string          `gorm:"size:64;index;not null"`
	CategoryID      string          `gorm:"size:64;index"`
	Name            string          `gorm:"size:200;not null"`
	Description     string          `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock           int             `gorm:"not null"`
	RatingsAverage  float64         `gorm:"default:0"`
	RatingsQuantity int             `gorm:"default:0"`
	Version         int             `gorm:"default:0"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

func (ProductPO) TableName() string {
	return "products"
}

func FromProductDomain(p *product.Product) *ProductPO {
	dto := p.ToDTO()
	return &ProductPO{
		ID:              dto.ID,
		ArtisanID:       dto.ArtisanID,
		CategoryID:      dto.CategoryID,
		Name:            dto.Name,
		Description:     dto.Description,
		Price:           dto.Price,
		Stock:           dto.Stock,
		RatingsAverage:  dto.RatingsAverage,
		RatingsQuantity: dto.RatingsQuantity,
		Version:         dto.Version,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
	}
}

func (po *ProductPO) ToDomain() *product.Product {
	return product.RebuildFromDTO(product.ReconstructionDTO{
		ID:              po.ID,
		ArtisanID:       po.ArtisanID,
		CategoryID:      po.CategoryID,
		Name:            po.Name,
		Description:     po.Description,
		Price:           po.Price,
		Stock:           po.Stock,
		RatingsAverage:  po.RatingsAverage,
		RatingsQuantity: po.RatingsQuantity,
		Version:         po.Version,
		CreatedAt:       po.CreatedAt,
		UpdatedAt:       po.UpdatedAt,
	})
}

type CategoryPO struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Name      string    `gorm:"size:100;not null"`
	Slug      string    `gorm:"size:120;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (CategoryPO) TableName() string {
	return "categories"
}

func FromCategoryDomain(c *product.Category) *CategoryPO {
	return &CategoryPO{ID: c.ID(), Name: c.Name(), Slug: c.Slug(), CreatedAt: c.CreatedAt()}
}

func (po *CategoryPO) ToDomain() *product.Category {
	return product.RebuildCategory(po.ID, po.Name, po.Slug, po.CreatedAt)
}
