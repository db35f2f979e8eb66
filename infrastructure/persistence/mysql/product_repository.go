package mysql

import (
	"context"

	"marketplace/domain/product"
	"marketplace/domain/shared"
	"marketplace/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

type ProductRepository struct {
	base
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{base{db: db}}
}

func (r *ProductRepository) Save(ctx context.Context, p *product.Product) error {
	productPO := po.FromProductDomain(p)

	err := r.inTx(ctx, func(tx *gorm.DB) error {
		if p.IsNew() {
			productPO.Version = 1
			return tx.Create(productPO).Error
		}

		expectedVersion := p.Version()
		result := tx.Model(&po.ProductPO{}).
			Where("id = ? AND version = ?", p.ID(), expectedVersion).
			Updates(map[string]interface{}{
				"category_id":      productPO.CategoryID,
				"name":             productPO.Name,
				"description":      productPO.Description,
				"price":            productPO.Price,
				"stock":            productPO.Stock,
				"ratings_average":  productPO.RatingsAverage,
				"ratings_quantity": productPO.RatingsQuantity,
				"version":          expectedVersion + 1,
				"updated_at":       productPO.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.ProductPO{}).Where("id = ?", p.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return product.NewProductNotFoundError(p.ID())
			}
			return shared.NewConcurrentModificationError("product", p.ID())
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.IncrementVersionForSave()
	p.MarkPersisted()
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	var productPO po.ProductPO
	if err := r.getDB(ctx).First(&productPO, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, product.NewProductNotFoundError(id)
		}
		return nil, err
	}
	return productPO.ToDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context, filter product.Filter) ([]*product.Product, error) {
	db := r.getDB(ctx)
	if filter.CategoryID != "" {
		db = db.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ArtisanID != "" {
		db = db.Where("artisan_id = ?", filter.ArtisanID)
	}

	var productPOs []po.ProductPO
	if err := db.Order("created_at DESC, id DESC").Find(&productPOs).Error; err != nil {
		return nil, err
	}
	products := make([]*product.Product, len(productPOs))
	for i := range productPOs {
		products[i] = productPOs[i].ToDomain()
	}
	return products, nil
}

type CategoryRepository struct {
	base
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{base{db: db}}
}

func (r *CategoryRepository) Save(ctx context.Context, c *product.Category) error {
	categoryPO := po.FromCategoryDomain(c)
	err := r.getDB(ctx).Save(categoryPO).Error
	if isDuplicateKeyError(err) {
		return product.NewCategoryExistsError(c.Slug())
	}
	return err
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*product.Category, error) {
	var categoryPO po.CategoryPO
	if err := r.getDB(ctx).First(&categoryPO, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, product.NewCategoryNotFoundError(id)
		}
		return nil, err
	}
	return categoryPO.ToDomain(), nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*product.Category, error) {
	var categoryPOs []po.CategoryPO
	if err := r.getDB(ctx).Order("name").Find(&categoryPOs).Error; err != nil {
		return nil, err
	}
	categories := make([]*product.Category, len(categoryPOs))
	for i := range categoryPOs {
		categories[i] = categoryPOs[i].ToDomain()
	}
	return categories, nil
}

var (
	_ product.Repository         = (*ProductRepository)(nil)
	_ product.CategoryRepository = (*CategoryRepository)(nil)
)
