// Package product Application Layer - catalog and categories
package product

import (
	"context"
	"time"

	"marketplace/domain/product"
	"marketplace/domain/shared"
	"marketplace/domain/user"

	"github.com/shopspring/decimal"
)

// ApplicationService Product application service
type ApplicationService struct {
	productRepo       product.Repository
	categoryRepo      product.CategoryRepository
	userDomainService *user.DomainService
	uowFactory        shared.UnitOfWorkFactory
}

// NewApplicationService Create product application service
func NewApplicationService(
	productRepo product.Repository,
	categoryRepo product.CategoryRepository,
	userRepo user.Repository,
	uowFactory shared.UnitOfWorkFactory,
) *ApplicationService {
	return &ApplicationService{
		productRepo:       productRepo,
		categoryRepo:      categoryRepo,
		userDomainService: user.NewDomainService(userRepo),
		uowFactory:        uowFactory,
	}
}

// CreateProductRequest 上架商品入参。
type CreateProductRequest struct {
	CategoryID  string          `json:"categoryId"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
}

// CreateCategoryRequest 创建分类入参。
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListQuery 商品列表过滤条件。
type ListQuery struct {
	Category string `form:"category"`
	Artisan  string `form:"artisan"`
}

// ProductResponse 商品返回模型。
type ProductResponse struct {
	ID              string          `json:"id"`
	ArtisanID       string          `json:"artisanId"`
	CategoryID      string          `json:"categoryId,omitempty"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Stock           int             `json:"stock"`
	RatingsAverage  float64         `json:"ratingsAverage"`
	RatingsQuantity int             `json:"ratingsQuantity"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CategoryResponse 分类返回模型。
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateProduct lists a product for an active artisan.
func (s *ApplicationService) CreateProduct(ctx context.Context, artisanID string, req CreateProductRequest) (*ProductResponse, error) {
	var p *product.Product

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := s.userDomainService.RequireActiveArtisan(ctx, artisanID); err != nil {
			return err
		}
		if req.CategoryID != "" {
			if err := shared.ValidateID("product", "categoryId", req.CategoryID); err != nil {
				return err
			}
			if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
				return err
			}
		}

		var err error
		p, err = product.NewProduct(product.PostOptions{
			ArtisanID:   artisanID,
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
		})
		if err != nil {
			return err
		}
		if err := s.productRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterNew(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetProduct Get product information
func (s *ApplicationService) GetProduct(ctx context.Context, productID string) (*ProductResponse, error) {
	if err := shared.ValidateID("product", "productId", productID); err != nil {
		return nil, err
	}
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// ListProducts returns the catalog newest first, optionally narrowed to one category or artisan.
func (s *ApplicationService) ListProducts(ctx context.Context, q ListQuery) ([]*ProductResponse, error) {
	products, err := s.productRepo.List(ctx, product.Filter{CategoryID: q.Category, ArtisanID: q.Artisan})
	if err != nil {
		return nil, err
	}
	out := make([]*ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out, nil
}

// CreateCategory adds a category. Names that slugify alike conflict.
func (s *ApplicationService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	c, err := product.NewCategory(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// ListCategories returns every category sorted by name.
func (s *ApplicationService) ListCategories(ctx context.Context) ([]*CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = toCategoryResponse(c)
	}
	return out, nil
}

func toProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:              p.ID(),
		ArtisanID:       p.ArtisanID(),
		CategoryID:      p.CategoryID(),
		Name:            p.Name(),
		Description:     p.Description(),
		Price:           p.Price(),
		Stock:           p.Stock(),
		RatingsAverage:  p.RatingsAverage(),
		RatingsQuantity: p.RatingsQuantity(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
}

func toCategoryResponse(c *product.Category) *CategoryResponse {
	return &CategoryResponse{ID: c.ID(), Name: c.Name(), Slug: c.Slug()}
}
