package memory

import (
	"context"
	"sort"
	"time"

	"marketplace/domain/product"
	"marketplace/domain/shared"
)

// ProductRepository In-memory implementation of product.Repository
type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Save(ctx context.Context, p *product.Product) error {
	dto := p.ToDTO()
	expected := p.Version()
	isNew := p.IsNew()

	err := r.store.write(ctx, func(s *Store) (func(), error) {
		prev, exists := s.products[dto.ID]
		if isNew && exists {
			return nil, shared.NewConflictError("product", "product already exists: "+dto.ID)
		}
		if !isNew {
			if !exists {
				return nil, product.NewProductNotFoundError(dto.ID)
			}
			if prev.Version != expected {
				return nil, shared.NewConcurrentModificationError("product", dto.ID)
			}
		}
		next := dto
		next.Version = expected + 1
		s.products[dto.ID] = next
		return func() {
			if exists {
				s.products[dto.ID] = prev
			} else {
				delete(s.products, dto.ID)
			}
		}, nil
	})
	if err != nil {
		return err
	}

	p.IncrementVersionForSave()
	p.MarkPersisted()
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, ok := r.store.products[id]
	if !ok {
		return nil, product.NewProductNotFoundError(id)
	}
	return product.RebuildFromDTO(dto), nil
}

func (r *ProductRepository) List(_ context.Context, filter product.Filter) ([]*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*product.Product
	for _, dto := range r.store.products {
		if filter.CategoryID != "" && dto.CategoryID != filter.CategoryID {
			continue
		}
		if filter.ArtisanID != "" && dto.ArtisanID != filter.ArtisanID {
			continue
		}
		out = append(out, product.RebuildFromDTO(dto))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].ID() > out[j].ID()
		}
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

type categoryRow struct {
	id        string
	name      string
	slug      string
	createdAt time.Time
}

// CategoryRepository In-memory implementation of product.CategoryRepository
type CategoryRepository struct {
	store *Store
}

func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

func (r *CategoryRepository) Save(ctx context.Context, c *product.Category) error {
	row := categoryRow{id: c.ID(), name: c.Name(), slug: c.Slug(), createdAt: c.CreatedAt()}
	return r.store.write(ctx, func(s *Store) (func(), error) {
		for _, existing := range s.categories {
			if existing.slug == row.slug && existing.id != row.id {
				return nil, product.NewCategoryExistsError(row.slug)
			}
		}
		prev, exists := s.categories[row.id]
		s.categories[row.id] = row
		return func() {
			if exists {
				s.categories[row.id] = prev
			} else {
				delete(s.categories, row.id)
			}
		}, nil
	})
}

func (r *CategoryRepository) FindByID(_ context.Context, id string) (*product.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.categories[id]
	if !ok {
		return nil, product.NewCategoryNotFoundError(id)
	}
	return product.RebuildCategory(row.id, row.name, row.slug, row.createdAt), nil
}

func (r *CategoryRepository) List(_ context.Context) ([]*product.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*product.Category, 0, len(r.store.categories))
	for _, row := range r.store.categories {
		out = append(out, product.RebuildCategory(row.id, row.name, row.slug, row.createdAt))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

var (
	_ product.Repository         = (*ProductRepository)(nil)
	_ product.CategoryRepository = (*CategoryRepository)(nil)
)
