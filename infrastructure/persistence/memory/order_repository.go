package memory

import (
	"context"
	"sort"

	"marketplace/domain/order"
	"marketplace/domain/shared"
)

// OrderRepository In-memory implementation of order.Repository
type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// Save compare-and-swaps on the version the aggregate was loaded with.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	dto := o.ToDTO()
	expected := o.Version()
	isNew := o.IsNew()

	err := r.store.write(ctx, func(s *Store) (func(), error) {
		prev, exists := s.orders[dto.ID]
		if isNew && exists {
			return nil, shared.NewConflictError("order", "order already exists: "+dto.ID)
		}
		if !isNew {
			if !exists {
				return nil, order.NewOrderNotFoundError(dto.ID)
			}
			if prev.Version != expected {
				return nil, shared.NewConcurrentModificationError("order", dto.ID)
			}
		}
		next := dto
		next.Version = expected + 1
		s.orders[dto.ID] = next
		return func() {
			if exists {
				s.orders[dto.ID] = prev
			} else {
				delete(s.orders, dto.ID)
			}
		}, nil
	})
	if err != nil {
		return err
	}

	o.IncrementVersionForSave()
	o.ClearDirtyTracking()
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, ok := r.store.orders[id]
	if !ok {
		return nil, order.NewOrderNotFoundError(id)
	}
	return order.RebuildFromDTO(dto), nil
}

func (r *OrderRepository) FindByIDs(_ context.Context, ids []string) ([]*order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*order.Order, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if dto, ok := r.store.orders[id]; ok {
			out = append(out, order.RebuildFromDTO(dto))
		}
	}
	return out, nil
}

func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	orders := r.findBySpecification(ctx, order.ByCustomerSpecification{CustomerID: customerID})
	sortNewestFirst(orders)
	return orders, nil
}

func (r *OrderRepository) FindByArtisan(ctx context.Context, artisanID string) ([]*order.Order, error) {
	orders := r.findBySpecification(ctx, order.ByArtisanSpecification{ArtisanID: artisanID})
	sortNewestFirst(orders)
	return orders, nil
}

func (r *OrderRepository) FindAwaitingPayout(ctx context.Context) ([]*order.Order, error) {
	orders := r.findBySpecification(ctx, order.AwaitingPayout())
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].ID() < orders[j].ID()
		}
		return orders[i].CreatedAt().Before(orders[j].CreatedAt())
	})
	return orders, nil
}

func (r *OrderRepository) HasDeliveredPurchase(ctx context.Context, customerID, productID string) (bool, error) {
	return len(r.findBySpecification(ctx, order.DeliveredPurchase(customerID, productID))) > 0, nil
}

func (r *OrderRepository) findBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) []*order.Order {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*order.Order
	for _, dto := range r.store.orders {
		o := order.RebuildFromDTO(dto)
		if spec.IsSatisfiedBy(ctx, o) {
			out = append(out, o)
		}
	}
	return out
}

func sortNewestFirst(orders []*order.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].ID() > orders[j].ID()
		}
		return orders[i].CreatedAt().After(orders[j].CreatedAt())
	})
}

var _ order.Repository = (*OrderRepository)(nil)
