package order

import (
	"context"
)

// DomainService Order domain service
// DDD principle: Domain service can use Repository interfaces to query data but does not call Save for persistence
type DomainService struct {
	orderRepository Repository
}

// NewDomainService Create order domain service
func NewDomainService(orderRepo Repository) *DomainService {
	return &DomainService{orderRepository: orderRepo}
}

// LoadForSeller loads an order a seller is about to change.
// Absent orders yield ErrOrderNotFound; a seller with no items in it is refused.
func (s *DomainService) LoadForSeller(ctx context.Context, orderID, sellerID string) (*Order, error) {
	o, err := s.orderRepository.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.HasArtisan(sellerID) {
		return nil, NewNotOrderSellerError(orderID, sellerID)
	}
	return o, nil
}

// LoadForPayout loads every listed order and checks each can still be settled.
// A missing id fails the whole batch.
func (s *DomainService) LoadForPayout(ctx context.Context, orderIDs []string) ([]*Order, error) {
	found, err := s.orderRepository.FindByIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*Order, len(found))
	for _, o := range found {
		byID[o.ID()] = o
	}

	orders := make([]*Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		o, ok := byID[id]
		if !ok {
			return nil, NewOrderNotFoundError(id)
		}
		if err := o.CanBePaidOut(); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// HasDeliveredPurchase lets the review subdomain check its creation precondition without importing orders.
func (s *DomainService) HasDeliveredPurchase(ctx context.Context, customerID, productID string) (bool, error) {
	return s.orderRepository.HasDeliveredPurchase(ctx, customerID, productID)
}
