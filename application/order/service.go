/*
Package order Application Layer - checkout and the order status engine

Responsibilities of Application Layer:
1. Receive external requests (usually from Controller)
2. Call domain services for business rule validation
3. Call aggregate root methods to execute business operations
4. Use a fresh UoW per operation to manage transactions and event collection
5. Return results to caller

Application services do not publish events themselves: the UoW pulls them from registered aggregates,
stores them in the outbox with the business rows and dispatches them in-process after commit.
*/
package order

import (
	"context"
	"strings"

	"marketplace/domain/order"
	"marketplace/domain/product"
	"marketplace/domain/shared"
	"marketplace/domain/user"
)

// ApplicationService Order application service - coordinates checkout and status changes
type ApplicationService struct {
	orderRepo          order.Repository
	productRepo        product.Repository
	userRepo           user.Repository
	orderDomainService *order.DomainService
	uowFactory         shared.UnitOfWorkFactory
	policy             order.TransitionPolicy
}

// NewApplicationService Create order application service. A nil policy allows every seller transition.
func NewApplicationService(
	orderRepo order.Repository,
	productRepo product.Repository,
	userRepo user.Repository,
	uowFactory shared.UnitOfWorkFactory,
	policy order.TransitionPolicy,
) *ApplicationService {
	if policy == nil {
		policy = order.Unconstrained{}
	}
	return &ApplicationService{
		orderRepo:          orderRepo,
		productRepo:        productRepo,
		userRepo:           userRepo,
		orderDomainService: order.NewDomainService(orderRepo),
		uowFactory:         uowFactory,
		policy:             policy,
	}
}

// PlaceOrder snapshots the requested products, takes them out of stock and stores a paid order,
// all in one transaction. Repeated product ids are merged.
func (s *ApplicationService) PlaceOrder(ctx context.Context, customerID string, req PlaceOrderRequest) (*OrderResponse, error) {
	if err := shared.ValidateID("order", "customerId", customerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, shared.NewValidationError("order", "shippingAddress", "shipping address is required")
	}
	lines, err := mergeItems(req.Items)
	if err != nil {
		return nil, err
	}

	var o *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		customer, err := s.userRepo.FindByID(ctx, customerID)
		if err != nil {
			return err
		}
		if !customer.IsActive() {
			return user.NewUserNotActiveError(customerID)
		}

		requests := make([]order.ItemRequest, 0, len(lines))
		for _, line := range lines {
			p, err := s.productRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if err := p.Reserve(line.Quantity); err != nil {
				return err
			}
			if err := s.productRepo.Save(ctx, p); err != nil {
				return err
			}
			requests = append(requests, order.ItemRequest{
				ProductID: p.ID(),
				ArtisanID: p.ArtisanID(),
				Name:      p.Name(),
				Price:     p.Price(),
				Quantity:  line.Quantity,
			})
		}

		o, err = order.NewOrder(customerID, req.ShippingAddress, requests)
		if err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// Transition moves an order to a seller-settable status on behalf of one of its artisans.
// A concurrent change makes the UoW retry the whole load-transition-save cycle.
func (s *ApplicationService) Transition(ctx context.Context, orderID, sellerID string, req UpdateStatusRequest) (*OrderResponse, error) {
	to, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if err := shared.ValidateID("order", "orderId", orderID); err != nil {
		return nil, err
	}
	if err := shared.ValidateID("order", "sellerId", sellerID); err != nil {
		return nil, err
	}
	details := req.TransitionDetails()

	var o *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		loaded, err := s.orderDomainService.LoadForSeller(ctx, orderID, sellerID)
		if err != nil {
			return err
		}
		if err := loaded.Transition(sellerID, to, details, s.policy); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, loaded); err != nil {
			return err
		}
		uow.RegisterDirty(loaded)
		o = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// GetOrder returns an order to its customer, a contributing artisan or an admin.
// Anyone else gets NotFound so order ids cannot be probed.
func (s *ApplicationService) GetOrder(ctx context.Context, orderID string, viewer Viewer) (*OrderResponse, error) {
	if err := shared.ValidateID("order", "orderId", orderID); err != nil {
		return nil, err
	}
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin && !o.IsVisibleTo(viewer.UserID) {
		return nil, order.NewOrderNotFoundError(orderID)
	}
	return toOrderResponse(o), nil
}

// ListForCustomer returns the customer's orders, newest first.
func (s *ApplicationService) ListForCustomer(ctx context.Context, customerID string) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// ListForArtisan returns every order that contains one of the artisan's items, newest first.
func (s *ApplicationService) ListForArtisan(ctx context.Context, artisanID string) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindByArtisan(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

func mergeItems(items []PlaceOrderItem) ([]PlaceOrderItem, error) {
	if len(items) == 0 {
		return nil, shared.NewValidationError("order", "items", "at least one item is required")
	}
	merged := make([]PlaceOrderItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if err := shared.ValidateID("order", "productId", item.ProductID); err != nil {
			return nil, err
		}
		if item.Quantity <= 0 {
			return nil, shared.NewValidationError("order", "quantity", "quantity must be positive")
		}
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}
