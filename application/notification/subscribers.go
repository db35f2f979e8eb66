package notification

import (
	"context"
	"fmt"

	"marketplace/domain/order"
	"marketplace/domain/payout"
	"marketplace/domain/product"
	"marketplace/domain/review"
	"marketplace/domain/shared"
)

const artisanOrdersLink = "/artisan/orders"

// Subscribers turns committed domain events into user notifications.
type Subscribers struct {
	service     *ApplicationService
	productRepo product.Repository
	payoutsLink string
}

func NewSubscribers(service *ApplicationService, productRepo product.Repository, payoutsLink string) *Subscribers {
	return &Subscribers{service: service, productRepo: productRepo, payoutsLink: payoutsLink}
}

// Register subscribes every handler on bus.
func (s *Subscribers) Register(bus *shared.EventBus) error {
	handlers := map[string]shared.EventHandler{
		order.EventOrderPlaced:        shared.NewFuncHandler("notify.order_placed", s.onOrderPlaced),
		order.EventOrderStatusChanged: shared.NewFuncHandler("notify.order_status_changed", s.onOrderStatusChanged),
		payout.EventPayoutRecorded:    shared.NewFuncHandler("notify.payout_recorded", s.onPayoutRecorded),
		review.EventReviewCreated:     shared.NewFuncHandler("notify.review_created", s.onReviewCreated),
	}
	for name, h := range handlers {
		if err := bus.Subscribe(name, h); err != nil {
			return err
		}
	}
	return nil
}

func (s *Subscribers) onOrderPlaced(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*order.OrderPlacedEvent)
	if !ok {
		return unexpected(event)
	}
	msg := fmt.Sprintf("New order #%s received", shortID(e.OrderID()))
	for _, artisanID := range e.ArtisanIDs() {
		s.service.Notify(ctx, artisanID, msg, artisanOrdersLink, string(shared.RoleArtisan))
	}
	return nil
}

func (s *Subscribers) onOrderStatusChanged(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*order.OrderStatusChangedEvent)
	if !ok {
		return unexpected(event)
	}
	msg := fmt.Sprintf("Your order #%s is now %s", shortID(e.OrderID()), e.To())
	s.service.Notify(ctx, e.CustomerID(), msg, "/orders/"+e.OrderID(), string(shared.RoleCustomer))
	return nil
}

func (s *Subscribers) onPayoutRecorded(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*payout.PayoutRecordedEvent)
	if !ok {
		return unexpected(event)
	}
	msg := fmt.Sprintf("A payout of %s %s has been sent for %d order(s)",
		e.Currency(), e.Amount().StringFixed(2), len(e.OrderIDs()))
	s.service.Notify(ctx, e.ArtisanID(), msg, s.payoutsLink, string(shared.RoleArtisan))
	return nil
}

func (s *Subscribers) onReviewCreated(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*review.ReviewCreatedEvent)
	if !ok {
		return unexpected(event)
	}
	p, err := s.productRepo.FindByID(ctx, e.ProductID())
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("New %d-star review on %s", e.Rating(), p.Name())
	s.service.Notify(ctx, p.ArtisanID(), msg, "/products/"+p.ID(), string(shared.RoleArtisan))
	return nil
}

func unexpected(event shared.DomainEvent) error {
	return fmt.Errorf("notification subscriber: unexpected event %T for %s", event, event.EventName())
}

// shortID keeps the tail of an id, which is the random part of a UUIDv7.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}
