package order

import (
	"marketplace/domain/shared"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderPaidOut       = "order.paid_out"
)

type OrderPlacedEvent struct {
	shared.BaseEvent
	customerID  string
	artisanIDs  []string
	totalAmount decimal.Decimal
}

func NewOrderPlacedEvent(orderID, customerID string, artisanIDs []string, totalAmount decimal.Decimal) *OrderPlacedEvent {
	ids := make([]string, len(artisanIDs))
	copy(ids, artisanIDs)
	return &OrderPlacedEvent{
		BaseEvent:   shared.NewBaseEvent(orderID),
		customerID:  customerID,
		artisanIDs:  ids,
		totalAmount: totalAmount,
	}
}

func (e *OrderPlacedEvent) EventName() string            { return EventOrderPlaced }
func (e *OrderPlacedEvent) OrderID() string              { return e.GetAggregateID() }
func (e *OrderPlacedEvent) CustomerID() string           { return e.customerID }
func (e *OrderPlacedEvent) ArtisanIDs() []string         { return append([]string(nil), e.artisanIDs...) }
func (e *OrderPlacedEvent) TotalAmount() decimal.Decimal { return e.totalAmount }

func (e *OrderPlacedEvent) Payload() map[string]any {
	return map[string]any{
		"order_id":     e.OrderID(),
		"customer_id":  e.customerID,
		"artisan_ids":  e.ArtisanIDs(),
		"total_amount": e.totalAmount.StringFixed(2),
	}
}

type OrderStatusChangedEvent struct {
	shared.BaseEvent
	customerID string
	sellerID   string
	from       Status
	to         Status
	details    string
}

func NewOrderStatusChangedEvent(orderID, customerID, sellerID string, from, to Status, details string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseEvent:  shared.NewBaseEvent(orderID),
		customerID: customerID,
		sellerID:   sellerID,
		from:       from,
		to:         to,
		details:    details,
	}
}

func (e *OrderStatusChangedEvent) EventName() string  { return EventOrderStatusChanged }
func (e *OrderStatusChangedEvent) OrderID() string    { return e.GetAggregateID() }
func (e *OrderStatusChangedEvent) CustomerID() string { return e.customerID }
func (e *OrderStatusChangedEvent) SellerID() string   { return e.sellerID }
func (e *OrderStatusChangedEvent) From() Status       { return e.from }
func (e *OrderStatusChangedEvent) To() Status         { return e.to }
func (e *OrderStatusChangedEvent) Details() string    { return e.details }

func (e *OrderStatusChangedEvent) Payload() map[string]any {
	return map[string]any{
		"order_id":    e.OrderID(),
		"customer_id": e.customerID,
		"seller_id":   e.sellerID,
		"from":        string(e.from),
		"to":          string(e.to),
		"details":     e.details,
	}
}

type OrderPaidOutEvent struct {
	shared.BaseEvent
	payoutID string
}

func NewOrderPaidOutEvent(orderID, payoutID string) *OrderPaidOutEvent {
	return &OrderPaidOutEvent{BaseEvent: shared.NewBaseEvent(orderID), payoutID: payoutID}
}

func (e *OrderPaidOutEvent) EventName() string { return EventOrderPaidOut }
func (e *OrderPaidOutEvent) OrderID() string   { return e.GetAggregateID() }
func (e *OrderPaidOutEvent) PayoutID() string  { return e.payoutID }

func (e *OrderPaidOutEvent) Payload() map[string]any {
	return map[string]any{"order_id": e.OrderID(), "payout_id": e.payoutID}
}
