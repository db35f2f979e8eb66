/*
Package order Order subdomain - the order status engine

An order is created at checkout in the paid pre-state with an immutable snapshot of its line items.
Sellers whose products appear in the order move it through the fulfilment statuses; every change is
prepended to the status history. Once delivered, an admin payout settles it exactly once.

DDD Core Principles:
1. All fields are private, behavior exposed through methods
2. Version is bumped by the repository after a successful compare-and-swap save
3. State changes record domain events, collected by the UnitOfWork
*/
package order

import (
	"strings"
	"time"

	"marketplace/domain/shared"

	"github.com/shopspring/decimal"
)

// Order Order aggregate root
type Order struct {
	shared.EventRecorder

	id              string
	customerID      string
	items           []Item
	totalAmount     decimal.Decimal
	shippingAddress string
	status          Status
	history         []HistoryEntry // newest first
	payoutStatus    PayoutStatus
	payoutID        string
	version         int
	createdAt       time.Time
	updatedAt       time.Time

	// Dirty tracking for efficient persistence
	addedHistory int  // entries prepended since load
	isNew        bool // created in this session, not loaded from storage
}

// Item is a line item snapshotted from the catalog at purchase time. It never changes afterwards.
type Item struct {
	productID string
	artisanID string
	name      string
	price     decimal.Decimal
	quantity  int
}

// HistoryEntry is one status change.
type HistoryEntry struct {
	status    Status
	updatedAt time.Time
	details   string
}

// ItemRequest Create order item request
type ItemRequest struct {
	ProductID string
	ArtisanID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// ============================================================================
// Factory Methods
// ============================================================================

// NewOrder creates a paid order with an empty history and a pending payout.
func NewOrder(customerID, shippingAddress string, requests []ItemRequest) (*Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrMissingCustomer
	}
	if len(requests) == 0 {
		return nil, ErrEmptyOrderItems
	}

	items := make([]Item, len(requests))
	total := decimal.Zero
	for i, req := range requests {
		if req.Quantity <= 0 {
			return nil, newItemError(ErrInvalidQuantity, i)
		}
		if req.Price.IsNegative() {
			return nil, newItemError(ErrInvalidPrice, i)
		}
		if strings.TrimSpace(req.ArtisanID) == "" {
			return nil, newItemError(ErrMissingArtisan, i)
		}
		items[i] = Item{
			productID: req.ProductID,
			artisanID: req.ArtisanID,
			name:      req.Name,
			price:     req.Price,
			quantity:  req.Quantity,
		}
		total = total.Add(items[i].Subtotal())
	}

	now := time.Now()
	o := &Order{
		id:              shared.NewID(),
		customerID:      customerID,
		items:           items,
		totalAmount:     shared.RoundMoney(total),
		shippingAddress: strings.TrimSpace(shippingAddress),
		status:          StatusPaid,
		payoutStatus:    PayoutPending,
		createdAt:       now,
		updatedAt:       now,
		isNew:           true,
	}
	o.Record(NewOrderPlacedEvent(o.id, o.customerID, o.ArtisanIDs(), o.totalAmount))
	return o, nil
}

// ============================================================================
// ReconstructionDTO - For Repository Layer Use Only
// ============================================================================

// ReconstructionDTO Order reconstruction data transfer object
// ⚠️ Note: only repository implementations should use it
type ReconstructionDTO struct {
	ID              string
	CustomerID      string
	Items           []Item
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Status          Status
	History         []HistoryEntry // newest first
	PayoutStatus    PayoutStatus
	PayoutID        string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RebuildFromDTO Reconstruct Order aggregate root from DTO
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	items := make([]Item, len(dto.Items))
	copy(items, dto.Items)
	history := make([]HistoryEntry, len(dto.History))
	copy(history, dto.History)
	return &Order{
		id:              dto.ID,
		customerID:      dto.CustomerID,
		items:           items,
		totalAmount:     dto.TotalAmount,
		shippingAddress: dto.ShippingAddress,
		status:          dto.Status,
		history:         history,
		payoutStatus:    dto.PayoutStatus,
		payoutID:        dto.PayoutID,
		version:         dto.Version,
		createdAt:       dto.CreatedAt,
		updatedAt:       dto.UpdatedAt,
	}
}

// ToDTO flattens the aggregate for persistence.
func (o *Order) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:              o.id,
		CustomerID:      o.customerID,
		Items:           o.Items(),
		TotalAmount:     o.totalAmount,
		ShippingAddress: o.shippingAddress,
		Status:          o.status,
		History:         o.History(),
		PayoutStatus:    o.payoutStatus,
		PayoutID:        o.payoutID,
		Version:         o.version,
		CreatedAt:       o.createdAt,
		UpdatedAt:       o.updatedAt,
	}
}

// RebuildItem rebuilds a line item from storage.
func RebuildItem(productID, artisanID, name string, price decimal.Decimal, quantity int) Item {
	return Item{productID: productID, artisanID: artisanID, name: name, price: price, quantity: quantity}
}

// RebuildHistoryEntry rebuilds a history entry from storage.
func RebuildHistoryEntry(status Status, updatedAt time.Time, details string) HistoryEntry {
	return HistoryEntry{status: status, updatedAt: updatedAt, details: details}
}

// ============================================================================
// State Change Methods - Domain Behavior
// ============================================================================

// Transition moves the order to status `to` on behalf of sellerID.
// The seller must own at least one line item. policy decides adjacency.
func (o *Order) Transition(sellerID string, to Status, details TransitionDetails, policy TransitionPolicy) error {
	if !o.HasArtisan(sellerID) {
		return NewNotOrderSellerError(o.id, sellerID)
	}
	if to == StatusPaid {
		return NewInvalidStatusError(string(to))
	}
	if policy == nil {
		policy = Unconstrained{}
	}
	if !policy.Allow(o.status, to) {
		return invalidTransition(o.status, to)
	}

	from := o.status
	now := time.Now()
	entry := HistoryEntry{status: to, updatedAt: now, details: renderDetails(to, details)}

	o.status = to
	o.history = append([]HistoryEntry{entry}, o.history...)
	o.addedHistory++
	o.updatedAt = now

	o.Record(NewOrderStatusChangedEvent(o.id, o.customerID, sellerID, from, to, entry.details))
	return nil
}

// CanBePaidOut reports the settlement precondition: delivered and not yet paid out.
func (o *Order) CanBePaidOut() error {
	if o.payoutStatus == PayoutPaid {
		return ErrAlreadyPaidOut
	}
	if o.status != StatusDelivered {
		return ErrNotDelivered
	}
	return nil
}

// MarkPaidOut settles the order under payoutID.
func (o *Order) MarkPaidOut(payoutID string) error {
	if strings.TrimSpace(payoutID) == "" {
		return ErrMissingPayoutRef
	}
	if err := o.CanBePaidOut(); err != nil {
		return err
	}
	o.payoutStatus = PayoutPaid
	o.payoutID = payoutID
	o.updatedAt = time.Now()
	o.Record(NewOrderPaidOutEvent(o.id, payoutID))
	return nil
}

// IncrementVersionForSave is called by the repository after a successful save.
func (o *Order) IncrementVersionForSave() {
	o.version++
}

// ============================================================================
// Queries
// ============================================================================

// HasArtisan reports whether any line item belongs to artisanID.
func (o *Order) HasArtisan(artisanID string) bool {
	if artisanID == "" {
		return false
	}
	for _, item := range o.items {
		if item.artisanID == artisanID {
			return true
		}
	}
	return false
}

// ContainsProduct reports whether productID was purchased in this order.
func (o *Order) ContainsProduct(productID string) bool {
	for _, item := range o.items {
		if item.productID == productID {
			return true
		}
	}
	return false
}

// ArtisanIDs lists the distinct artisans in first-appearance order.
func (o *Order) ArtisanIDs() []string {
	seen := make(map[string]struct{}, len(o.items))
	ids := make([]string, 0, len(o.items))
	for _, item := range o.items {
		if _, ok := seen[item.artisanID]; ok {
			continue
		}
		seen[item.artisanID] = struct{}{}
		ids = append(ids, item.artisanID)
	}
	return ids
}

// SalesFor sums price × quantity over artisanID's items only.
func (o *Order) SalesFor(artisanID string) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.items {
		if item.artisanID == artisanID {
			sum = sum.Add(item.Subtotal())
		}
	}
	return sum
}

// IsVisibleTo reports whether userID may read the order: its customer or a contributing artisan.
func (o *Order) IsVisibleTo(userID string) bool {
	return o.customerID == userID || o.HasArtisan(userID)
}

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string                   { return o.id }
func (o *Order) CustomerID() string           { return o.customerID }
func (o *Order) TotalAmount() decimal.Decimal { return o.totalAmount }
func (o *Order) ShippingAddress() string      { return o.shippingAddress }
func (o *Order) Status() Status               { return o.status }
func (o *Order) PayoutStatus() PayoutStatus   { return o.payoutStatus }
func (o *Order) PayoutID() string             { return o.payoutID }
func (o *Order) Version() int                 { return o.version }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

// Items Return copy of order items
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// History returns a copy of the status history, newest first.
func (o *Order) History() []HistoryEntry {
	history := make([]HistoryEntry, len(o.history))
	copy(history, o.history)
	return history
}

// ============================================================================
// Dirty Tracking - For Repository Layer Use Only
// ============================================================================

// IsNew Returns true if this aggregate was newly created (not loaded from storage)
func (o *Order) IsNew() bool { return o.isNew }

// AddedHistory returns entries prepended since load, newest first.
// A new order returns its whole history.
func (o *Order) AddedHistory() []HistoryEntry {
	n := o.addedHistory
	if o.isNew {
		n = len(o.history)
	}
	added := make([]HistoryEntry, n)
	copy(added, o.history[:n])
	return added
}

// ClearDirtyTracking Clears all dirty tracking state after successful save
func (o *Order) ClearDirtyTracking() {
	o.addedHistory = 0
	o.isNew = false
}

// Item getters

func (i Item) ProductID() string         { return i.productID }
func (i Item) ArtisanID() string         { return i.artisanID }
func (i Item) Name() string              { return i.name }
func (i Item) Price() decimal.Decimal    { return i.price }
func (i Item) Quantity() int             { return i.quantity }
func (i Item) Subtotal() decimal.Decimal { return i.price.Mul(decimal.NewFromInt(int64(i.quantity))) }

// HistoryEntry getters

func (h HistoryEntry) Status() Status       { return h.status }
func (h HistoryEntry) UpdatedAt() time.Time { return h.updatedAt }
func (h HistoryEntry) Details() string      { return h.details }

// Compile-time check that Order implements AggregateRoot interface
var _ shared.AggregateRoot = (*Order)(nil)
