package order

import "context"

// Repository Order repository interface
// Orders are never hard-deleted.
type Repository interface {
	// Save inserts a new order or compare-and-swaps an existing one on its version.
	// A lost race returns shared.ErrConcurrentModification.
	Save(ctx context.Context, order *Order) error

	// FindByID returns ErrOrderNotFound when absent.
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByIDs returns the orders that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*Order, error)

	// FindByCustomer lists a customer's orders, newest first.
	FindByCustomer(ctx context.Context, customerID string) ([]*Order, error)

	// FindByArtisan lists orders containing at least one of the artisan's items, newest first.
	FindByArtisan(ctx context.Context, artisanID string) ([]*Order, error)

	// FindAwaitingPayout lists delivered orders whose payout is still pending, oldest first.
	FindAwaitingPayout(ctx context.Context) ([]*Order, error)

	// HasDeliveredPurchase reports whether the customer holds a delivered order containing productID.
	HasDeliveredPurchase(ctx context.Context, customerID, productID string) (bool, error)
}
