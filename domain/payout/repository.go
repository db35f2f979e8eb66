package payout

import (
	"context"
	"fmt"

	"marketplace/domain/shared"
)

var ErrPayoutNotFound = fmt.Errorf("payout %w", shared.ErrNotFound)

// Repository Payout repository interface. Payouts are insert-only.
type Repository interface {
	Save(ctx context.Context, payout *Payout) error

	FindByID(ctx context.Context, id string) (*Payout, error)

	// List returns payouts newest first; an empty artisanID lists every artisan.
	List(ctx context.Context, artisanID string) ([]*Payout, error)
}
