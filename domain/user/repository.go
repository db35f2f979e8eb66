package user

import (
	"context"

	"marketplace/domain/shared"
)

// Repository User repository interface
// DDD principles:
// 1. Repository only responsible for aggregate root persistence
// 2. Include context.Context to support timeout, cancellation and transaction
type Repository interface {
	// Save inserts a new user or compare-and-swaps an existing one on its version
	Save(ctx context.Context, user *User) error

	// FindByID returns ErrUserNotFound when absent
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByIDs returns the users that exist among ids
	FindByIDs(ctx context.Context, ids []string) ([]*User, error)

	// FindByEmail Find user by email (business uniqueness constraint)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindBySpecification Find users by specification
	FindBySpecification(ctx context.Context, spec shared.Specification[*User]) ([]*User, error)
}
