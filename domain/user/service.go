/*
Domain Service

Domain services handle business logic that doesn't fit well in single entities.
Core principle: Domain service only reads, does not write
*/
package user

import (
	"context"
	"errors"

	"marketplace/domain/shared"
)

// DomainService User domain service - handles user-related business logic
type DomainService struct {
	userRepository Repository
}

// NewDomainService Create user domain service
func NewDomainService(userRepo Repository) *DomainService {
	return &DomainService{
		userRepository: userRepo,
	}
}

// RequireActiveArtisan loads an artisan who may list products or receive orders.
func (s *DomainService) RequireActiveArtisan(ctx context.Context, userID string) (*User, error) {
	u, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive() {
		return nil, NewUserNotActiveError(userID)
	}
	if !u.HasRole(shared.RoleArtisan) {
		return nil, NewNotArtisanError(userID)
	}
	return u, nil
}

// EnsureEmailAvailable rejects an email already held by another user.
func (s *DomainService) EnsureEmailAvailable(ctx context.Context, email, userID string) error {
	existing, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID() != userID {
		return NewEmailAlreadyExistsError(email)
	}
	return nil
}
