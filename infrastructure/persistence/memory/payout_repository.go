package memory

import (
	"context"
	"sort"

	"marketplace/domain/payout"
	"marketplace/domain/shared"
)

// PayoutRepository In-memory implementation of payout.Repository
type PayoutRepository struct {
	store *Store
}

func NewPayoutRepository(store *Store) *PayoutRepository {
	return &PayoutRepository{store: store}
}

// Save inserts; payouts are never updated.
func (r *PayoutRepository) Save(ctx context.Context, p *payout.Payout) error {
	dto := p.ToDTO()
	return r.store.write(ctx, func(s *Store) (func(), error) {
		if _, exists := s.payouts[dto.ID]; exists {
			return nil, shared.NewConflictError("payout", "payout is immutable: "+dto.ID)
		}
		s.payouts[dto.ID] = dto
		return func() { delete(s.payouts, dto.ID) }, nil
	})
}

func (r *PayoutRepository) FindByID(_ context.Context, id string) (*payout.Payout, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, ok := r.store.payouts[id]
	if !ok {
		return nil, &shared.DomainError{Err: payout.ErrPayoutNotFound, Entity: "payout", Message: "payout not found: " + id}
	}
	return payout.RebuildFromDTO(dto), nil
}

func (r *PayoutRepository) List(_ context.Context, artisanID string) ([]*payout.Payout, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*payout.Payout
	for _, dto := range r.store.payouts {
		if artisanID != "" && dto.ArtisanID != artisanID {
			continue
		}
		out = append(out, payout.RebuildFromDTO(dto))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].ID() > out[j].ID()
		}
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

var _ payout.Repository = (*PayoutRepository)(nil)
