package memory

import (
	"context"
	"sort"

	"marketplace/domain/review"
	"marketplace/domain/shared"
)

// ReviewRepository In-memory implementation of review.Repository
type ReviewRepository struct {
	store *Store
}

func NewReviewRepository(store *Store) *ReviewRepository {
	return &ReviewRepository{store: store}
}

// Save enforces the (product, user) unique key the SQL schema declares.
func (r *ReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	dto := rv.ToDTO()
	expected := rv.Version()
	isNew := rv.IsNew()

	err := r.store.write(ctx, func(s *Store) (func(), error) {
		prev, exists := s.reviews[dto.ID]
		if isNew {
			for _, other := range s.reviews {
				if other.ProductID == dto.ProductID && other.UserID == dto.UserID {
					return nil, review.NewAlreadyReviewedError(dto.ProductID)
				}
			}
		} else {
			if !exists {
				return nil, review.NewReviewNotFoundError(dto.ID)
			}
			if prev.Version != expected {
				return nil, shared.NewConcurrentModificationError("review", dto.ID)
			}
		}
		next := dto
		next.Version = expected + 1
		s.reviews[dto.ID] = next
		return func() {
			if exists {
				s.reviews[dto.ID] = prev
			} else {
				delete(s.reviews, dto.ID)
			}
		}, nil
	})
	if err != nil {
		return err
	}

	rv.IncrementVersionForSave()
	rv.MarkPersisted()
	return nil
}

func (r *ReviewRepository) FindByID(_ context.Context, id string) (*review.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, ok := r.store.reviews[id]
	if !ok {
		return nil, review.NewReviewNotFoundError(id)
	}
	return review.RebuildFromDTO(dto), nil
}

func (r *ReviewRepository) FindByProductAndUser(_ context.Context, productID, userID string) (*review.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, dto := range r.store.reviews {
		if dto.ProductID == productID && dto.UserID == userID {
			return review.RebuildFromDTO(dto), nil
		}
	}
	return nil, review.NewReviewNotFoundError(productID + "/" + userID)
}

func (r *ReviewRepository) ListByProduct(_ context.Context, productID string) ([]*review.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*review.Review
	for _, dto := range r.store.reviews {
		if dto.ProductID == productID {
			out = append(out, review.RebuildFromDTO(dto))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].ID() > out[j].ID()
		}
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(s *Store) (func(), error) {
		prev, exists := s.reviews[id]
		if !exists {
			return nil, review.NewReviewNotFoundError(id)
		}
		delete(s.reviews, id)
		return func() { s.reviews[id] = prev }, nil
	})
}

func (r *ReviewRepository) Stats(_ context.Context, productID string) (review.RatingStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var ratings []int
	for _, dto := range r.store.reviews {
		if dto.ProductID == productID {
			ratings = append(ratings, dto.Rating)
		}
	}
	return review.Calculate(ratings), nil
}

var _ review.Repository = (*ReviewRepository)(nil)
