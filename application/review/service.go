/*
Package review Application Layer - product reviews and rating aggregation

Review writes commit first; the product's ratingsQuantity and ratingsAverage are then recomputed from
scratch by the RatingRecalculator subscriber, so they always reflect the stored reviews.
*/
package review

import (
	"context"
	"errors"

	"marketplace/domain/product"
	"marketplace/domain/review"
	"marketplace/domain/shared"
)

// ApplicationService Review application service
type ApplicationService struct {
	reviewRepo  review.Repository
	productRepo product.Repository
	verifier    review.PurchaseVerifier
	uowFactory  shared.UnitOfWorkFactory
}

// NewApplicationService Create review application service
func NewApplicationService(
	reviewRepo review.Repository,
	productRepo product.Repository,
	verifier review.PurchaseVerifier,
	uowFactory shared.UnitOfWorkFactory,
) *ApplicationService {
	return &ApplicationService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		verifier:    verifier,
		uowFactory:  uowFactory,
	}
}

// Create stores a review by a customer holding a delivered order with the product.
// A second review of the same product by the same user is a conflict.
func (s *ApplicationService) Create(ctx context.Context, userID, productID string, req CreateReviewRequest) (*ReviewResponse, error) {
	if err := shared.ValidateID("review", "productId", productID); err != nil {
		return nil, err
	}

	var r *review.Review
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
			return err
		}
		if _, err := s.reviewRepo.FindByProductAndUser(ctx, productID, userID); err == nil {
			return review.NewAlreadyReviewedError(productID)
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		delivered, err := s.verifier.HasDeliveredPurchase(ctx, userID, productID)
		if err != nil {
			return err
		}
		if !delivered {
			return review.NewNoDeliveredOrderError(productID)
		}

		r, err = review.NewReview(productID, userID, req.Rating, req.Comment)
		if err != nil {
			return err
		}
		if err := s.reviewRepo.Save(ctx, r); err != nil {
			return err
		}
		uow.RegisterNew(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toReviewResponse(r), nil
}

// Update changes the author's own review.
func (s *ApplicationService) Update(ctx context.Context, userID, reviewID string, req UpdateReviewRequest) (*ReviewResponse, error) {
	if err := shared.ValidateID("review", "reviewId", reviewID); err != nil {
		return nil, err
	}

	var r *review.Review
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		loaded, err := s.reviewRepo.FindByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if err := loaded.Update(userID, req.Rating, req.Comment); err != nil {
			return err
		}
		if err := s.reviewRepo.Save(ctx, loaded); err != nil {
			return err
		}
		uow.RegisterDirty(loaded)
		r = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toReviewResponse(r), nil
}

// Delete removes a review. Its author or an admin may do so.
func (s *ApplicationService) Delete(ctx context.Context, actorID, reviewID string, isAdmin bool) error {
	if err := shared.ValidateID("review", "reviewId", reviewID); err != nil {
		return err
	}

	uow := s.uowFactory.New()
	return uow.Execute(ctx, func(ctx context.Context) error {
		r, err := s.reviewRepo.FindByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if err := r.Delete(actorID, isAdmin); err != nil {
			return err
		}
		if err := s.reviewRepo.Delete(ctx, r.ID()); err != nil {
			return err
		}
		uow.RegisterRemoved(r)
		return nil
	})
}

// ListByProduct returns a product's reviews, newest first.
func (s *ApplicationService) ListByProduct(ctx context.Context, productID string) ([]*ReviewResponse, error) {
	if err := shared.ValidateID("review", "productId", productID); err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]*ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = toReviewResponse(r)
	}
	return out, nil
}

// Recalculate recounts the product's ratings from its stored reviews.
// No reviews resets both fields to zero.
func (s *ApplicationService) Recalculate(ctx context.Context, productID string) error {
	uow := s.uowFactory.New()
	return uow.Execute(ctx, func(ctx context.Context) error {
		stats, err := s.reviewRepo.Stats(ctx, productID)
		if err != nil {
			return err
		}
		p, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		p.ApplyRatings(stats.Quantity, stats.Average)
		if err := s.productRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterDirty(p)
		return nil
	})
}

func toReviewResponse(r *review.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:        r.ID(),
		ProductID: r.ProductID(),
		UserID:    r.UserID(),
		Rating:    r.Rating(),
		Comment:   r.Comment(),
		CreatedAt: r.CreatedAt(),
		UpdatedAt: r.UpdatedAt(),
	}
}
