package review

import "context"

// Repository Review repository interface
type Repository interface {
	// Save inserts or compare-and-swaps a review. A second review for the same
	// (product, user) pair returns ErrAlreadyReviewed.
	Save(ctx context.Context, review *Review) error

	FindByID(ctx context.Context, id string) (*Review, error)

	// FindByProductAndUser returns ErrReviewNotFound when the user has not reviewed the product.
	FindByProductAndUser(ctx context.Context, productID, userID string) (*Review, error)

	// ListByProduct returns a product's reviews, newest first.
	ListByProduct(ctx context.Context, productID string) ([]*Review, error)

	// Delete hard-deletes a review.
	Delete(ctx context.Context, id string) error

	// Stats recounts quantity and mean rating over the product's current reviews.
	Stats(ctx context.Context, productID string) (RatingStats, error)
}

// PurchaseVerifier answers the review precondition without coupling to the order subdomain.
type PurchaseVerifier interface {
	HasDeliveredPurchase(ctx context.Context, customerID, productID string) (bool, error)
}
