package review

import (
	"fmt"

	"marketplace/domain/shared"
)

var (
	ErrReviewNotFound   = fmt.Errorf("review %w", shared.ErrNotFound)
	ErrAlreadyReviewed  = fmt.Errorf("%w: you have already reviewed this product", shared.ErrConflict)
	ErrNotReviewAuthor  = fmt.Errorf("%w: only the author can change this review", shared.ErrForbidden)
	ErrNoDeliveredOrder = fmt.Errorf("%w: a delivered order containing this product is required", shared.ErrForbidden)
)

func NewReviewNotFoundError(reviewID string) error {
	return &reviewDomainError{sentinel: ErrReviewNotFound, message: "review not found: " + reviewID, stack: shared.CaptureStack(3)}
}

func NewAlreadyReviewedError(productID string) error {
	return &reviewDomainError{
		sentinel: ErrAlreadyReviewed,
		message:  "you have already reviewed product " + productID,
		stack:    shared.CaptureStack(3),
	}
}

func NewNotReviewAuthorError(reviewID string) error {
	return &reviewDomainError{
		sentinel: ErrNotReviewAuthor,
		message:  "only the author can change review " + reviewID,
		stack:    shared.CaptureStack(3),
	}
}

func NewNoDeliveredOrderError(productID string) error {
	return &reviewDomainError{
		sentinel: ErrNoDeliveredOrder,
		message:  "a delivered order containing product " + productID + " is required to review it",
		stack:    shared.CaptureStack(3),
	}
}

type reviewDomainError struct {
	sentinel error
	message  string
	stack    []uintptr
}

func (e *reviewDomainError) Error() string   { return e.message }
func (e *reviewDomainError) Unwrap() error   { return e.sentinel }
func (e *reviewDomainError) Stack() []string { return shared.FormatStack(e.stack) }
