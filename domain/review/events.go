package review

import "marketplace/domain/shared"

const (
	EventReviewCreated = "review.created"
	EventReviewUpdated = "review.updated"
	EventReviewDeleted = "review.deleted"
)

// ProductEvent is implemented by every review event; rating recalculation only needs the product.
type ProductEvent interface {
	shared.DomainEvent
	ProductID() string
}

type ReviewCreatedEvent struct {
	shared.BaseEvent
	productID string
	userID    string
	rating    int
}

func NewReviewCreatedEvent(reviewID, productID, userID string, rating int) *ReviewCreatedEvent {
	return &ReviewCreatedEvent{BaseEvent: shared.NewBaseEvent(reviewID), productID: productID, userID: userID, rating: rating}
}

func (e *ReviewCreatedEvent) EventName() string { return EventReviewCreated }
func (e *ReviewCreatedEvent) ReviewID() string  { return e.GetAggregateID() }
func (e *ReviewCreatedEvent) ProductID() string { return e.productID }
func (e *ReviewCreatedEvent) UserID() string    { return e.userID }
func (e *ReviewCreatedEvent) Rating() int       { return e.rating }

func (e *ReviewCreatedEvent) Payload() map[string]any {
	return map[string]any{"review_id": e.ReviewID(), "product_id": e.productID, "user_id": e.userID, "rating": e.rating}
}

type ReviewUpdatedEvent struct {
	shared.BaseEvent
	productID string
	userID    string
	rating    int
}

func NewReviewUpdatedEvent(reviewID, productID, userID string, rating int) *ReviewUpdatedEvent {
	return &ReviewUpdatedEvent{BaseEvent: shared.NewBaseEvent(reviewID), productID: productID, userID: userID, rating: rating}
}

func (e *ReviewUpdatedEvent) EventName() string { return EventReviewUpdated }
func (e *ReviewUpdatedEvent) ReviewID() string  { return e.GetAggregateID() }
func (e *ReviewUpdatedEvent) ProductID() string { return e.productID }
func (e *ReviewUpdatedEvent) Rating() int       { return e.rating }

func (e *ReviewUpdatedEvent) Payload() map[string]any {
	return map[string]any{"review_id": e.ReviewID(), "product_id": e.productID, "user_id": e.userID, "rating": e.rating}
}

type ReviewDeletedEvent struct {
	shared.BaseEvent
	productID string
	userID    string
}

func NewReviewDeletedEvent(reviewID, productID, userID string) *ReviewDeletedEvent {
	return &ReviewDeletedEvent{BaseEvent: shared.NewBaseEvent(reviewID), productID: productID, userID: userID}
}

func (e *ReviewDeletedEvent) EventName() string { return EventReviewDeleted }
func (e *ReviewDeletedEvent) ReviewID() string  { return e.GetAggregateID() }
func (e *ReviewDeletedEvent) ProductID() string { return e.productID }

func (e *ReviewDeletedEvent) Payload() map[string]any {
	return map[string]any{"review_id": e.ReviewID(), "product_id": e.productID, "user_id": e.userID}
}
