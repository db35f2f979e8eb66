package review

import (
	"context"
	"fmt"

	"marketplace/domain/review"
	"marketplace/domain/shared"
)

// RatingRecalculator keeps product ratings in step with committed review changes.
type RatingRecalculator struct {
	service *ApplicationService
}

func NewRatingRecalculator(service *ApplicationService) *RatingRecalculator {
	return &RatingRecalculator{service: service}
}

func (h *RatingRecalculator) Name() string { return "review.rating_recalculator" }

func (h *RatingRecalculator) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(review.ProductEvent)
	if !ok {
		return fmt.Errorf("rating recalculator: unexpected event %s", event.EventName())
	}
	return h.service.Recalculate(ctx, e.ProductID())
}

// Subscribe registers the recalculator for every review event.
func (h *RatingRecalculator) Subscribe(bus *shared.EventBus) error {
	for _, name := range []string{review.EventReviewCreated, review.EventReviewUpdated, review.EventReviewDeleted} {
		if err := bus.Subscribe(name, h); err != nil {
			return err
		}
	}
	return nil
}
