package order

import (
	"context"

	"marketplace/domain/shared"
)

// ByCustomerSpecification filters orders by owning customer
type ByCustomerSpecification struct {
	CustomerID string
}

func (spec ByCustomerSpecification) IsSatisfiedBy(_ context.Context, entity *Order) bool {
	return entity.CustomerID() == spec.CustomerID
}

// ByArtisanSpecification matches orders containing at least one of the artisan's items
type ByArtisanSpecification struct {
	ArtisanID string
}

func (spec ByArtisanSpecification) IsSatisfiedBy(_ context.Context, entity *Order) bool {
	return entity.HasArtisan(spec.ArtisanID)
}

// ByStatusSpecification filters orders by status
type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(_ context.Context, entity *Order) bool {
	return entity.Status() == spec.Status
}

// ByPayoutStatusSpecification filters orders by payout status
type ByPayoutStatusSpecification struct {
	PayoutStatus PayoutStatus
}

func (spec ByPayoutStatusSpecification) IsSatisfiedBy(_ context.Context, entity *Order) bool {
	return entity.PayoutStatus() == spec.PayoutStatus
}

// ContainsProductSpecification matches orders in which the product was purchased
type ContainsProductSpecification struct {
	ProductID string
}

func (spec ContainsProductSpecification) IsSatisfiedBy(_ context.Context, entity *Order) bool {
	return entity.ContainsProduct(spec.ProductID)
}

// AwaitingPayout is the payout aggregator's qualifying filter: delivered and not yet paid out.
func AwaitingPayout() shared.Specification[*Order] {
	return shared.And[*Order](
		ByStatusSpecification{Status: StatusDelivered},
		ByPayoutStatusSpecification{PayoutStatus: PayoutPending},
	)
}

// DeliveredPurchase matches a customer's delivered orders containing productID, the review precondition.
func DeliveredPurchase(customerID, productID string) shared.Specification[*Order] {
	return shared.And[*Order](
		ByCustomerSpecification{CustomerID: customerID},
		ByStatusSpecification{Status: StatusDelivered},
		ContainsProductSpecification{ProductID: productID},
	)
}
