/*
Package payout Application Layer - artisan settlement

The summary is a read-only projection over delivered, unsettled orders. Recording a payout writes the
payout and flips every listed order to paid in one transaction; the artisan is told afterwards by an
event subscriber, so a failed notification never undoes the settlement.
*/
package payout

import (
	"context"
	"fmt"

	"marketplace/domain/order"
	"marketplace/domain/payout"
	"marketplace/domain/shared"
	"marketplace/domain/user"

	"github.com/shopspring/decimal"
)

// ApplicationService Payout application service
type ApplicationService struct {
	orderRepo          order.Repository
	userRepo           user.Repository
	payoutRepo         payout.Repository
	orderDomainService *order.DomainService
	calculator         *payout.SummaryCalculator
	currency           string
	uowFactory         shared.UnitOfWorkFactory
}

// NewApplicationService Create payout application service
func NewApplicationService(
	orderRepo order.Repository,
	userRepo user.Repository,
	payoutRepo payout.Repository,
	uowFactory shared.UnitOfWorkFactory,
	commissionRate decimal.Decimal,
	currency string,
) *ApplicationService {
	return &ApplicationService{
		orderRepo:          orderRepo,
		userRepo:           userRepo,
		payoutRepo:         payoutRepo,
		orderDomainService: order.NewDomainService(orderRepo),
		calculator:         payout.NewSummaryCalculator(commissionRate),
		currency:           currency,
		uowFactory:         uowFactory,
	}
}

// Summary groups every delivered, unsettled order by artisan. Calling it twice without writes in
// between returns the same rows.
func (s *ApplicationService) Summary(ctx context.Context) (*SummaryResponse, error) {
	orders, err := s.orderRepo.FindAwaitingPayout(ctx)
	if err != nil {
		return nil, err
	}

	artisanIDs := make([]string, 0)
	seen := make(map[string]struct{})
	for _, o := range orders {
		for _, id := range o.ArtisanIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			artisanIDs = append(artisanIDs, id)
		}
	}

	artisans := make(map[string]*user.User, len(artisanIDs))
	if len(artisanIDs) > 0 {
		found, err := s.userRepo.FindByIDs(ctx, artisanIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range found {
			artisans[u.ID()] = u
		}
	}

	return &SummaryResponse{
		CommissionRate: s.calculator.CommissionRate(),
		Currency:       s.currency,
		Rows:           toSummaryRows(s.calculator.Compute(orders, artisans)),
	}, nil
}

// RecordPayout stores a completed payout and marks every listed order paid under its id.
// Orders that are not delivered, already paid out or hold none of the artisan's items reject the
// whole batch.
func (s *ApplicationService) RecordPayout(ctx context.Context, adminID string, req RecordPayoutRequest) (*PayoutResponse, error) {
	if err := shared.ValidateID("payout", "artisanId", req.ArtisanID); err != nil {
		return nil, err
	}
	orderIDs := payout.DedupeIDs(req.OrderIDs)
	for _, id := range orderIDs {
		if err := shared.ValidateID("payout", "orderIds", id); err != nil {
			return nil, err
		}
	}
	opts := payout.RecordOptions{
		AdminID:              adminID,
		ArtisanID:            req.ArtisanID,
		Amount:               req.Amount,
		Currency:             s.currency,
		OrderIDs:             orderIDs,
		TransactionReference: req.TransactionReference,
	}

	var recorded *payout.Payout
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		p, err := payout.NewCompletedPayout(opts)
		if err != nil {
			return err
		}

		artisan, err := s.userRepo.FindByID(ctx, req.ArtisanID)
		if err != nil {
			return err
		}
		if err := artisan.CanReceivePayout(); err != nil {
			return err
		}

		orders, err := s.orderDomainService.LoadForPayout(ctx, p.OrderIDs())
		if err != nil {
			return err
		}
		for _, o := range orders {
			if !o.HasArtisan(req.ArtisanID) {
				return shared.NewValidationError("payout", "orderIds",
					fmt.Sprintf("order %s has no items from artisan %s", o.ID(), req.ArtisanID))
			}
		}

		if err := s.payoutRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterNew(p)

		for _, o := range orders {
			if err := o.MarkPaidOut(p.ID()); err != nil {
				return err
			}
			if err := s.orderRepo.Save(ctx, o); err != nil {
				return err
			}
			uow.RegisterDirty(o)
		}
		recorded = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPayoutResponse(recorded), nil
}

// History lists recorded payouts newest first. An empty artisanID lists every artisan's payouts.
func (s *ApplicationService) History(ctx context.Context, artisanID string) ([]*PayoutResponse, error) {
	payouts, err := s.payoutRepo.List(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	out := make([]*PayoutResponse, len(payouts))
	for i, p := range payouts {
		out[i] = toPayoutResponse(p)
	}
	return out, nil
}
