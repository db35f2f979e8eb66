package mysql

import (
	"context"

	"marketplace/domain/payout"
	"marketplace/domain/shared"
	"marketplace/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

type PayoutRepository struct {
	base
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{base{db: db}}
}

// Save inserts the payout and its order links. A second payout for an order violates the
// payout_orders unique index and surfaces as a conflict.
func (r *PayoutRepository) Save(ctx context.Context, p *payout.Payout) error {
	payoutPO, links := po.FromPayoutDomain(p)
	return r.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(payoutPO).Error; err != nil {
			return err
		}
		if err := tx.Create(&links).Error; err != nil {
			if isDuplicateKeyError(err) {
				return shared.NewConflictError("payout", "order already settled by another payout")
			}
			return err
		}
		return nil
	})
}

func (r *PayoutRepository) FindByID(ctx context.Context, id string) (*payout.Payout, error) {
	db := r.getDB(ctx)
	var payoutPO po.PayoutPO
	if err := db.First(&payoutPO, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, &shared.DomainError{Err: payout.ErrPayoutNotFound, Entity: "payout", Message: "payout not found: " + id}
		}
		return nil, err
	}
	payouts, err := r.hydrate(db, []po.PayoutPO{payoutPO})
	if err != nil {
		return nil, err
	}
	return payouts[0], nil
}

func (r *PayoutRepository) List(ctx context.Context, artisanID string) ([]*payout.Payout, error) {
	db := r.getDB(ctx)
	query := db.Model(&po.PayoutPO{})
	if artisanID != "" {
		query = query.Where("artisan_id = ?", artisanID)
	}
	var payoutPOs []po.PayoutPO
	if err := query.Order("created_at DESC, id DESC").Find(&payoutPOs).Error; err != nil {
		return nil, err
	}
	return r.hydrate(db, payoutPOs)
}

func (r *PayoutRepository) hydrate(db *gorm.DB, payoutPOs []po.PayoutPO) ([]*payout.Payout, error) {
	if len(payoutPOs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(payoutPOs))
	for i, p := range payoutPOs {
		ids[i] = p.ID
	}
	var links []po.PayoutOrderPO
	if err := db.Where("payout_id IN ?", ids).Order("payout_id, order_id").Find(&links).Error; err != nil {
		return nil, err
	}
	byPayout := make(map[string][]po.PayoutOrderPO, len(ids))
	for _, l := range links {
		byPayout[l.PayoutID] = append(byPayout[l.PayoutID], l)
	}

	payouts := make([]*payout.Payout, len(payoutPOs))
	for i := range payoutPOs {
		payouts[i] = payoutPOs[i].ToDomain(byPayout[payoutPOs[i].ID])
	}
	return payouts, nil
}

var _ payout.Repository = (*PayoutRepository)(nil)
