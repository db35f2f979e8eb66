package po

import (
	"time"

	"marketplace/domain/payout"

	"github.com/shopspring/decimal"
)

type PayoutPO struct {
	ID                   string          `gorm:"primaryKey;size:64"`
	AdminID              string          `gorm:"size:64;not null"`
	ArtisanID            string          `gorm:"size:64;index;not null"`
	Amount               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency             string          `gorm:"size:3;not null"`
	Status               string          `gorm:"size:20;not null"`
	TransactionReference string          `gorm:"size:128"`
	CreatedAt            time.Time       `gorm:"autoCreateTime;index"`
}

func (PayoutPO) TableName() string {
	return "payouts"
}

// PayoutOrderPO links a payout to the orders it settled. An order is settled at most once.
type PayoutOrderPO struct {
	PayoutID string `gorm:"primaryKey;size:64"`
	OrderID  string `gorm:"primaryKey;size:64;uniqueIndex"`
}

func (PayoutOrderPO) TableName() string {
	return "payout_orders"
}

func FromPayoutDomain(p *payout.Payout) (*PayoutPO, []PayoutOrderPO) {
	links := make([]PayoutOrderPO, 0, len(p.OrderIDs()))
	for _, id := range p.OrderIDs() {
		links = append(links, PayoutOrderPO{PayoutID: p.ID(), OrderID: id})
	}
	return &PayoutPO{
		ID:                   p.ID(),
		AdminID:              p.AdminID(),
		ArtisanID:            p.ArtisanID(),
		Amount:               p.Amount(),
		Currency:             p.Currency(),
		Status:               string(p.Status()),
		TransactionReference: p.TransactionReference(),
		CreatedAt:            p.CreatedAt(),
	}, links
}

func (po *PayoutPO) ToDomain(links []PayoutOrderPO) *payout.Payout {
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.OrderID
	}
	return payout.RebuildFromDTO(payout.ReconstructionDTO{
		ID:                   po.ID,
		AdminID:              po.AdminID,
		ArtisanID:            po.ArtisanID,
		OrderIDs:             ids,
		Amount:               po.Amount,
		Currency:             po.Currency,
		Status:               payout.Status(po.Status),
		TransactionReference: po.TransactionReference,
		CreatedAt:            po.CreatedAt,
	})
}
