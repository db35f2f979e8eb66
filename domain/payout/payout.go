/*
Package payout Payout subdomain

A payout settles a batch of delivered orders for one artisan. Payouts are immutable once recorded.
The summary calculator is a pure function over qualifying orders.
*/
package payout

import (
	"strings"
	"time"

	"marketplace/domain/shared"

	"github.com/shopspring/decimal"
)

// Status Payout status enum
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Payout Payout aggregate root
type Payout struct {
	shared.EventRecorder

	id                   string
	adminID              string
	artisanID            string
	orderIDs             []string
	amount               decimal.Decimal
	currency             string
	status               Status
	transactionReference string
	createdAt            time.Time
}

// RecordOptions Record payout options
type RecordOptions struct {
	AdminID              string
	ArtisanID            string
	Amount               decimal.Decimal
	Currency             string
	OrderIDs             []string
	TransactionReference string
}

// NewCompletedPayout validates the request and creates a completed payout.
// Duplicate order ids are collapsed, keeping first-seen order.
func NewCompletedPayout(opts RecordOptions) (*Payout, error) {
	if strings.TrimSpace(opts.ArtisanID) == "" {
		return nil, shared.NewValidationError("payout", "artisanId", "artisanId is required")
	}
	if strings.TrimSpace(opts.AdminID) == "" {
		return nil, shared.NewValidationError("payout", "adminId", "adminId is required")
	}
	if !opts.Amount.IsPositive() {
		return nil, shared.NewValidationError("payout", "amount", "amount must be positive")
	}
	orderIDs := DedupeIDs(opts.OrderIDs)
	if len(orderIDs) == 0 {
		return nil, shared.NewValidationError("payout", "orderIds", "orderIds must not be empty")
	}

	p := &Payout{
		id:                   shared.NewID(),
		adminID:              opts.AdminID,
		artisanID:            opts.ArtisanID,
		orderIDs:             orderIDs,
		amount:               shared.RoundMoney(opts.Amount),
		currency:             opts.Currency,
		status:               StatusCompleted,
		transactionReference: strings.TrimSpace(opts.TransactionReference),
		createdAt:            time.Now(),
	}
	p.Record(NewPayoutRecordedEvent(p.id, p.artisanID, p.amount, p.currency, p.OrderIDs()))
	return p, nil
}

// DedupeIDs drops blanks and repeats, preserving order.
func DedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (p *Payout) ID() string                   { return p.id }
func (p *Payout) AdminID() string              { return p.adminID }
func (p *Payout) ArtisanID() string            { return p.artisanID }
func (p *Payout) Amount() decimal.Decimal      { return p.amount }
func (p *Payout) Currency() string             { return p.currency }
func (p *Payout) Status() Status               { return p.status }
func (p *Payout) TransactionReference() string { return p.transactionReference }
func (p *Payout) CreatedAt() time.Time         { return p.createdAt }

// Version is always zero: payouts are inserted once and never updated.
func (p *Payout) Version() int { return 0 }

func (p *Payout) OrderIDs() []string { return append([]string(nil), p.orderIDs...) }

// ReconstructionDTO Payout reconstruction data transfer object
type ReconstructionDTO struct {
	ID                   string
	AdminID              string
	ArtisanID            string
	OrderIDs             []string
	Amount               decimal.Decimal
	Currency             string
	Status               Status
	TransactionReference string
	CreatedAt            time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Payout {
	return &Payout{
		id:                   dto.ID,
		adminID:              dto.AdminID,
		artisanID:            dto.ArtisanID,
		orderIDs:             append([]string(nil), dto.OrderIDs...),
		amount:               dto.Amount,
		currency:             dto.Currency,
		status:               dto.Status,
		transactionReference: dto.TransactionReference,
		createdAt:            dto.CreatedAt,
	}
}

func (p *Payout) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:                   p.id,
		AdminID:              p.adminID,
		ArtisanID:            p.artisanID,
		OrderIDs:             p.OrderIDs(),
		Amount:               p.amount,
		Currency:             p.currency,
		Status:               p.status,
		TransactionReference: p.transactionReference,
		CreatedAt:            p.createdAt,
	}
}

var _ shared.AggregateRoot = (*Payout)(nil)
