package payout

import (
	"marketplace/domain/shared"

	"github.com/shopspring/decimal"
)

const EventPayoutRecorded = "payout.recorded"

type PayoutRecordedEvent struct {
	shared.BaseEvent
	artisanID string
	amount    decimal.Decimal
	currency  string
	orderIDs  []string
}

func NewPayoutRecordedEvent(payoutID, artisanID string, amount decimal.Decimal, currency string, orderIDs []string) *PayoutRecordedEvent {
	return &PayoutRecordedEvent{
		BaseEvent: shared.NewBaseEvent(payoutID),
		artisanID: artisanID,
		amount:    amount,
		currency:  currency,
		orderIDs:  append([]string(nil), orderIDs...),
	}
}

func (e *PayoutRecordedEvent) EventName() string       { return EventPayoutRecorded }
func (e *PayoutRecordedEvent) PayoutID() string        { return e.GetAggregateID() }
func (e *PayoutRecordedEvent) ArtisanID() string       { return e.artisanID }
func (e *PayoutRecordedEvent) Amount() decimal.Decimal { return e.amount }
func (e *PayoutRecordedEvent) Currency() string        { return e.currency }
func (e *PayoutRecordedEvent) OrderIDs() []string      { return append([]string(nil), e.orderIDs...) }

func (e *PayoutRecordedEvent) Payload() map[string]any {
	return map[string]any{
		"payout_id":  e.PayoutID(),
		"artisan_id": e.artisanID,
		"amount":     e.amount.StringFixed(2),
		"currency":   e.currency,
		"order_ids":  e.OrderIDs(),
	}
}
