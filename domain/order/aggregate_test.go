package order

import (
	"errors"
	"testing"

	"marketplace/domain/shared"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(artisanID string, price int64, qty int) ItemRequest {
	return ItemRequest{
		ProductID: shared.NewID(),
		ArtisanID: artisanID,
		Name:      "Block-printed scarf",
		Price:     decimal.NewFromInt(price),
		Quantity:  qty,
	}
}

func TestNewOrder(t *testing.T) {
	a, b := shared.NewID(), shared.NewID()

	t.Run("computes total and starts paid", func(t *testing.T) {
		o, err := NewOrder(shared.NewID(), " 12 Loom Street ", []ItemRequest{item(a, 300, 2), item(b, 150, 1), item(a, 50, 1)})
		require.NoError(t, err)

		assert.True(t, decimal.NewFromInt(800).Equal(o.TotalAmount()))
		assert.Equal(t, StatusPaid, o.Status())
		assert.Equal(t, PayoutPending, o.PayoutStatus())
		assert.Equal(t, "12 Loom Street", o.ShippingAddress())
		assert.Empty(t, o.History())
		assert.Equal(t, []string{a, b}, o.ArtisanIDs())
		assert.True(t, decimal.NewFromInt(650).Equal(o.SalesFor(a)))

		events := o.PullEvents()
		require.Len(t, events, 1)
		placed, ok := events[0].(*OrderPlacedEvent)
		require.True(t, ok)
		assert.Equal(t, []string{a, b}, placed.ArtisanIDs())
	})

	tests := []struct {
		name  string
		items []ItemRequest
		want  error
	}{
		{"no items", nil, ErrEmptyOrderItems},
		{"zero quantity", []ItemRequest{item(a, 100, 0)}, ErrInvalidQuantity},
		{"negative price", []ItemRequest{item(a, -1, 1)}, ErrInvalidPrice},
		{"missing artisan", []ItemRequest{item("", 100, 1)}, ErrMissingArtisan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(shared.NewID(), "addr", tt.items)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		})
	}
}

func TestOrder_Transition(t *testing.T) {
	artisan := shared.NewID()
	newOrder := func(t *testing.T) *Order {
		o, err := NewOrder(shared.NewID(), "addr", []ItemRequest{item(artisan, 100, 1)})
		require.NoError(t, err)
		o.PullEvents()
		return o
	}

	t.Run("prepends history with rendered details", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Transition(artisan, StatusProcessing, TransitionDetails{}, nil))
		require.NoError(t, o.Transition(artisan, StatusShipped, TransitionDetails{Carrier: "India Post", TrackingNumber: "EE123"}, nil))

		history := o.History()
		require.Len(t, history, 2)
		assert.Equal(t, StatusShipped, history[0].Status())
		assert.Equal(t, "Shipped via India Post, tracking number EE123", history[0].Details())
		assert.Equal(t, StatusProcessing, history[1].Status())
		assert.Empty(t, history[1].Details())

		events := o.PullEvents()
		require.Len(t, events, 2)
		changed := events[1].(*OrderStatusChangedEvent)
		assert.Equal(t, StatusProcessing, changed.From())
		assert.Equal(t, StatusShipped, changed.To())
	})

	t.Run("cancel reason is kept", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Transition(artisan, StatusCancelled, TransitionDetails{Reason: "out of clay"}, nil))
		assert.Equal(t, "Reason: out of clay", o.History()[0].Details())
	})

	t.Run("foreign seller is forbidden", func(t *testing.T) {
		o := newOrder(t)
		err := o.Transition(shared.NewID(), StatusProcessing, TransitionDetails{}, nil)
		assert.True(t, errors.Is(err, ErrNotOrderSeller))
		assert.True(t, errors.Is(err, shared.ErrForbidden))
		assert.Equal(t, StatusPaid, o.Status())
	})

	t.Run("paid cannot be set by a seller", func(t *testing.T) {
		o := newOrder(t)
		err := o.Transition(artisan, StatusPaid, TransitionDetails{}, nil)
		assert.True(t, errors.Is(err, ErrInvalidStatus))
	})

	t.Run("unconstrained allows skips and reversals", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Transition(artisan, StatusDelivered, TransitionDetails{}, Unconstrained{}))
		require.NoError(t, o.Transition(artisan, StatusProcessing, TransitionDetails{}, Unconstrained{}))
		assert.Equal(t, StatusProcessing, o.Status())
	})

	t.Run("strict table rejects skips", func(t *testing.T) {
		o := newOrder(t)
		policy := PolicyFor(true)
		err := o.Transition(artisan, StatusDelivered, TransitionDetails{}, policy)
		assert.True(t, errors.Is(err, shared.ErrInvalidStateTransition))
		assert.Empty(t, o.History())

		require.NoError(t, o.Transition(artisan, StatusProcessing, TransitionDetails{}, policy))
		require.NoError(t, o.Transition(artisan, StatusShipped, TransitionDetails{}, policy))
		require.NoError(t, o.Transition(artisan, StatusDelivered, TransitionDetails{}, policy))
		err = o.Transition(artisan, StatusCancelled, TransitionDetails{}, policy)
		assert.True(t, errors.Is(err, shared.ErrInvalidStateTransition), "delivered is terminal")
	})
}

func TestOrder_Payout(t *testing.T) {
	artisan := shared.NewID()
	o, err := NewOrder(shared.NewID(), "addr", []ItemRequest{item(artisan, 100, 1)})
	require.NoError(t, err)

	assert.True(t, errors.Is(o.CanBePaidOut(), ErrNotDelivered))
	assert.True(t, errors.Is(o.MarkPaidOut(shared.NewID()), ErrNotDelivered))

	require.NoError(t, o.Transition(artisan, StatusDelivered, TransitionDetails{}, nil))
	assert.True(t, errors.Is(o.MarkPaidOut(" "), ErrMissingPayoutRef))

	payoutID := shared.NewID()
	require.NoError(t, o.MarkPaidOut(payoutID))
	assert.Equal(t, PayoutPaid, o.PayoutStatus())
	assert.Equal(t, payoutID, o.PayoutID())

	err = o.MarkPaidOut(shared.NewID())
	assert.True(t, errors.Is(err, ErrAlreadyPaidOut))
	assert.True(t, errors.Is(err, shared.ErrConflict))
	assert.Equal(t, payoutID, o.PayoutID())
}

func TestOrder_IsVisibleTo(t *testing.T) {
	customer, artisan := shared.NewID(), shared.NewID()
	o, err := NewOrder(customer, "addr", []ItemRequest{item(artisan, 100, 1)})
	require.NoError(t, err)

	assert.True(t, o.IsVisibleTo(customer))
	assert.True(t, o.IsVisibleTo(artisan))
	assert.False(t, o.IsVisibleTo(shared.NewID()))
	assert.False(t, o.IsVisibleTo(""))
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	for _, bad := range []string{"paid", "", "lost", "SHIPPED", " shipped ", "Shipped"} {
		_, err := ParseStatus(bad)
		assert.True(t, errors.Is(err, ErrInvalidStatus), bad)
	}
}
