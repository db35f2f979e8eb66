package po

import (
	"testing"

	"marketplace/domain/order"
	"marketplace/domain/shared"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromOrderDomain_AppendsOnlyNewHistory(t *testing.T) {
	artisan := shared.NewID()
	o, err := order.NewOrder(shared.NewID(), "1 Market Road", []order.ItemRequest{
		{ProductID: shared.NewID(), ArtisanID: artisan, Name: "Shawl", Price: decimal.RequireFromString("1250.50"), Quantity: 1},
	})
	require.NoError(t, err)

	orderPO, items, history := FromOrderDomain(o)
	assert.Equal(t, "paid", orderPO.Status)
	assert.Equal(t, "pending", orderPO.PayoutStatus)
	require.Len(t, items, 1)
	assert.Equal(t, artisan, items[0].ArtisanID)
	assert.Empty(t, history)

	o.ClearDirtyTracking()
	stored := order.RebuildFromDTO(o.ToDTO())
	require.NoError(t, stored.Transition(artisan, order.StatusProcessing, order.TransitionDetails{}, nil))
	require.NoError(t, stored.Transition(artisan, order.StatusShipped, order.TransitionDetails{Carrier: "BlueDart", TrackingNumber: "BD123"}, nil))

	_, items, history = FromOrderDomain(stored)
	assert.Empty(t, items, "items are written once, at placement")
	require.Len(t, history, 2)
	assert.Equal(t, "processing", history[0].Status)
	assert.Equal(t, 1, history[0].Seq)
	assert.Equal(t, "shipped", history[1].Status)
	assert.Equal(t, 2, history[1].Seq)
	assert.Equal(t, "Shipped via BlueDart, tracking number BD123", history[1].Details)
}

func TestOrderPO_ToDomainRoundTrip(t *testing.T) {
	artisan := shared.NewID()
	o, err := order.NewOrder(shared.NewID(), "1 Market Road", []order.ItemRequest{
		{ProductID: shared.NewID(), ArtisanID: artisan, Name: "Shawl", Price: decimal.NewFromInt(300), Quantity: 2},
	})
	require.NoError(t, err)
	require.NoError(t, o.Transition(artisan, order.StatusPacked, order.TransitionDetails{}, nil))

	orderPO, items, history := FromOrderDomain(o)
	// history is read back seq DESC
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	rebuilt := orderPO.ToDomain(items, history)

	assert.Equal(t, o.ID(), rebuilt.ID())
	assert.True(t, o.TotalAmount().Equal(rebuilt.TotalAmount()))
	assert.Equal(t, order.StatusPacked, rebuilt.Status())
	require.Len(t, rebuilt.History(), 1)
	assert.Equal(t, order.StatusPacked, rebuilt.History()[0].Status())
}
