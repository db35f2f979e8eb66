package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"marketplace/domain/notification"
	"marketplace/domain/order"
	"marketplace/domain/payout"
	"marketplace/domain/product"
	"marketplace/domain/review"
	"marketplace/domain/shared"
	"marketplace/infrastructure/persistence/memory"
	"marketplace/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakePusher struct {
	mu        sync.Mutex
	connected map[string]bool
	pushed    []*notification.Notification
}

func (p *fakePusher) Push(userID string, n *notification.Notification) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected[userID] {
		return false
	}
	p.pushed = append(p.pushed, n)
	return true
}

func newService() (*ApplicationService, *memory.NotificationRepository, *fakePusher) {
	repo := memory.NewNotificationRepository(memory.NewStore())
	pusher := &fakePusher{connected: map[string]bool{}}
	return NewApplicationService(repo, pusher), repo, pusher
}

func TestNotify_PushesOnlyWhenConnected(t *testing.T) {
	ctx := context.Background()
	svc, repo, pusher := newService()
	online, offline := shared.NewID(), shared.NewID()
	pusher.connected[online] = true

	assert.True(t, svc.Notify(ctx, online, "Order shipped", "/orders/1", "customer"))
	assert.False(t, svc.Notify(ctx, offline, "Order shipped", "/orders/2", "customer"))

	require.Len(t, pusher.pushed, 1)
	assert.Equal(t, online, pusher.pushed[0].UserID())

	stored, err := repo.List(ctx, notification.Query{UserID: offline})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].IsRead())
}

func TestNotify_MissingFieldsAreLoggedAndDropped(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer logger.Replace(zap.New(core))()

	ctx := context.Background()
	svc, repo, _ := newService()
	userID := shared.NewID()

	assert.False(t, svc.Notify(ctx, userID, "", "/orders/1", "customer"))
	assert.False(t, svc.Notify(ctx, userID, "hello", "", "customer"))
	assert.False(t, svc.Notify(ctx, userID, "hello", "/x", "superuser"))
	assert.False(t, svc.Notify(ctx, "", "hello", "/x", "customer"))

	assert.Equal(t, 4, logs.FilterMessage("Notification skipped").Len())
	n, err := repo.CountUnread(ctx, userID, "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMarkAsRead_FoldsOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()
	owner := shared.NewID()
	svc.Notify(ctx, owner, "Payout sent", "/artisan/payouts", "artisan")

	list, err := svc.List(ctx, owner, ListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	id := list.Notifications[0].ID

	_, err = svc.MarkAsRead(ctx, id, shared.NewID())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	_, err = svc.MarkAsRead(ctx, shared.NewID(), owner)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	_, err = svc.MarkAsRead(ctx, "nope", owner)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	read, err := svc.MarkAsRead(ctx, id, owner)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
}

func TestMarkAllAsRead_IsRoleScoped(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()
	userID := shared.NewID()
	svc.Notify(ctx, userID, "Order shipped", "/orders/1", "customer")
	svc.Notify(ctx, userID, "Order delivered", "/orders/1", "customer")
	svc.Notify(ctx, userID, "New order", "/artisan/orders", "artisan")

	_, err := svc.MarkAllAsRead(ctx, userID, "superuser")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	changed, err := svc.MarkAllAsRead(ctx, userID, "customer")
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	artisan, err := svc.List(ctx, userID, ListQuery{Role: "artisan"})
	require.NoError(t, err)
	assert.Equal(t, 1, artisan.UnreadCount)
	require.Len(t, artisan.Notifications, 1)
	assert.False(t, artisan.Notifications[0].IsRead)

	all, err := svc.List(ctx, userID, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Notifications, 3)
	assert.Equal(t, 1, all.UnreadCount)

	_, err = svc.List(ctx, userID, ListQuery{Role: "nobody"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestSubscribers(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewNotificationRepository(store)
	products := memory.NewProductRepository(store)
	svc := NewApplicationService(repo, nil)
	bus := shared.NewEventBus()
	require.NoError(t, NewSubscribers(svc, products, "/artisan/payouts").Register(bus))

	customer, artisanA, artisanB := shared.NewID(), shared.NewID(), shared.NewID()
	o, err := order.NewOrder(customer, "1 Loom Street", []order.ItemRequest{
		{ProductID: shared.NewID(), ArtisanID: artisanA, Name: "Rug", Price: decimal.NewFromInt(100), Quantity: 1},
		{ProductID: shared.NewID(), ArtisanID: artisanB, Name: "Lamp", Price: decimal.NewFromInt(50), Quantity: 1},
	})
	require.NoError(t, err)
	require.NoError(t, o.Transition(artisanA, order.StatusShipped, order.TransitionDetails{}, nil))
	for _, e := range o.PullEvents() {
		require.NoError(t, bus.Publish(ctx, e))
	}

	listFor := func(userID string, role shared.Role) []*notification.Notification {
		t.Helper()
		out, err := repo.List(ctx, notification.Query{UserID: userID, Role: role})
		require.NoError(t, err)
		return out
	}

	for _, artisan := range []string{artisanA, artisanB} {
		got := listFor(artisan, shared.RoleArtisan)
		require.Len(t, got, 1)
		assert.Equal(t, "/artisan/orders", got[0].Link())
	}
	got := listFor(customer, shared.RoleCustomer)
	require.Len(t, got, 1)
	assert.Equal(t, "/orders/"+o.ID(), got[0].Link())
	assert.Contains(t, got[0].Message(), "shipped")

	p, err := payout.NewCompletedPayout(payout.RecordOptions{
		AdminID:   shared.NewID(),
		ArtisanID: artisanA,
		Amount:    decimal.RequireFromString("85.5"),
		Currency:  "INR",
		OrderIDs:  []string{o.ID()},
	})
	require.NoError(t, err)
	for _, e := range p.PullEvents() {
		require.NoError(t, bus.Publish(ctx, e))
	}
	got = listFor(artisanA, shared.RoleArtisan)
	require.Len(t, got, 2)
	assert.Equal(t, "/artisan/payouts", got[0].Link())
	assert.Contains(t, got[0].Message(), "INR 85.50")

	prod, err := product.NewProduct(product.PostOptions{ArtisanID: artisanB, Name: "Lamp", Price: decimal.NewFromInt(50), Stock: 1})
	require.NoError(t, err)
	require.NoError(t, products.Save(ctx, prod))
	r, err := review.NewReview(prod.ID(), customer, 5, "")
	require.NoError(t, err)
	for _, e := range r.PullEvents() {
		require.NoError(t, bus.Publish(ctx, e))
	}
	got = listFor(artisanB, shared.RoleArtisan)
	require.Len(t, got, 2)
	assert.Equal(t, "/products/"+prod.ID(), got[0].Link())
}
