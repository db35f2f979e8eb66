package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace/domain/notification"
	"marketplace/domain/order"
	"marketplace/domain/review"
	"marketplace/domain/shared"
	"marketplace/infrastructure/events"
	"marketplace/infrastructure/persistence/retry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, customerID, artisanID string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(customerID, "12 Loom Street", []order.ItemRequest{{
		ProductID: shared.NewID(),
		ArtisanID: artisanID,
		Name:      "Clay vase",
		Price:     decimal.NewFromInt(500),
		Quantity:  2,
	}})
	require.NoError(t, err)
	return o
}

func noRetry() retry.Config {
	cfg := retry.DefaultConfig
	cfg.Enabled = false
	return cfg
}

func TestOrderRepository_SaveDetectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(NewStore())
	artisan := shared.NewID()

	o := newOrder(t, shared.NewID(), artisan)
	require.NoError(t, repo.Save(ctx, o))
	assert.Equal(t, 1, o.Version())

	first, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)

	require.NoError(t, first.Transition(artisan, order.StatusProcessing, order.TransitionDetails{}, nil))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.Transition(artisan, order.StatusPacked, order.TransitionDetails{}, nil))
	err = repo.Save(ctx, second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrConcurrentModification))
}

func TestOrderRepository_Queries(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(NewStore())
	customer, artisan := shared.NewID(), shared.NewID()

	older := newOrder(t, customer, artisan)
	require.NoError(t, repo.Save(ctx, older))
	time.Sleep(time.Millisecond)
	newer := newOrder(t, customer, shared.NewID())
	require.NoError(t, repo.Save(ctx, newer))

	byCustomer, err := repo.FindByCustomer(ctx, customer)
	require.NoError(t, err)
	require.Len(t, byCustomer, 2)
	assert.Equal(t, newer.ID(), byCustomer[0].ID())

	byArtisan, err := repo.FindByArtisan(ctx, artisan)
	require.NoError(t, err)
	require.Len(t, byArtisan, 1)
	assert.Equal(t, older.ID(), byArtisan[0].ID())

	awaiting, err := repo.FindAwaitingPayout(ctx)
	require.NoError(t, err)
	assert.Empty(t, awaiting)

	require.NoError(t, older.Transition(artisan, order.StatusDelivered, order.TransitionDetails{}, nil))
	require.NoError(t, repo.Save(ctx, older))

	awaiting, err = repo.FindAwaitingPayout(ctx)
	require.NoError(t, err)
	require.Len(t, awaiting, 1)
	assert.Equal(t, older.ID(), awaiting[0].ID())

	delivered, err := repo.HasDeliveredPurchase(ctx, customer, older.Items()[0].ProductID())
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestUnitOfWork_RollsBackAllWritesOnFailure(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewOrderRepository(store)
	uow := NewUnitOfWorkFactory(store, nil, noRetry()).New()

	o := newOrder(t, shared.NewID(), shared.NewID())
	boom := errors.New("boom")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if err := repo.Save(ctx, o); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.FindByID(ctx, o.ID())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestUnitOfWork_UndoesAppliedOpsWhenCommitFails(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	orders := NewOrderRepository(store)
	reviews := NewReviewRepository(store)

	productID, userID := shared.NewID(), shared.NewID()
	existing, err := review.NewReview(productID, userID, 4, "")
	require.NoError(t, err)
	require.NoError(t, reviews.Save(ctx, existing))

	o := newOrder(t, userID, shared.NewID())
	duplicate, err := review.NewReview(productID, userID, 5, "")
	require.NoError(t, err)

	uow := NewUnitOfWorkFactory(store, nil, noRetry()).New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := orders.Save(ctx, o); err != nil {
			return err
		}
		return reviews.Save(ctx, duplicate)
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, review.ErrAlreadyReviewed))

	_, err = orders.FindByID(ctx, o.ID())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestUnitOfWork_DispatchesEventsAfterCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewOrderRepository(store)
	bus := shared.NewEventBus()

	var seen []string
	require.NoError(t, bus.Subscribe(order.EventOrderPlaced, shared.NewFuncHandler("probe", func(ctx context.Context, e shared.DomainEvent) error {
		_, err := repo.FindByID(ctx, e.GetAggregateID())
		assert.NoError(t, err, "event must only be visible after commit")
		seen = append(seen, e.EventName())
		return errors.New("subscriber failures are logged, not returned")
	})))

	uow := NewUnitOfWorkFactory(store, events.NewDispatcher(bus), noRetry()).New()
	o := newOrder(t, shared.NewID(), shared.NewID())
	err := uow.Execute(ctx, func(ctx context.Context) error {
		uow.RegisterNew(o)
		return repo.Save(ctx, o)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{order.EventOrderPlaced}, seen)
}

func TestUnitOfWork_RetriesConcurrentModification(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewOrderRepository(store)
	artisan := shared.NewID()
	o := newOrder(t, shared.NewID(), artisan)
	require.NoError(t, repo.Save(ctx, o))

	cfg := retry.DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.JitterEnabled = false
	uow := NewUnitOfWorkFactory(store, nil, cfg).New()

	attempts := 0
	err := uow.Execute(ctx, func(ctx context.Context) error {
		attempts++
		loaded, err := repo.FindByID(ctx, o.ID())
		if err != nil {
			return err
		}
		if attempts == 1 {
			// a concurrent writer wins the race
			racer, _ := repo.FindByID(context.Background(), o.ID())
			require.NoError(t, racer.Transition(artisan, order.StatusProcessing, order.TransitionDetails{}, nil))
			require.NoError(t, repo.Save(context.Background(), racer))
		}
		if err := loaded.Transition(artisan, order.StatusPacked, order.TransitionDetails{}, nil); err != nil {
			return err
		}
		return repo.Save(ctx, loaded)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)

	final, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPacked, final.Status())
	require.Len(t, final.History(), 2)
	assert.Equal(t, order.StatusPacked, final.History()[0].Status())
}

func TestReviewRepository_StatsAndUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepository(NewStore())
	productID := shared.NewID()

	for _, rating := range []int{5, 4, 4} {
		r, err := review.NewReview(productID, shared.NewID(), rating, "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, r))
	}
	stats, err := repo.Stats(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Quantity)
	assert.InDelta(t, 4.33, stats.Average, 0.001)

	empty, err := repo.Stats(ctx, shared.NewID())
	require.NoError(t, err)
	assert.Zero(t, empty.Quantity)
	assert.Zero(t, empty.Average)
}

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(NewStore())
	userID := shared.NewID()

	save := func(role string) *notification.Notification {
		n, err := notification.New(userID, "Order shipped", "/orders/1", role)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, n))
		return n
	}
	first := save("customer")
	save("customer")
	latest := save("artisan")

	all, err := repo.List(ctx, notification.Query{UserID: userID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, latest.ID(), all[0].ID())

	t.Run("mark read is scoped to the owner", func(t *testing.T) {
		_, err := repo.MarkRead(ctx, first.ID(), shared.NewID())
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		n, err := repo.MarkRead(ctx, first.ID(), userID)
		require.NoError(t, err)
		assert.True(t, n.IsRead())
	})

	t.Run("mark all read is scoped to the role", func(t *testing.T) {
		changed, err := repo.MarkAllRead(ctx, userID, shared.RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, 1, changed)

		unread, err := repo.CountUnread(ctx, userID, shared.RoleArtisan)
		require.NoError(t, err)
		assert.Equal(t, 1, unread)

		unread, err = repo.CountUnread(ctx, userID, "")
		require.NoError(t, err)
		assert.Equal(t, 1, unread)
	})
}
