package review

import (
	"context"
	"errors"
	"testing"

	"marketplace/domain/order"
	"marketplace/domain/product"
	"marketplace/domain/review"
	"marketplace/domain/shared"
	"marketplace/infrastructure/events"
	"marketplace/infrastructure/persistence/memory"
	"marketplace/infrastructure/persistence/retry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *ApplicationService
	products *memory.ProductRepository
	orders   *memory.OrderRepository
	product  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	cfg := retry.DefaultConfig
	cfg.Enabled = false
	bus := shared.NewEventBus()

	f := &fixture{
		products: memory.NewProductRepository(store),
		orders:   memory.NewOrderRepository(store),
	}
	factory := memory.NewUnitOfWorkFactory(store, events.NewDispatcher(bus), cfg)
	f.svc = NewApplicationService(memory.NewReviewRepository(store), f.products, order.NewDomainService(f.orders), factory)
	require.NoError(t, NewRatingRecalculator(f.svc).Subscribe(bus))

	p, err := product.NewProduct(product.PostOptions{
		ArtisanID: shared.NewID(),
		Name:      "Cane basket",
		Price:     decimal.NewFromInt(800),
		Stock:     20,
	})
	require.NoError(t, err)
	require.NoError(t, f.products.Save(context.Background(), p))
	f.product = p.ID()
	return f
}

// buyer returns a customer holding an order for the product in the given status.
func (f *fixture) buyer(t *testing.T, status order.Status) string {
	t.Helper()
	ctx := context.Background()
	p, err := f.products.FindByID(ctx, f.product)
	require.NoError(t, err)

	customer := shared.NewID()
	o, err := order.NewOrder(customer, "2 Weaver Street", []order.ItemRequest{{
		ProductID: p.ID(),
		ArtisanID: p.ArtisanID(),
		Name:      p.Name(),
		Price:     p.Price(),
		Quantity:  1,
	}})
	require.NoError(t, err)
	require.NoError(t, o.Transition(p.ArtisanID(), status, order.TransitionDetails{}, nil))
	require.NoError(t, f.orders.Save(ctx, o))
	return customer
}

func (f *fixture) ratings(t *testing.T) (int, float64) {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), f.product)
	require.NoError(t, err)
	return p.RatingsQuantity(), p.RatingsAverage()
}

func TestCreate_RecalculatesRatings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, rating := range []int{5, 4, 4} {
		_, err := f.svc.Create(ctx, f.buyer(t, order.StatusDelivered), f.product, CreateReviewRequest{Rating: rating, Comment: "Lovely weave"})
		require.NoError(t, err)
	}

	qty, avg := f.ratings(t)
	assert.Equal(t, 3, qty)
	assert.InDelta(t, 4.33, avg, 0.001)

	list, err := f.svc.ListByProduct(ctx, f.product)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestCreate_DuplicateConflictsAndLeavesRatings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	customer := f.buyer(t, order.StatusDelivered)

	_, err := f.svc.Create(ctx, customer, f.product, CreateReviewRequest{Rating: 5})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, customer, f.product, CreateReviewRequest{Rating: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrConflict))

	qty, avg := f.ratings(t)
	assert.Equal(t, 1, qty)
	assert.Equal(t, 5.0, avg)
}

func TestCreate_RequiresDeliveredPurchase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, f.buyer(t, order.StatusShipped), f.product, CreateReviewRequest{Rating: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, review.ErrNoDeliveredOrder))

	_, err = f.svc.Create(ctx, shared.NewID(), shared.NewID(), CreateReviewRequest{Rating: 4})
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = f.svc.Create(ctx, shared.NewID(), "bad", CreateReviewRequest{Rating: 4})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	qty, _ := f.ratings(t)
	assert.Zero(t, qty)
}

func TestUpdate_RecalculatesAndChecksAuthor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.buyer(t, order.StatusDelivered)
	created, err := f.svc.Create(ctx, author, f.product, CreateReviewRequest{Rating: 2})
	require.NoError(t, err)

	rating := 4
	_, err = f.svc.Update(ctx, shared.NewID(), created.ID, UpdateReviewRequest{Rating: &rating})
	assert.True(t, errors.Is(err, shared.ErrForbidden))

	updated, err := f.svc.Update(ctx, author, created.ID, UpdateReviewRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	qty, avg := f.ratings(t)
	assert.Equal(t, 1, qty)
	assert.Equal(t, 4.0, avg)
}

func TestDelete_LastReviewResetsRatings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.buyer(t, order.StatusDelivered)
	created, err := f.svc.Create(ctx, author, f.product, CreateReviewRequest{Rating: 3})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, shared.NewID(), created.ID, false)
	assert.True(t, errors.Is(err, shared.ErrForbidden))

	require.NoError(t, f.svc.Delete(ctx, shared.NewID(), created.ID, true))

	qty, avg := f.ratings(t)
	assert.Zero(t, qty)
	assert.Zero(t, avg)

	err = f.svc.Delete(ctx, author, created.ID, false)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
