package payout

import (
	"context"
	"errors"
	"testing"

	"marketplace/domain/order"
	"marketplace/domain/shared"
	"marketplace/domain/user"
	"marketplace/infrastructure/persistence/memory"
	"marketplace/infrastructure/persistence/retry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *ApplicationService
	orders  *memory.OrderRepository
	users   *memory.UserRepository
	payouts *memory.PayoutRepository
	admin   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	cfg := retry.DefaultConfig
	cfg.Enabled = false

	f := &fixture{
		orders:  memory.NewOrderRepository(store),
		users:   memory.NewUserRepository(store),
		payouts: memory.NewPayoutRepository(store),
		admin:   shared.NewID(),
	}
	f.svc = NewApplicationService(f.orders, f.users, f.payouts,
		memory.NewUnitOfWorkFactory(store, nil, cfg), decimal.RequireFromString("0.15"), "INR")
	return f
}

func (f *fixture) artisan(t *testing.T, email string, withBank bool) string {
	t.Helper()
	u, err := user.NewUser(shared.NewID(), "Meera", email, []shared.Role{shared.RoleArtisan})
	require.NoError(t, err)
	if withBank {
		require.NoError(t, u.UpdatePayoutInfo(user.PayoutInfo{
			AccountHolderName: "Meera K",
			AccountNumber:     "001122334455",
			BankName:          "State Bank",
			IFSCCode:          "SBIN0001234",
		}))
	}
	require.NoError(t, f.users.Save(context.Background(), u))
	return u.ID()
}

type line struct {
	artisan string
	price   int64
	qty     int
}

func (f *fixture) deliveredOrder(t *testing.T, customer string, lines ...line) *order.Order {
	t.Helper()
	requests := make([]order.ItemRequest, len(lines))
	for i, l := range lines {
		requests[i] = order.ItemRequest{
			ProductID: shared.NewID(),
			ArtisanID: l.artisan,
			Name:      "Block-printed scarf",
			Price:     decimal.NewFromInt(l.price),
			Quantity:  l.qty,
		}
	}
	o, err := order.NewOrder(customer, "9 Indigo Lane", requests)
	require.NoError(t, err)
	require.NoError(t, o.Transition(lines[0].artisan, order.StatusDelivered, order.TransitionDetails{}, nil))
	require.NoError(t, f.orders.Save(context.Background(), o))
	return o
}

func TestSummary_GroupsByArtisanAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	paid := f.artisan(t, "paid@example.com", true)
	noBank := f.artisan(t, "nobank@example.com", false)

	f.deliveredOrder(t, shared.NewID(), line{paid, 1000, 1}, line{noBank, 200, 2})
	f.deliveredOrder(t, shared.NewID(), line{paid, 500, 2})

	first, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	second, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.Len(t, first.Rows, 2)
	rows := map[string]SummaryRow{}
	for _, row := range first.Rows {
		rows[row.ArtisanID] = row
	}

	p := rows[paid]
	assert.True(t, decimal.NewFromInt(2000).Equal(p.TotalSales))
	assert.True(t, decimal.NewFromInt(300).Equal(p.Commission))
	assert.True(t, decimal.NewFromInt(1700).Equal(p.NetPayable))
	assert.Equal(t, 2, p.OrderCount)
	require.NotNil(t, p.PayoutInfo)
	assert.Equal(t, "001122334455", p.PayoutInfo.AccountNumber)

	nb := rows[noBank]
	assert.True(t, decimal.NewFromInt(400).Equal(nb.TotalSales))
	assert.Equal(t, 1, nb.OrderCount)
	assert.Nil(t, nb.PayoutInfo)
}

func TestRecordPayout_MarksEveryOrderWithOnePayout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	artisan := f.artisan(t, "meera@example.com", true)
	a := f.deliveredOrder(t, shared.NewID(), line{artisan, 1000, 1})
	b := f.deliveredOrder(t, shared.NewID(), line{artisan, 500, 1})

	resp, err := f.svc.RecordPayout(ctx, f.admin, RecordPayoutRequest{
		ArtisanID:            artisan,
		Amount:               decimal.NewFromInt(1275),
		OrderIDs:             []string{a.ID(), b.ID(), a.ID()},
		TransactionReference: "UTR123",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, []string{a.ID(), b.ID()}, resp.OrderIDs)

	for _, id := range []string{a.ID(), b.ID()} {
		o, err := f.orders.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, order.PayoutPaid, o.PayoutStatus())
		assert.Equal(t, resp.ID, o.PayoutID())
	}

	history, err := f.svc.History(ctx, artisan)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, resp.ID, history[0].ID)

	summary, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	assert.Empty(t, summary.Rows)
}

func TestRecordPayout_RejectsAndLeavesOrdersUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	artisan := f.artisan(t, "meera@example.com", true)
	other := f.artisan(t, "other@example.com", true)
	noBank := f.artisan(t, "nobank@example.com", false)
	mine := f.deliveredOrder(t, shared.NewID(), line{artisan, 1000, 1})
	theirs := f.deliveredOrder(t, shared.NewID(), line{other, 300, 1})

	tests := []struct {
		name string
		req  RecordPayoutRequest
		want error
	}{
		{"missing amount", RecordPayoutRequest{ArtisanID: artisan, OrderIDs: []string{mine.ID()}}, shared.ErrInvalidInput},
		{"no orders", RecordPayoutRequest{ArtisanID: artisan, Amount: decimal.NewFromInt(10)}, shared.ErrInvalidInput},
		{"malformed artisan", RecordPayoutRequest{ArtisanID: "x", Amount: decimal.NewFromInt(10), OrderIDs: []string{mine.ID()}}, shared.ErrInvalidInput},
		{"no bank account", RecordPayoutRequest{ArtisanID: noBank, Amount: decimal.NewFromInt(10), OrderIDs: []string{mine.ID()}}, user.ErrMissingBankAccount},
		{"foreign order", RecordPayoutRequest{ArtisanID: artisan, Amount: decimal.NewFromInt(10), OrderIDs: []string{mine.ID(), theirs.ID()}}, shared.ErrInvalidInput},
		{"unknown order", RecordPayoutRequest{ArtisanID: artisan, Amount: decimal.NewFromInt(10), OrderIDs: []string{shared.NewID()}}, shared.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RecordPayout(ctx, f.admin, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	o, err := f.orders.FindByID(ctx, mine.ID())
	require.NoError(t, err)
	assert.Equal(t, order.PayoutPending, o.PayoutStatus())

	all, err := f.svc.History(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRecordPayout_SecondPayoutForSameOrderConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	artisan := f.artisan(t, "meera@example.com", true)
	o := f.deliveredOrder(t, shared.NewID(), line{artisan, 1000, 1})
	req := RecordPayoutRequest{ArtisanID: artisan, Amount: decimal.NewFromInt(850), OrderIDs: []string{o.ID()}}

	_, err := f.svc.RecordPayout(ctx, f.admin, req)
	require.NoError(t, err)

	_, err = f.svc.RecordPayout(ctx, f.admin, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, order.ErrAlreadyPaidOut))

	all, err := f.svc.History(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
