package user

import (
	"context"
	"errors"
	"testing"

	"marketplace/domain/shared"
	"marketplace/domain/user"
	"marketplace/infrastructure/persistence/memory"
	"marketplace/infrastructure/persistence/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *ApplicationService {
	store := memory.NewStore()
	cfg := retry.DefaultConfig
	cfg.Enabled = false
	return NewApplicationService(memory.NewUserRepository(store), memory.NewUnitOfWorkFactory(store, nil, cfg))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	id := shared.NewID()

	resp, err := svc.Register(ctx, id, RegisterRequest{Name: "Lakshmi", Email: "lakshmi@example.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"customer"}, resp.Roles)
	assert.True(t, resp.IsActive)

	_, err = svc.Register(ctx, id, RegisterRequest{Name: "Lakshmi", Email: "other@example.com"})
	assert.True(t, errors.Is(err, user.ErrUserAlreadyExists))

	_, err = svc.Register(ctx, shared.NewID(), RegisterRequest{Name: "Copy", Email: "LAKSHMI@example.com"})
	assert.True(t, errors.Is(err, shared.ErrConflict))

	_, err = svc.Register(ctx, "not-a-uuid", RegisterRequest{Name: "Bad", Email: "bad@example.com"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestArtisanOnboarding(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	id := shared.NewID()
	_, err := svc.Register(ctx, id, RegisterRequest{Name: "Gopal", Email: "gopal@example.com"})
	require.NoError(t, err)

	_, err = svc.UpdatePayoutInfo(ctx, id, PayoutInfoRequest{AccountHolderName: "Gopal", AccountNumber: "1234"})
	assert.True(t, errors.Is(err, user.ErrNotArtisan))

	resp, err := svc.BecomeArtisan(ctx, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"customer", "artisan"}, resp.Roles)

	_, err = svc.UpdatePayoutInfo(ctx, id, PayoutInfoRequest{AccountHolderName: "Gopal", AccountNumber: "1234", IFSCCode: "bad"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	resp, err = svc.UpdatePayoutInfo(ctx, id, PayoutInfoRequest{AccountHolderName: "Gopal", AccountNumber: "1234", IFSCCode: "HDFC0000123"})
	require.NoError(t, err)
	require.NotNil(t, resp.PayoutInfo)
	assert.Equal(t, "1234", resp.PayoutInfo.AccountNumber)

	artisans, err := svc.ListArtisans(ctx)
	require.NoError(t, err)
	require.Len(t, artisans, 1)
	assert.Equal(t, id, artisans[0].ID)

	_, err = svc.GetUser(ctx, shared.NewID())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
