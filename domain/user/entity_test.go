package user

import (
	"errors"
	"testing"

	"marketplace/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(shared.NewID(), " Kavya ", "Kavya@Example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "Kavya", u.Name())
	assert.Equal(t, []shared.Role{shared.RoleCustomer}, u.Roles())
	assert.True(t, u.IsActive())

	_, err = NewUser("not-a-uuid", "Kavya", "kavya@example.com", nil)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	_, err = NewUser(shared.NewID(), " ", "kavya@example.com", nil)
	assert.True(t, errors.Is(err, ErrInvalidName))
	_, err = NewUser(shared.NewID(), "Kavya", "kavya", nil)
	assert.True(t, errors.Is(err, ErrInvalidEmail))
}

func TestUser_BecomeArtisanIsIdempotent(t *testing.T) {
	u, err := NewUser(shared.NewID(), "Kavya", "kavya@example.com", nil)
	require.NoError(t, err)
	u.PullEvents()

	require.NoError(t, u.BecomeArtisan())
	require.NoError(t, u.BecomeArtisan())
	assert.Equal(t, []shared.Role{shared.RoleCustomer, shared.RoleArtisan}, u.Roles())
	assert.Len(t, u.PullEvents(), 1)
}

func TestUser_PayoutReadiness(t *testing.T) {
	u, err := NewUser(shared.NewID(), "Kavya", "kavya@example.com", nil)
	require.NoError(t, err)

	err = u.UpdatePayoutInfo(PayoutInfo{UPIID: "kavya@upi"})
	assert.True(t, errors.Is(err, ErrNotArtisan))

	require.NoError(t, u.BecomeArtisan())
	assert.True(t, errors.Is(u.CanReceivePayout(), ErrMissingBankAccount))

	require.NoError(t, u.UpdatePayoutInfo(PayoutInfo{UPIID: "kavya@upi"}))
	assert.True(t, errors.Is(u.CanReceivePayout(), ErrMissingBankAccount), "UPI alone is not a bank account")

	tests := []struct {
		name string
		info PayoutInfo
	}{
		{"empty", PayoutInfo{}},
		{"account without holder", PayoutInfo{AccountNumber: "123"}},
		{"bad ifsc", PayoutInfo{AccountHolderName: "Kavya", AccountNumber: "123", IFSCCode: "SBIN123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(u.UpdatePayoutInfo(tt.info), ErrInvalidPayoutInfo))
		})
	}

	require.NoError(t, u.UpdatePayoutInfo(PayoutInfo{AccountHolderName: "Kavya", AccountNumber: "123", IFSCCode: "sbin0001234"}))
	assert.NoError(t, u.CanReceivePayout())
}
