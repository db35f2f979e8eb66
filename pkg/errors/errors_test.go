package errors

import (
	stdErrors "errors"
	"testing"

	"marketplace/domain/order"
	"marketplace/domain/shared"
	"marketplace/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"not found", order.NewOrderNotFoundError("o-1"), CodeNotFound},
		{"forbidden", order.NewNotOrderSellerError("o-1", "s-1"), CodeForbidden},
		{"conflict", order.ErrAlreadyPaidOut, CodeConflict},
		{"concurrent modification", shared.NewConcurrentModificationError("order", "o-1"), CodeConcurrentModify},
		{"invalid transition", shared.NewInvalidTransitionError("order", "paid", "delivered"), CodeInvalidOrderState},
		{"validation", user.NewInvalidEmailError("nope"), CodeValidation},
		{"unknown", stdErrors.New("disk on fire"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomainError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestFromDomainError_KeepsFieldAndHidesInternals(t *testing.T) {
	appErr := FromDomainError(shared.NewValidationError("review", "rating", "rating must be between 1 and 5"))
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "rating", appErr.Fields[0].Field)

	internal := FromDomainError(stdErrors.New("dsn password=hunter2"))
	assert.Equal(t, "internal server error", internal.Message)
	assert.Empty(t, internal.Fields)

	assert.Nil(t, FromDomainError(nil))
}

func TestFromDomainError_PassesAppErrorsThrough(t *testing.T) {
	original := TooManyRequests("slow down")
	assert.Same(t, original, FromDomainError(original))
	assert.True(t, Is(Wrap(original, CodeInternal, "outer"), CodeInternal))
}
