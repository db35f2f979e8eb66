package shared

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string       { return "test.ping" }
func (pingEvent) Payload() map[string]any { return map[string]any{} }

func TestEventBus_RunsEveryHandler(t *testing.T) {
	bus := NewEventBus()
	var calls []string

	record := func(name string, err error) EventHandler {
		return NewFuncHandler(name, func(context.Context, DomainEvent) error {
			calls = append(calls, name)
			return err
		})
	}
	boom := errors.New("boom")
	require.NoError(t, bus.Subscribe("test.ping", record("first", boom)))
	require.NoError(t, bus.Subscribe("test.ping", record("second", nil)))

	err := bus.Publish(context.Background(), pingEvent{NewBaseEvent(NewID())})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, calls)

	history := bus.GetPublishHistory()
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
}

func TestEventBus_Subscribe(t *testing.T) {
	bus := NewEventBus()
	h := NewFuncHandler("dup", func(context.Context, DomainEvent) error { return nil })

	require.NoError(t, bus.Subscribe("test.ping", h))
	assert.Error(t, bus.Subscribe("test.ping", h), "same handler name twice")
	assert.Error(t, bus.Subscribe("", h))
	assert.Error(t, bus.Subscribe("test.ping", nil))

	bus.Unsubscribe("test.ping", h)
	require.NoError(t, bus.Publish(context.Background(), pingEvent{NewBaseEvent(NewID())}))
	assert.Equal(t, "no handlers registered for this event", bus.GetPublishHistory()[0].Message)
}

func TestEventBus_RejectsInvalidEvents(t *testing.T) {
	bus := NewEventBus()
	assert.Error(t, bus.Publish(context.Background(), nil))
	assert.Error(t, bus.Publish(context.Background(), pingEvent{NewBaseEvent("")}))
}

func TestValidateIDAndRoles(t *testing.T) {
	assert.NoError(t, ValidateID("order", "orderId", NewID()))
	assert.True(t, errors.Is(ValidateID("order", "orderId", ""), ErrInvalidInput))
	assert.True(t, errors.Is(ValidateID("order", "orderId", "42"), ErrInvalidInput))

	role, err := ParseRole(" Artisan ")
	require.NoError(t, err)
	assert.Equal(t, RoleArtisan, role)
	_, err = ParseRole("seller")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
