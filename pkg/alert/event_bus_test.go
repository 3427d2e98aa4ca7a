package alert

import (
	"Pantry-Planner/domain"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDispatchOrder(t *testing.T) {
	bus := NewBus()
	var calls []string

	bus.Subscribe(domain.EventLowStock, func(context.Context, domain.Event) error {
		calls = append(calls, "first")
		return nil
	})
	bus.Subscribe(domain.EventAny, func(context.Context, domain.Event) error {
		calls = append(calls, "any")
		return nil
	})
	bus.Subscribe(domain.EventNearExpiry, func(context.Context, domain.Event) error {
		calls = append(calls, "expiry")
		return nil
	})
	bus.Subscribe(domain.EventLowStock, func(context.Context, domain.Event) error {
		calls = append(calls, "second")
		return nil
	})

	bus.Publish(context.Background(), domain.Event{Kind: domain.EventLowStock, Name: "flour"})

	assert.Equal(t, []string{"first", "any", "second"}, calls)
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), domain.Event{Kind: domain.EventNearExpiry})
	})
}

func TestBusIsolatesFailures(t *testing.T) {
	cause := errors.New("boom")
	var failures []*HandlerFailure
	bus := NewBus(WithFailureHandler(func(f *HandlerFailure) {
		failures = append(failures, f)
	}))

	reached := 0
	bus.Subscribe(domain.EventLowStock, func(context.Context, domain.Event) error {
		return cause
	})
	bus.Subscribe(domain.EventLowStock, func(context.Context, domain.Event) error {
		panic("handler exploded")
	})
	bus.Subscribe(domain.EventLowStock, func(context.Context, domain.Event) error {
		reached++
		return nil
	})

	bus.Publish(context.Background(), domain.Event{Kind: domain.EventLowStock})

	assert.Equal(t, 1, reached)
	require.Len(t, failures, 2)

	assert.Equal(t, 0, failures[0].Subscriber)
	assert.Equal(t, domain.EventLowStock, failures[0].Kind)
	assert.ErrorIs(t, failures[0], ErrHandlerFailure)
	assert.ErrorIs(t, failures[0], cause)

	assert.Equal(t, 1, failures[1].Subscriber)
	assert.ErrorIs(t, failures[1], ErrHandlerFailure)
	assert.Contains(t, failures[1].Error(), "handler exploded")
}

func TestBusSubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	late := 0
	bus.Subscribe(domain.EventLowStock, func(context.Context, domain.Event) error {
		bus.Subscribe(domain.EventLowStock, func(context.Context, domain.Event) error {
			late++
			return nil
		})
		return nil
	})

	bus.Publish(context.Background(), domain.Event{Kind: domain.EventLowStock})
	assert.Equal(t, 0, late, "handlers added mid-publish wait for the next event")

	bus.Publish(context.Background(), domain.Event{Kind: domain.EventLowStock})
	assert.Equal(t, 1, late)
}
