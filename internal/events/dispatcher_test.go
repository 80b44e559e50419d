package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesSubscribersInOrder(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var calls []string
	dispatcher.Subscribe(EventTicketClosed, func(context.Context, Event) error {
		calls = append(calls, "first")
		return nil
	})
	dispatcher.Subscribe(EventTicketClosed, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketClosed}))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	reached := false
	dispatcher.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		reached = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketStatusChanged}))
	assert.True(t, reached)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventCommentAdded}))
}
