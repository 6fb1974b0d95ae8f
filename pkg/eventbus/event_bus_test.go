package eventbus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type assignmentCreated struct {
	Role string
}

func TestPublishDispatchesToMatchingHandler(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	var got []string
	bus.Subscribe(func(ev assignmentCreated) {
		got = append(got, ev.Role)
	})

	bus.Publish(assignmentCreated{Role: "head"})
	bus.Publish("unrelated string event")

	require.Equal(t, []string{"head"}, got)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	calls := 0
	handler := func(ev assignmentCreated) { calls++ }
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Publish(assignmentCreated{})
	bus.Unsubscribe(handler)
	bus.Publish(assignmentCreated{})

	require.Equal(t, 1, calls)
	require.Equal(t, 0, bus.SubscribersCount())
}

func TestPublishRecoversFromHandlerPanic(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	bus.Subscribe(func(ev assignmentCreated) { panic("boom") })
	require.NotPanics(t, func() {
		bus.Publish(assignmentCreated{})
	})
}

func TestMatchSignature(t *testing.T) {
	handler := func(ev assignmentCreated) {}
	require.True(t, MatchSignature(handler, []interface{}{assignmentCreated{}}))
	require.False(t, MatchSignature(handler, []interface{}{"nope"}))
	require.False(t, MatchSignature(handler, []interface{}{assignmentCreated{}, 1}))
	require.False(t, MatchSignature(42, []interface{}{assignmentCreated{}}))
}
