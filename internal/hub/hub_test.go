package hub_test

import (
	"testing"
	"time"

	"github.com/agrosense/fieldhub/internal/hub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, sub *hub.Subscriber) hub.Event {
	t.Helper()
	select {
	case evt, ok := <-sub.Events():
		require.True(t, ok, "subscriber channel closed unexpectedly")
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return hub.Event{}
	}
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	h := hub.New(8)
	defer h.Close()

	a := h.Subscribe()
	b := h.Subscribe()
	require.Equal(t, 2, h.SubscriberCount())
	require.NotEqual(t, a.ID(), b.ID())

	h.Publish("sensor_data", map[string]string{"probe_id": "Probe_1"})

	for _, sub := range []*hub.Subscriber{a, b} {
		evt := receiveEvent(t, sub)
		assert.Equal(t, "sensor_data", evt.Event)
	}
}

func TestPublishDropsForSlowSubscriber(t *testing.T) {
	h := hub.New(1)
	defer h.Close()

	slow := h.Subscribe()
	fast := h.Subscribe()

	// Drain the fast subscriber after every publish so only the slow
	// subscriber's 1-slot buffer ever fills.
	h.Publish("sensor_data", 1)
	assert.Equal(t, 1, receiveEvent(t, fast).Data)
	h.Publish("sensor_data", 2)
	assert.Equal(t, 2, receiveEvent(t, fast).Data)
	h.Publish("sensor_data", 3)
	assert.Equal(t, 3, receiveEvent(t, fast).Data)

	// The slow subscriber only ever got the first event.
	assert.Equal(t, 1, receiveEvent(t, slow).Data)
	select {
	case extra := <-slow.Events():
		t.Fatalf("slow subscriber received dropped event %v", extra.Data)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := hub.New(4)
	defer h.Close()

	sub := h.Subscribe()
	h.Unsubscribe(sub)

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.Equal(t, 0, h.SubscriberCount())

	// Unsubscribing twice must not panic.
	h.Unsubscribe(sub)
}

func TestPublishAfterUnsubscribeSkipsSubscriber(t *testing.T) {
	h := hub.New(4)
	defer h.Close()

	gone := h.Subscribe()
	stays := h.Subscribe()
	h.Unsubscribe(gone)

	h.Publish("new_command", "payload")

	evt := receiveEvent(t, stays)
	assert.Equal(t, "new_command", evt.Event)
}

func TestCloseShutsDownAllSubscribers(t *testing.T) {
	h := hub.New(4)

	a := h.Subscribe()
	b := h.Subscribe()

	h.Close()

	_, okA := <-a.Events()
	_, okB := <-b.Events()
	assert.False(t, okA)
	assert.False(t, okB)
	assert.Equal(t, 0, h.SubscriberCount())

	// Publishing into a closed hub is a no-op, closing twice is safe.
	h.Publish("sensor_data", nil)
	h.Close()

	// A late subscriber gets an already-closed channel.
	late := h.Subscribe()
	_, ok := <-late.Events()
	assert.False(t, ok)
}

func TestPublishDoesNotBlockOnFullBuffers(t *testing.T) {
	h := hub.New(1)
	defer h.Close()

	h.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Publish("sensor_data", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber buffer")
	}
}
