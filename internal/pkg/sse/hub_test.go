package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesEveryChannelOfASubscriber(t *testing.T) {
	hub := NewHub(4)

	events, cleanup := hub.Subscribe(ChannelAdmins, "emp-1")
	defer cleanup()

	assert.Equal(t, 1, hub.Publish(Event{Channel: ChannelAdmins, Event: "payslip_request_submitted"}))
	assert.Equal(t, 1, hub.Publish(Event{Channel: "emp-1", Event: "payslip_released"}))
	assert.Equal(t, 0, hub.Publish(Event{Channel: "emp-2", Event: "payslip_released"}))

	require.Len(t, events, 2)
	assert.Equal(t, "payslip_request_submitted", (<-events).Event)
	assert.Equal(t, "payslip_released", (<-events).Event)
}

func TestFullSubscriberIsSkipped(t *testing.T) {
	hub := NewHub(1)

	_, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	assert.Equal(t, 1, hub.Publish(Event{Channel: "emp-1"}))
	assert.Equal(t, 0, hub.Publish(Event{Channel: "emp-1"}))
}

func TestCleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub(1)

	events, cleanup := hub.Subscribe(ChannelAdmins, "emp-1")
	assert.Equal(t, 1, hub.SubscriberCount(ChannelAdmins))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount(ChannelAdmins))
	assert.Equal(t, 0, hub.SubscriberCount("emp-1"))

	_, open := <-events
	assert.False(t, open)
}
