package events

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshal(t *testing.T) {
	e := New(ChatTurnCompleted, map[string]interface{}{"session_id": "abc"})

	data, err := Marshal(e)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, ChatTurnCompleted, got.EventType())
	assert.Equal(t, "abc", got.Payload()["session_id"])
	assert.True(t, e.OccurredAt.Equal(got.OccurredAt))
}

func TestUnmarshal_Invalid(t *testing.T) {
	_, err := Unmarshal([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = Unmarshal([]byte(`nope`))
	assert.Error(t, err)
}

func TestBus_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewBus(watermill.NopLogger{})
	defer bus.Close()

	messages, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, New(ContentRefreshed, nil)))

	select {
	case msg := <-messages:
		got, err := Unmarshal(msg.Payload)
		require.NoError(t, err)
		assert.Equal(t, ContentRefreshed, got.Type)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}
