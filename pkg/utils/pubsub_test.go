package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopic(t *testing.T) {
	topic := NewTopic[int]()

	a := topic.SubscribeBuffered(1)
	b := topic.SubscribeBuffered(1)
	assert.Equal(t, 2, topic.NumSubscribers())

	topic.Publish(7)
	assert.Equal(t, 7, <-a.Recv())
	assert.Equal(t, 7, <-b.Recv())

	a.Done()
	a.Done()
	assert.Equal(t, 1, topic.NumSubscribers())

	topic.Publish(8)
	assert.Equal(t, 8, <-b.Recv())
	b.Done()
	assert.Equal(t, 0, topic.NumSubscribers())
}

func TestPublishDoesNotBlockOnDone(t *testing.T) {
	topic := NewTopic[int]()
	subscriber := topic.Subscribe()

	published := make(chan struct{})
	go func() {
		topic.Publish(1)
		close(published)
	}()

	subscriber.Done()

	select {
	case <-published:
	case <-time.After(time.Second):
		require.Fail(t, "publish blocked on a finished subscriber")
	}
}
