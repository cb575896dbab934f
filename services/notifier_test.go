package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureBroadcaster struct {
	mu       sync.Mutex
	received []Notification
	err      error
	block    chan struct{}
}

func (b *captureBroadcaster) Broadcast(ctx context.Context, n Notification) error {
	if b.block != nil {
		<-b.block
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.received = append(b.received, n)
	return b.err
}

func (b *captureBroadcaster) Received() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Notification(nil), b.received...)
}

func TestNotifierDeliversInOrder(t *testing.T) {
	target := &captureBroadcaster{}
	n := NewNotifier(target, 8, time.Second)
	n.Start()

	n.Notify(Notification{BranchID: "b1", Channel: ChannelKitchen, Payload: 1})
	n.Notify(Notification{BranchID: "b1", Channel: ChannelCaptain, Payload: 2})
	n.Stop()

	got := target.Received()
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Payload)
	assert.Equal(t, 2, got[1].Payload)
}

func TestNotifierDropsWhenFull(t *testing.T) {
	target := &captureBroadcaster{block: make(chan struct{})}
	n := NewNotifier(target, 1, time.Second)

	// not started: the queue holds one message and drops the rest
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			n.Notify(Notification{Channel: ChannelKitchen, Payload: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	close(target.block)
	n.Start()
	n.Stop()
	assert.Len(t, target.Received(), 1)
}

func TestNotifierSwallowsDeliveryErrors(t *testing.T) {
	target := &captureBroadcaster{err: errors.New("gateway down")}
	n := NewNotifier(target, 4, 10*time.Millisecond)
	n.Start()

	n.Notify(Notification{Channel: ChannelCaptain})
	n.Notify(Notification{Channel: ChannelCaptain})
	n.Stop()

	assert.Len(t, target.Received(), 2)
}

func TestFanoutJoinsErrors(t *testing.T) {
	ok := &captureBroadcaster{}
	failing := &captureBroadcaster{err: errors.New("broker unreachable")}

	err := Fanout{failing, ok}.Broadcast(context.Background(), Notification{Channel: ChannelKitchen})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unreachable")
	assert.Len(t, ok.Received(), 1)
	assert.Len(t, failing.Received(), 1)
}
