package longpoll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestWaitReturnsImmediatelyOnPastEvent(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Broadcast("storage", "updated")

	ev, ok := hub.Wait(context.Background(), 0, time.Second)
	require.True(t, ok)
	assert.Equal(t, int64(1), ev.ID)
	assert.Equal(t, "storage", ev.Event)
}

func TestWaitTimesOutWithoutEvents(t *testing.T) {
	hub := NewHub(slog.Default())

	ev, ok := hub.Wait(context.Background(), 0, 10*time.Millisecond)
	assert.False(t, ok)
	assert.Zero(t, ev.ID)
}

func TestWaitWakesOnBroadcast(t *testing.T) {
	hub := NewHub(slog.Default())

	done := make(chan Event, 1)
	go func() {
		ev, ok := hub.Wait(context.Background(), 0, 5*time.Second)
		require.True(t, ok)
		done <- ev
	}()

	time.Sleep(20 * time.Millisecond)
	hub.Broadcast("push", "done")

	select {
	case ev := <-done:
		assert.Equal(t, "push", ev.Event)
		assert.Equal(t, "done", ev.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("ожидающий не проснулся")
	}
}

func TestWaitHonorsContextCancel(t *testing.T) {
	hub := NewHub(slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, ok := hub.Wait(ctx, 0, 5*time.Second)
	assert.False(t, ok)
}
