package services

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventBus_PubSub(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	bus := NewEventBus(logger)

	ch, unsub := bus.Subscribe(TopicDigest)
	defer unsub()

	event := PushEvent{
		Topic:  TopicDigest,
		ChatID: 1234,
		Text:   "Matchday! Real Madrid vs Sevilla",
	}
	bus.Publish(event)

	select {
	case received := <-ch:
		assert.Equal(t, event.ChatID, received.ChatID)
		assert.Equal(t, event.Text, received.Text)
		assert.False(t, received.Timestamp.IsZero(), "publish must stamp the event")
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestEventBus_TopicIsolation(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	bus := NewEventBus(logger)

	liveCh, unsub := bus.Subscribe(TopicLive)
	defer unsub()

	bus.Publish(PushEvent{Topic: TopicDigest, ChatID: 1, Text: "digest only"})

	select {
	case e := <-liveCh:
		t.Fatalf("live subscriber received digest event: %v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	bus := NewEventBus(logger)

	ch, unsub := bus.Subscribe(TopicLive)
	unsub()

	bus.Publish(PushEvent{Topic: TopicLive, ChatID: 99, Text: "goal"})

	select {
	case e, ok := <-ch:
		if ok {
			t.Fatalf("received event after unsubscribe: %v", e)
		}
		// Closed channel: unsubscribe worked.
	case <-time.After(100 * time.Millisecond):
		t.Fatal("expected channel to be closed after unsubscribe")
	}
}
