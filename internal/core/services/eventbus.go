package services

import (
	"log/slog"
	"sync"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
)

type EventTopic string

const (
	TopicDigest EventTopic = "digest" // scheduled matchday/news pushes
	TopicLive   EventTopic = "live"   // goal and kickoff alerts
)

// PushEvent is an outbound message for one chat, produced by the
// schedulers and consumed by the Telegram transport.
type PushEvent struct {
	Topic     EventTopic
	ChatID    domain.ChatID
	Text      string
	Timestamp time.Time
}

// EventBus fans push events out to transport subscribers by topic.
type EventBus struct {
	logger *slog.Logger
	mu     sync.RWMutex
	subs   map[EventTopic][]chan PushEvent
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		logger: logger,
		subs:   make(map[EventTopic][]chan PushEvent),
	}
}

// Subscribe returns a channel that receives events for a topic, plus an
// unsubscribe function that closes the channel.
func (b *EventBus) Subscribe(topic EventTopic) (<-chan PushEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan PushEvent, 100) // buffer so slow senders don't block publishers
	b.subs[topic] = append(b.subs[topic], ch)

	unsub := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subscribers := b.subs[topic]
		for i, sub := range subscribers {
			if sub == ch {
				close(ch)
				b.subs[topic] = append(subscribers[:i], subscribers[i+1:]...)
				break
			}
		}
		if len(b.subs[topic]) == 0 {
			delete(b.subs, topic)
		}
	}

	return ch, unsub
}

// Publish sends an event to all subscribers of its topic.
func (b *EventBus) Publish(e PushEvent) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[e.Topic] {
		select {
		case ch <- e:
		default:
			// Full channel means a wedged consumer; drop rather than stall.
			b.logger.Warn("event bus channel full, dropping event", "topic", e.Topic, "chat_id", e.ChatID)
		}
	}
}
