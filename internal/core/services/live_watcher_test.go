package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madridistaai/madridista/internal/core/domain"
)

type scriptedLiveSource struct {
	events []*domain.LiveEvent
	i      int
}

func (s *scriptedLiveSource) LiveEvent(ctx context.Context) (*domain.LiveEvent, error) {
	if s.i >= len(s.events) {
		return nil, nil
	}
	e := s.events[s.i]
	s.i++
	return e, nil
}

func (s *scriptedLiveSource) BestPlayer(ctx context.Context, eventID int64) (string, float64, error) {
	return "", 0, nil
}

func (s *scriptedLiveSource) TeamForm(ctx context.Context, limit int) ([]domain.Match, error) {
	return nil, nil
}

func (s *scriptedLiveSource) Squad(ctx context.Context) ([]domain.SquadPlayer, error) {
	return nil, nil
}

func (s *scriptedLiveSource) Injuries(ctx context.Context) ([]domain.SquadPlayer, error) {
	return nil, nil
}

func drainAlert(t *testing.T, ch <-chan PushEvent) PushEvent {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for live alert")
		return PushEvent{}
	}
}

func TestLiveWatcher_MatchLifecycle(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repo := newFakeRepo()
	ctx := context.Background()
	require.NoError(t, repo.SaveSubscription(ctx, domain.Subscription{ChatID: 55, Kind: domain.SubMatchday, Team: "Real Madrid"}))

	bus := NewEventBus(logger)
	ch, unsub := bus.Subscribe(TopicLive)
	defer unsub()

	src := &scriptedLiveSource{events: []*domain.LiveEvent{
		{ID: 7001, Home: "Real Madrid", Away: "Sevilla", HomeScore: 0, AwayScore: 0, Minute: 1},
		{ID: 7001, Home: "Real Madrid", Away: "Sevilla", HomeScore: 1, AwayScore: 0, Minute: 23},
		{ID: 7001, Home: "Real Madrid", Away: "Sevilla", HomeScore: 1, AwayScore: 0, Minute: 40},
		nil, // feed goes quiet: full time
	}}
	w := NewLiveWatcher(logger, src, repo, bus, time.Minute)

	w.poll(ctx)
	kickoff := drainAlert(t, ch)
	assert.Equal(t, domain.ChatID(55), kickoff.ChatID)
	assert.Contains(t, kickoff.Text, "Kickoff")

	w.poll(ctx)
	goal := drainAlert(t, ch)
	assert.Contains(t, goal.Text, "GOAL! Real Madrid 1-0 Sevilla")
	assert.Contains(t, goal.Text, "23'")

	// Same score again: no alert.
	w.poll(ctx)
	select {
	case e := <-ch:
		t.Fatalf("unexpected alert for unchanged score: %v", e)
	case <-time.After(100 * time.Millisecond):
	}

	w.poll(ctx)
	ft := drainAlert(t, ch)
	assert.Contains(t, ft.Text, "Full time. Final score 1-0.")
}

func TestLiveWatcher_NoAlertsWhenIdle(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repo := newFakeRepo()
	bus := NewEventBus(logger)
	ch, unsub := bus.Subscribe(TopicLive)
	defer unsub()

	w := NewLiveWatcher(logger, &scriptedLiveSource{}, repo, bus, time.Minute)
	w.poll(context.Background())

	select {
	case e := <-ch:
		t.Fatalf("unexpected alert while idle: %v", e)
	case <-time.After(100 * time.Millisecond):
	}
}
