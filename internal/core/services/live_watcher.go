package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
	"github.com/madridistaai/madridista/internal/core/ports"
)

// LiveWatcher polls the live feed for the configured team and publishes
// kickoff, goal and full-time alerts to matchday subscribers. It keeps
// the last observed score in memory; a restart mid-match only costs the
// alert for goals scored while the process was down.
type LiveWatcher struct {
	logger *slog.Logger
	live   ports.LiveSource
	repo   ports.Repository
	bus    *EventBus

	interval time.Duration

	// state of the match currently being tracked, zero when idle
	trackedID int64
	homeScore int
	awayScore int
}

func NewLiveWatcher(logger *slog.Logger, live ports.LiveSource, repo ports.Repository, bus *EventBus, interval time.Duration) *LiveWatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &LiveWatcher{
		logger:   logger.With("service", "live_watcher"),
		live:     live,
		repo:     repo,
		bus:      bus,
		interval: interval,
	}
}

// Run starts the polling loop. Blocks until ctx is cancelled.
func (w *LiveWatcher) Run(ctx context.Context) error {
	w.logger.Info("live watcher started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("live watcher stopped")
			return nil
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *LiveWatcher) poll(ctx context.Context) {
	event, err := w.live.LiveEvent(ctx)
	if err != nil {
		w.logger.Warn("live feed unavailable", "error", err)
		return
	}

	if event == nil {
		if w.trackedID != 0 {
			w.broadcast(ctx, fmt.Sprintf("Full time. Final score %d-%d.", w.homeScore, w.awayScore))
			w.trackedID = 0
		}
		return
	}

	if event.ID != w.trackedID {
		w.trackedID = event.ID
		w.homeScore = event.HomeScore
		w.awayScore = event.AwayScore
		w.broadcast(ctx, fmt.Sprintf("Kickoff: %s vs %s is underway!", event.Home, event.Away))
		return
	}

	if event.HomeScore != w.homeScore || event.AwayScore != w.awayScore {
		w.homeScore = event.HomeScore
		w.awayScore = event.AwayScore
		w.broadcast(ctx, fmt.Sprintf("GOAL! %s %d-%d %s (%d')", event.Home, event.HomeScore, event.AwayScore, event.Away, event.Minute))
	}
}

// broadcast publishes a live alert to every matchday subscriber.
func (w *LiveWatcher) broadcast(ctx context.Context, text string) {
	subs, err := w.repo.ListSubscriptions(ctx)
	if err != nil {
		w.logger.Error("failed to list subscriptions", "error", err)
		return
	}
	for _, sub := range subs {
		if sub.Kind != domain.SubMatchday {
			continue
		}
		w.bus.Publish(PushEvent{Topic: TopicLive, ChatID: sub.ChatID, Text: text})
	}
}
