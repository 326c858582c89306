package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
	"github.com/madridistaai/madridista/internal/core/ports"
)

// DigestScheduler is a goroutine that walks the subscription table on a
// tick and publishes matchday reminders and daily news digests to the
// event bus. Delivery dedup goes through the settings table so restarts
// don't re-send the same reminder.
type DigestScheduler struct {
	logger   *slog.Logger
	repo     ports.Repository
	fixtures ports.FixtureSource
	news     ports.NewsSource
	bus      *EventBus

	tick     time.Duration
	newsCron string // 5-field cron for the daily news digest
	nextNews time.Time
}

func NewDigestScheduler(logger *slog.Logger, repo ports.Repository, fixtures ports.FixtureSource, news ports.NewsSource, bus *EventBus) *DigestScheduler {
	return &DigestScheduler{
		logger:   logger.With("service", "digest_scheduler"),
		repo:     repo,
		fixtures: fixtures,
		news:     news,
		bus:      bus,
		tick:     10 * time.Minute,
		newsCron: "0 9 * * *",
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *DigestScheduler) Run(ctx context.Context) error {
	s.logger.Info("digest scheduler started", "check_interval", s.tick, "news_cron", s.newsCron)

	if next, err := nextCronRun(s.newsCron, time.Now()); err == nil {
		s.nextNews = next
	} else {
		s.logger.Error("invalid news digest schedule", "expr", s.newsCron, "error", err)
	}

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("digest scheduler stopped")
			return nil
		case <-ticker.C:
			s.checkMatchdays(ctx)
			s.checkNewsDigest(ctx)
		}
	}
}

// checkMatchdays sends a reminder for every matchday subscription whose
// team kicks off within the next 24 hours.
func (s *DigestScheduler) checkMatchdays(ctx context.Context) {
	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		s.logger.Error("failed to list subscriptions", "error", err)
		return
	}

	now := time.Now()
	for _, sub := range subs {
		if sub.Kind != domain.SubMatchday {
			continue
		}
		match, err := s.fixtures.NextFixture(ctx, sub.Team)
		if err != nil || match == nil {
			continue
		}
		until := match.When.Sub(now)
		if until <= 0 || until > 24*time.Hour {
			continue
		}

		key := fmt.Sprintf("digest:sent:%d:%d", sub.ChatID, match.ID)
		if sent, _ := s.repo.GetSetting(ctx, key); sent != "" {
			continue
		}

		text := fmt.Sprintf("Matchday! %s vs %s, %s", match.Home, match.Away, match.When.Format("Mon 15:04 MST"))
		if match.League != "" {
			text += " (" + match.League + ")"
		}
		s.bus.Publish(PushEvent{Topic: TopicDigest, ChatID: sub.ChatID, Text: text})

		if err := s.repo.SaveSetting(ctx, key, now.Format(time.RFC3339)); err != nil {
			s.logger.Warn("failed to record digest delivery", "chat_id", sub.ChatID, "error", err)
		}
		s.logger.Info("matchday reminder sent", "chat_id", sub.ChatID, "team", sub.Team, "fixture_id", match.ID)
	}
}

// checkNewsDigest pushes top headlines to news subscribers once per
// scheduled slot.
func (s *DigestScheduler) checkNewsDigest(ctx context.Context) {
	if s.nextNews.IsZero() || time.Now().Before(s.nextNews) {
		return
	}
	if next, err := nextCronRun(s.newsCron, time.Now()); err == nil {
		s.nextNews = next
	}

	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		s.logger.Error("failed to list subscriptions", "error", err)
		return
	}

	items, err := s.news.TopNews(ctx, 5)
	if err != nil || len(items) == 0 {
		s.logger.Warn("news digest skipped, feed empty", "error", err)
		return
	}

	var sb strings.Builder
	sb.WriteString("Morning football digest:\n")
	for _, it := range items {
		sb.WriteString("• ")
		sb.WriteString(it.Title)
		if it.URL != "" {
			sb.WriteString("\n  ")
			sb.WriteString(it.URL)
		}
		sb.WriteByte('\n')
	}
	text := sb.String()

	sent := 0
	for _, sub := range subs {
		if sub.Kind != domain.SubNews {
			continue
		}
		s.bus.Publish(PushEvent{Topic: TopicDigest, ChatID: sub.ChatID, Text: text})
		sent++
	}
	if sent > 0 {
		s.logger.Info("news digest sent", "subscribers", sent, "headlines", len(items))
	}
}

// nextCronRun parses a 5-field cron expression and returns the next run
// time by scanning forward minute by minute. Brute force but correct for
// the coarse schedules this service needs.
func nextCronRun(expr string, from time.Time) (time.Time, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return time.Time{}, fmt.Errorf("expected 5 fields (min hour day month weekday), got %d", len(fields))
	}

	candidate := from.Truncate(time.Minute).Add(time.Minute)
	limit := from.Add(48 * time.Hour)

	for candidate.Before(limit) {
		if matchesCronField(fields[0], candidate.Minute()) &&
			matchesCronField(fields[1], candidate.Hour()) &&
			matchesCronField(fields[2], candidate.Day()) &&
			matchesCronField(fields[3], int(candidate.Month())) &&
			matchesCronField(fields[4], int(candidate.Weekday())) {
			return candidate, nil
		}
		candidate = candidate.Add(time.Minute)
	}

	return time.Time{}, fmt.Errorf("no matching time found within 48 hours for expression: %s", expr)
}

// matchesCronField checks if a value matches one cron field pattern.
// Supports *, */N, comma lists, and plain numbers.
func matchesCronField(pattern string, value int) bool {
	if pattern == "*" {
		return true
	}

	if strings.HasPrefix(pattern, "*/") {
		n := 0
		if _, err := fmt.Sscanf(pattern, "*/%d", &n); err == nil && n > 0 {
			return value%n == 0
		}
		return false
	}

	if strings.Contains(pattern, ",") {
		for _, part := range strings.Split(pattern, ",") {
			pn := 0
			if _, err := fmt.Sscanf(strings.TrimSpace(part), "%d", &pn); err == nil && pn == value {
				return true
			}
		}
		return false
	}

	n := 0
	if _, err := fmt.Sscanf(pattern, "%d", &n); err == nil {
		return value == n
	}

	return false
}
