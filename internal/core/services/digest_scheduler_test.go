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

// upcomingFixtureSource always reports the same next fixture.
type upcomingFixtureSource struct {
	fakeFixtureSource
	match domain.Match
}

func (s *upcomingFixtureSource) NextFixture(ctx context.Context, team string) (*domain.Match, error) {
	m := s.match
	return &m, nil
}

func TestDigestScheduler_MatchdayReminderOnce(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repo := newFakeRepo()
	ctx := context.Background()
	require.NoError(t, repo.SaveSubscription(ctx, domain.Subscription{ChatID: 10, Kind: domain.SubMatchday, Team: "Real Madrid"}))

	bus := NewEventBus(logger)
	ch, unsub := bus.Subscribe(TopicDigest)
	defer unsub()

	fixtures := &upcomingFixtureSource{match: domain.Match{
		ID:     4321,
		When:   time.Now().Add(3 * time.Hour),
		Home:   "Real Madrid",
		Away:   "Sevilla",
		League: "LaLiga",
	}}
	s := NewDigestScheduler(logger, repo, fixtures, nil, bus)

	s.checkMatchdays(ctx)
	select {
	case e := <-ch:
		assert.Equal(t, domain.ChatID(10), e.ChatID)
		assert.Contains(t, e.Text, "Real Madrid vs Sevilla")
		assert.Contains(t, e.Text, "LaLiga")
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for matchday reminder")
	}

	// Second pass is deduplicated through the settings table.
	s.checkMatchdays(ctx)
	select {
	case e := <-ch:
		t.Fatalf("duplicate reminder sent: %v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDigestScheduler_SkipsDistantFixtures(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repo := newFakeRepo()
	ctx := context.Background()
	require.NoError(t, repo.SaveSubscription(ctx, domain.Subscription{ChatID: 11, Kind: domain.SubMatchday, Team: "Real Madrid"}))

	bus := NewEventBus(logger)
	ch, unsub := bus.Subscribe(TopicDigest)
	defer unsub()

	fixtures := &upcomingFixtureSource{match: domain.Match{
		ID: 4400, When: time.Now().Add(72 * time.Hour), Home: "Real Madrid", Away: "Getafe",
	}}
	s := NewDigestScheduler(logger, repo, fixtures, nil, bus)

	s.checkMatchdays(ctx)
	select {
	case e := <-ch:
		t.Fatalf("reminder sent for a fixture days away: %v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNextCronRun_DailyAtNine(t *testing.T) {
	from := time.Date(2026, 8, 29, 7, 30, 0, 0, time.UTC)
	next, err := nextCronRun("0 9 * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC), next)

	// Past today's slot: rolls to tomorrow.
	from = time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	next, err = nextCronRun("0 9 * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC), next)
}

func TestNextCronRun_EveryQuarterHour(t *testing.T) {
	from := time.Date(2026, 8, 29, 12, 1, 0, 0, time.UTC)
	next, err := nextCronRun("*/15 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 29, 12, 15, 0, 0, time.UTC), next)
}

func TestNextCronRun_InvalidExpression(t *testing.T) {
	_, err := nextCronRun("0 9 * *", time.Now())
	assert.Error(t, err)
}

func TestMatchesCronField(t *testing.T) {
	assert.True(t, matchesCronField("*", 42))
	assert.True(t, matchesCronField("*/5", 10))
	assert.False(t, matchesCronField("*/5", 7))
	assert.True(t, matchesCronField("9", 9))
	assert.False(t, matchesCronField("9", 10))
	assert.True(t, matchesCronField("1,15,30", 15))
	assert.False(t, matchesCronField("1,15,30", 16))
}
