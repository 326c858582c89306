package ports

import (
	"context"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// Repository abstracts the persistent storage (DuckDB)
type Repository interface {
	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SaveSetting(ctx context.Context, key string, value string) error

	// Chat memory
	AddMessage(ctx context.Context, msg domain.Message) error
	ListMessages(ctx context.Context, chatID domain.ChatID, limit int) ([]domain.Message, error)
	GetSummary(ctx context.Context, chatID domain.ChatID) (string, error)
	SaveSummary(ctx context.Context, chatID domain.ChatID, summary string) error

	// Subscriptions
	SaveSubscription(ctx context.Context, sub domain.Subscription) error
	DeleteSubscription(ctx context.Context, chatID domain.ChatID, kind domain.SubscriptionKind) error
	ListSubscriptions(ctx context.Context) ([]domain.Subscription, error)
	ListChatSubscriptions(ctx context.Context, chatID domain.ChatID) ([]domain.Subscription, error)

	// Tool-call audit log
	SaveToolCall(ctx context.Context, rec domain.ToolCallRecord) error
	ListRecentToolCalls(ctx context.Context, limit int) ([]domain.ToolCallRecord, error)
}

// MatchSource is the Football-Data capability: scheduled competitions,
// team calendars, standings, top scorers.
type MatchSource interface {
	TeamMatches(ctx context.Context, team string, status string, limit int) ([]domain.Match, error)
	CompetitionTable(ctx context.Context, competition string) ([]domain.TableRow, error)
	CompetitionScorers(ctx context.Context, competition string, limit int) ([]domain.Scorer, error)
}

// FixtureSource is the API-Football capability: fixture search across
// leagues, head-to-head, players, lineups.
type FixtureSource interface {
	NextFixture(ctx context.Context, team string) (*domain.Match, error)
	LastResult(ctx context.Context, team string) (*domain.Match, error)
	LastResultBetween(ctx context.Context, teamA, teamB string) (*domain.Match, error)
	// FindMatchResult returns the most recent meeting that the named
	// winner actually won against the opponent, or nil when none exists.
	FindMatchResult(ctx context.Context, winner, opponent string) (*domain.Match, error)
	HeadToHead(ctx context.Context, teamA, teamB string, limit int) ([]domain.Match, error)
	PlayerSeasonStats(ctx context.Context, player string) (*domain.PlayerStats, error)
	NextLineups(ctx context.Context, team string) (*domain.Lineup, error)
}

// LiveSource is the SofaScore capability: live score for the configured
// team, recent form, squad and availability.
type LiveSource interface {
	LiveEvent(ctx context.Context) (*domain.LiveEvent, error) // nil when not playing
	BestPlayer(ctx context.Context, eventID int64) (name string, rating float64, err error)
	TeamForm(ctx context.Context, limit int) ([]domain.Match, error)
	Squad(ctx context.Context) ([]domain.SquadPlayer, error)
	Injuries(ctx context.Context) ([]domain.SquadPlayer, error)
}

// HistorySource is the Wikipedia capability for historical lookups.
type HistorySource interface {
	Summary(ctx context.Context, title string) (*domain.WikiExtract, error)
	Search(ctx context.Context, query string) (*domain.WikiExtract, error)
}

// NewsSource returns fresh football headlines.
type NewsSource interface {
	TopNews(ctx context.Context, limit int) ([]domain.NewsItem, error)
}

// EloSource returns club strength ratings.
type EloSource interface {
	TeamElo(ctx context.Context, team string) (*domain.EloRating, error)
}

// HighlightSource returns recent highlight clips.
type HighlightSource interface {
	LatestByTeam(ctx context.Context, team string, limit int) ([]domain.Video, error)
}

// WeatherSource returns a forecast for a venue city around kickoff.
type WeatherSource interface {
	Forecast(ctx context.Context, city string, at time.Time) (*domain.Weather, error)
}

// RatesSource converts transfer fees between currencies.
type RatesSource interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}
