package services

import (
	"log/slog"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
	"github.com/madridistaai/madridista/internal/core/ports"
)

// Provider citation strings surfaced to the user as source attributions.
const (
	citFootballData = "Football-Data"
	citAPIFootball  = "API-Football"
	citSofaScore    = "SofaScore"
	citWikipedia    = "Wikipedia"
	citLiveScore    = "LiveScore"
	citClubElo      = "ClubElo"
	citScorebat     = "Scorebat"
	citOpenMeteo    = "Open-Meteo"
	citExchange     = "ExchangeRate"
)

// ToolDeps bundles everything the football tools close over. Any nil
// source simply skips registration of the tools that need it.
type ToolDeps struct {
	Logger     *slog.Logger
	Matches    ports.MatchSource
	Fixtures   ports.FixtureSource
	Live       ports.LiveSource
	History    ports.HistorySource
	News       ports.NewsSource
	Elo        ports.EloSource
	Highlights ports.HighlightSource
	Weather    ports.WeatherSource
	Rates      ports.RatesSource
	Defaults   Defaults
}

// RegisterFootballTools builds and registers the full tool set. Tool
// names here must stay aligned with PlanTools' candidate lists.
func RegisterFootballTools(reg *domain.ToolRegistry, deps ToolDeps) error {
	var tools []*domain.Tool

	if deps.Matches != nil {
		tools = append(tools,
			newNextFixtureTool(deps),
			newLastResultTool(deps),
			newTableTool(deps),
			newFormTool(deps),
			newScorersTool(deps),
		)
	}
	if deps.Fixtures != nil {
		tools = append(tools,
			newAFNextFixtureTool(deps),
			newAFLastResultTool(deps),
			newAFLastResultVsTool(deps),
			newAFFindMatchResultTool(deps),
			newH2HSummaryTool(deps),
			newPlayerStatsTool(deps),
			newComparePlayersTool(deps),
			newNextLineupsTool(deps),
		)
	}
	if deps.Fixtures != nil && deps.Matches != nil {
		tools = append(tools, newCompareTeamsTool(deps))
	}
	if deps.Live != nil {
		tools = append(tools,
			newLiveNowTool(deps),
			newSofaFormTool(deps),
			newSquadTool(deps),
			newInjuriesTool(deps),
			newLastManOfMatchTool(deps),
		)
	}
	if deps.History != nil {
		tools = append(tools,
			newHistoryLookupTool(deps),
			newH2HWikiTool(deps),
			newRMUCLTitlesTool(deps),
			newUCLLastNWinnersTool(deps),
		)
	}
	if deps.News != nil {
		tools = append(tools, newNewsTopTool(deps), newNewsTeamTool(deps))
	}
	if deps.Elo != nil {
		tools = append(tools, newClubEloTool(deps))
	}
	if deps.Highlights != nil {
		tools = append(tools, newHighlightsTool(deps))
	}
	if deps.Weather != nil && deps.Fixtures != nil {
		tools = append(tools, newWeatherMatchTool(deps))
	}
	if deps.Rates != nil {
		tools = append(tools, newConvertTransferTool(deps))
	}
	tools = append(tools, newGlossaryTool())

	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// --- argument helpers ---

func argString(args map[string]interface{}, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func argInt(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func argFloat(args map[string]interface{}, key string, fallback float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}

func teamParam() domain.ToolParameters {
	return domain.ToolParameters{
		Type: "object",
		Properties: map[string]interface{}{
			"team_name": map[string]interface{}{"type": "string", "description": "Team name; defaults to Real Madrid."},
		},
	}
}

func twoTeamParams() domain.ToolParameters {
	return domain.ToolParameters{
		Type: "object",
		Properties: map[string]interface{}{
			"team_a": map[string]interface{}{"type": "string"},
			"team_b": map[string]interface{}{"type": "string"},
		},
		Required: []string{"team_a", "team_b"},
	}
}

func fmtWhen(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}

func matchFields(m *domain.Match) map[string]interface{} {
	fields := map[string]interface{}{
		"when": fmtWhen(m.When),
		"home": m.Home,
		"away": m.Away,
	}
	if m.ID != 0 {
		fields["fixture_id"] = m.ID
	}
	if m.League != "" {
		fields["competition"] = m.League
	}
	if m.Finished() {
		fields["home_score"] = *m.HomeScore
		fields["away_score"] = *m.AwayScore
	}
	return fields
}
