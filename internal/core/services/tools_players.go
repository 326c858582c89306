package services

import (
	"context"
	"fmt"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// Player tools backed by API-Football.

func newPlayerStatsTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "player_stats",
		Description: "Basic season stats for a player: appearances, goals, assists, rating.",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"player_name": map[string]interface{}{"type": "string"},
				"query":       map[string]interface{}{"type": "string", "description": "Raw question text, used when player_name is empty."},
			},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			name := argString(args, "player_name", "")
			if name == "" {
				name = ResolvePlayer(argString(args, "query", ""))
			}
			if name == "" {
				return domain.ToolFailure(citAPIFootball, "Which player?")
			}
			stats, err := deps.Fixtures.PlayerSeasonStats(ctx, name)
			if err != nil {
				return domain.ToolFailure(citAPIFootball, "Player stats unavailable.")
			}
			if stats == nil {
				return domain.ToolFailure(citAPIFootball, fmt.Sprintf("No season stats found for %s.", name))
			}
			return domain.ToolSuccess(citAPIFootball, map[string]interface{}{
				"items": []interface{}{playerStatFields(stats)},
			})
		},
	}
}

func newComparePlayersTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "compare_players",
		Description: "Compare two players' season stats, including per-90 goals and assists.",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"player_a": map[string]interface{}{"type": "string"},
				"player_b": map[string]interface{}{"type": "string"},
			},
			Required: []string{"player_a", "player_b"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			nameA := ResolvePlayer(argString(args, "player_a", ""))
			nameB := ResolvePlayer(argString(args, "player_b", ""))
			if nameA == "" || nameB == "" {
				return domain.ToolFailure(citAPIFootball, "Need two player names to compare.")
			}

			statsA, errA := deps.Fixtures.PlayerSeasonStats(ctx, nameA)
			statsB, errB := deps.Fixtures.PlayerSeasonStats(ctx, nameB)
			if errA != nil || errB != nil || statsA == nil || statsB == nil {
				return domain.ToolFailure(citAPIFootball, "Could not fetch stats for both players.")
			}

			return domain.ToolSuccess(citAPIFootball, map[string]interface{}{
				"items": []interface{}{playerStatFields(statsA), playerStatFields(statsB)},
			})
		},
	}
}

func playerStatFields(s *domain.PlayerStats) map[string]interface{} {
	fields := map[string]interface{}{
		"name": s.Name, "team": s.Team,
		"appearances": s.Appearances, "minutes": s.Minutes,
		"goals": s.Goals, "assists": s.Assists,
	}
	if s.Rating > 0 {
		fields["rating"] = s.Rating
	}
	if s.Minutes > 0 {
		per90 := float64(s.Minutes) / 90.0
		fields["goals_per90"] = round2(float64(s.Goals) / per90)
		fields["assists_per90"] = round2(float64(s.Assists) / per90)
	}
	return fields
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func newNextLineupsTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "next_lineups",
		Description: "Probable or confirmed lineup for a team's next match.",
		Parameters:  teamParam(),
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			team := argString(args, "team_name", deps.Defaults.Team)
			lineup, err := deps.Fixtures.NextLineups(ctx, team)
			if err != nil {
				return domain.ToolFailure(citAPIFootball, "Lineup data unavailable.")
			}
			if lineup == nil || len(lineup.Players) == 0 {
				return domain.ToolFailure(citAPIFootball, "No lineup published yet.")
			}
			items := make([]interface{}, 0, len(lineup.Players))
			for _, p := range lineup.Players {
				items = append(items, p)
			}
			return domain.ToolSuccess(citAPIFootball, map[string]interface{}{
				"items":     items,
				"team":      lineup.Team,
				"formation": lineup.Formation,
				"confirmed": lineup.Confirmed,
			})
		},
	}
}
