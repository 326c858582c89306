package services

import (
	"context"
	"fmt"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// Tools backed by API-Football: cross-league fixture search, last
// head-to-head, winner-filtered match lookup.

func newAFNextFixtureTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "af_next_fixture",
		Description: "Nearest upcoming fixture for a team across all covered leagues.",
		Parameters:  teamParam(),
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			team := argString(args, "team_name", deps.Defaults.Team)
			m, err := deps.Fixtures.NextFixture(ctx, team)
			if err != nil {
				return domain.ToolFailure(citAPIFootball, "Fixture lookup failed.")
			}
			if m == nil {
				return domain.ToolFailure(citAPIFootball, "No upcoming fixture found.")
			}
			return domain.ToolSuccess(citAPIFootball, matchFields(m))
		},
	}
}

func newAFLastResultTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "af_last_result",
		Description: "Latest finished result for a team across all covered leagues.",
		Parameters:  teamParam(),
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			team := argString(args, "team_name", deps.Defaults.Team)
			m, err := deps.Fixtures.LastResult(ctx, team)
			if err != nil {
				return domain.ToolFailure(citAPIFootball, "Result lookup failed.")
			}
			if m == nil {
				return domain.ToolFailure(citAPIFootball, "No finished match found.")
			}
			return domain.ToolSuccess(citAPIFootball, matchFields(m))
		},
	}
}

func newAFLastResultVsTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "af_last_result_vs",
		Description: "Most recent meeting between two teams, with the final score.",
		Parameters:  twoTeamParams(),
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			teamA := argString(args, "team_a", deps.Defaults.Team)
			teamB := argString(args, "team_b", "")
			if teamB == "" {
				return domain.ToolFailure(citAPIFootball, "Need both teams for a head-to-head result.")
			}
			m, err := deps.Fixtures.LastResultBetween(ctx, teamA, teamB)
			if err != nil {
				return domain.ToolFailure(citAPIFootball, "Head-to-head lookup failed.")
			}
			if m == nil {
				return domain.ToolFailure(citAPIFootball, fmt.Sprintf("No meeting between %s and %s found.", teamA, teamB))
			}
			return domain.ToolSuccess(citAPIFootball, matchFields(m))
		},
	}
}

func newAFFindMatchResultTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "af_find_match_result",
		Description: "Most recent match a given winner actually won against an opponent ('when X beat Y' questions).",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"winner":   map[string]interface{}{"type": "string", "description": "Team claimed to have won."},
				"opponent": map[string]interface{}{"type": "string"},
			},
			Required: []string{"winner", "opponent"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			winner := argString(args, "winner", "")
			opponent := argString(args, "opponent", "")
			if winner == "" || opponent == "" {
				return domain.ToolFailure(citAPIFootball, "Need a winner and an opponent.")
			}
			m, err := deps.Fixtures.FindMatchResult(ctx, winner, opponent)
			if err != nil {
				return domain.ToolFailure(citAPIFootball, "Match search failed.")
			}
			if m == nil {
				return domain.ToolFailure(citAPIFootball, fmt.Sprintf("Found no match where %s beat %s.", winner, opponent))
			}
			fields := matchFields(m)
			fields["winner"] = winner
			return domain.ToolSuccess(citAPIFootball, fields)
		},
	}
}

func newH2HSummaryTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "h2h_summary",
		Description: "Head-to-head summary between two teams: recent meetings and the win/draw split.",
		Parameters:  twoTeamParams(),
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			teamA := argString(args, "team_a", deps.Defaults.Team)
			teamB := argString(args, "team_b", "")
			if teamB == "" {
				return domain.ToolFailure(citAPIFootball, "Need both teams for a head-to-head summary.")
			}
			meetings, err := deps.Fixtures.HeadToHead(ctx, teamA, teamB, 10)
			if err != nil {
				return domain.ToolFailure(citAPIFootball, "Head-to-head lookup failed.")
			}
			if len(meetings) == 0 {
				return domain.ToolFailure(citAPIFootball, fmt.Sprintf("No meetings between %s and %s on record.", teamA, teamB))
			}

			var winsA, winsB, draws int
			items := make([]interface{}, 0, len(meetings))
			for i := range meetings {
				m := &meetings[i]
				items = append(items, matchFields(m))
				if !m.Finished() {
					continue
				}
				hs, as := *m.HomeScore, *m.AwayScore
				switch {
				case hs == as:
					draws++
				case (equalFoldTeam(m.Home, teamA) && hs > as) || (equalFoldTeam(m.Away, teamA) && as > hs):
					winsA++
				default:
					winsB++
				}
			}
			return domain.ToolSuccess(citAPIFootball, map[string]interface{}{
				"items":  items,
				"wins_a": winsA, "wins_b": winsB, "draws": draws,
				"team_a": teamA, "team_b": teamB,
			})
		},
	}
}
