package services

import (
	"context"
	"fmt"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// Tools backed by Football-Data: scheduled matches, finished results,
// standings, top scorers.

func newNextFixtureTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "next_fixture",
		Description: "Nearest upcoming fixture for a team (default Real Madrid).",
		Parameters:  teamParam(),
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			team := argString(args, "team_name", deps.Defaults.Team)
			matches, err := deps.Matches.TeamMatches(ctx, team, "SCHEDULED", 30)
			if err != nil {
				return domain.ToolFailure(citFootballData, "Fixture data unavailable.")
			}
			if len(matches) == 0 {
				return domain.ToolFailure(citFootballData, "No upcoming fixtures.")
			}
			return domain.ToolSuccess(citFootballData, matchFields(&matches[0]))
		},
	}
}

func newLastResultTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "last_result",
		Description: "Latest finished result for a team (default Real Madrid).",
		Parameters:  teamParam(),
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			team := argString(args, "team_name", deps.Defaults.Team)
			matches, err := deps.Matches.TeamMatches(ctx, team, "FINISHED", 1)
			if err != nil {
				return domain.ToolFailure(citFootballData, "Result data unavailable.")
			}
			if len(matches) == 0 {
				return domain.ToolFailure(citFootballData, "No recent match found.")
			}
			return domain.ToolSuccess(citFootballData, matchFields(&matches[0]))
		},
	}
}

func newTableTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "table",
		Description: "League table top rows (default LaLiga).",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"competition": map[string]interface{}{"type": "string", "description": "Competition name; defaults to LaLiga."},
			},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			comp := argString(args, "competition", deps.Defaults.Competition)
			table, err := deps.Matches.CompetitionTable(ctx, comp)
			if err != nil {
				return domain.ToolFailure(citFootballData, "Table data unavailable.")
			}
			if len(table) == 0 {
				return domain.ToolFailure(citFootballData, "No standings found.")
			}
			if len(table) > 10 {
				table = table[:10]
			}
			rows := make([]interface{}, 0, len(table))
			for _, r := range table {
				rows = append(rows, map[string]interface{}{"pos": r.Position, "team": r.Team, "pts": r.Points})
			}
			return domain.ToolSuccess(citFootballData, map[string]interface{}{"rows": rows, "competition": comp})
		},
	}
}

func newFormTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "form",
		Description: "Last N finished results for a team (default 5).",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"team_name": map[string]interface{}{"type": "string"},
				"k":         map[string]interface{}{"type": "integer", "description": "How many results, default 5."},
			},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			team := argString(args, "team_name", deps.Defaults.Team)
			k := argInt(args, "k", 5)
			matches, err := deps.Matches.TeamMatches(ctx, team, "FINISHED", max(10, k))
			if err != nil {
				return domain.ToolFailure(citFootballData, "Form data unavailable.")
			}
			if len(matches) == 0 {
				return domain.ToolFailure(citFootballData, "No recent results.")
			}
			if len(matches) > k {
				matches = matches[:k]
			}
			results := make([]interface{}, 0, len(matches))
			for i := range matches {
				results = append(results, matchFields(&matches[i]))
			}
			return domain.ToolSuccess(citFootballData, map[string]interface{}{"items": results, "team": team})
		},
	}
}

func newScorersTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "scorers",
		Description: "Top goal scorers for a competition (default LaLiga).",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"competition": map[string]interface{}{"type": "string"},
				"limit":       map[string]interface{}{"type": "integer"},
			},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			comp := argString(args, "competition", deps.Defaults.Competition)
			limit := argInt(args, "limit", 10)
			scorers, err := deps.Matches.CompetitionScorers(ctx, comp, limit)
			if err != nil {
				return domain.ToolFailure(citFootballData, "Scorer data unavailable.")
			}
			if len(scorers) == 0 {
				return domain.ToolFailure(citFootballData, "No scorer data found.")
			}
			rows := make([]interface{}, 0, len(scorers))
			for _, s := range scorers {
				rows = append(rows, map[string]interface{}{"player": s.Player, "team": s.Team, "goals": s.Goals})
			}
			return domain.ToolSuccess(citFootballData, map[string]interface{}{"rows": rows, "competition": comp})
		},
	}
}

func newCompareTeamsTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "compare_teams",
		Description: "Compare two teams' recent form (last k results each) with a quick points verdict.",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"team_a": map[string]interface{}{"type": "string"},
				"team_b": map[string]interface{}{"type": "string"},
				"k":      map[string]interface{}{"type": "integer"},
			},
			Required: []string{"team_a", "team_b"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			teamA := argString(args, "team_a", deps.Defaults.Team)
			teamB := argString(args, "team_b", "")
			if teamB == "" {
				return domain.ToolFailure(citFootballData, "Need two teams to compare.")
			}
			k := argInt(args, "k", 5)

			ptsA, playedA, err := formPoints(ctx, deps, teamA, k)
			if err != nil {
				return domain.ToolFailure(citFootballData, "Form data unavailable for "+teamA+".")
			}
			ptsB, playedB, err := formPoints(ctx, deps, teamB, k)
			if err != nil {
				return domain.ToolFailure(citFootballData, "Form data unavailable for "+teamB+".")
			}
			if playedA == 0 && playedB == 0 {
				return domain.ToolFailure(citFootballData, "No recent results for either team.")
			}

			verdict := teamA
			if ptsB > ptsA {
				verdict = teamB
			} else if ptsA == ptsB {
				verdict = "even"
			}
			return domain.ToolSuccess(citFootballData, map[string]interface{}{
				"items": []interface{}{
					map[string]interface{}{"team": teamA, "points": ptsA, "played": playedA},
					map[string]interface{}{"team": teamB, "points": ptsB, "played": playedB},
				},
				"verdict": verdict,
			})
		},
	}
}

func formPoints(ctx context.Context, deps ToolDeps, team string, k int) (points, played int, err error) {
	matches, err := deps.Matches.TeamMatches(ctx, team, "FINISHED", max(10, k))
	if err != nil {
		return 0, 0, err
	}
	if len(matches) > k {
		matches = matches[:k]
	}
	for _, m := range matches {
		if !m.Finished() {
			continue
		}
		played++
		isHome := equalFoldTeam(m.Home, team)
		hs, as := *m.HomeScore, *m.AwayScore
		switch {
		case hs == as:
			points++
		case isHome && hs > as, !isHome && as > hs:
			points += 3
		}
	}
	return points, played, nil
}

func equalFoldTeam(a, b string) bool {
	return normText(a) == normText(b) ||
		ResolveTeamID(a) != 0 && ResolveTeamID(a) == ResolveTeamID(b)
}

// newGlossaryTool answers definitional questions from a fixed built-in
// glossary, keeping rules questions off the network entirely.
func newGlossaryTool() *domain.Tool {
	glossary := map[string]string{
		"offside":     "A player is offside when nearer to the opponents' goal line than both the ball and the second-last opponent at the moment the ball is played forward to them.",
		"var":         "VAR (Video Assistant Referee) reviews goals, penalties, straight red cards and mistaken identity using video footage.",
		"clasico":     "El Clásico is the fixture between Real Madrid and Barcelona, the most watched club match in world football.",
		"hat-trick":   "Three goals by one player in a single match.",
		"clean sheet": "A match where a team concedes no goals.",
		"derby":       "A match between two local or historic rivals, such as the Madrid derby (Real Madrid vs Atlético).",
	}
	return &domain.Tool{
		Name:        "glossary",
		Description: "Definitions of football terms (offside, VAR, clásico, ...).",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"term": map[string]interface{}{"type": "string"},
			},
			Required: []string{"term"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			term := normText(argString(args, "term", ""))
			for key, def := range glossary {
				if term == key || term != "" && len(term) > 2 && containsAny(key, []string{term}) {
					return domain.ToolSuccess("", map[string]interface{}{"extract": def, "term": key})
				}
			}
			return domain.ToolFailure("", fmt.Sprintf("No glossary entry for %q.", term))
		},
	}
}
