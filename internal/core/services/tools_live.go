package services

import (
	"context"
	"strings"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// Tools backed by SofaScore: live score, recent form, squad, injuries.

func newLiveNowTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "live_now",
		Description: "Live score for the configured team if a match is in play right now.",
		Parameters:  domain.ToolParameters{Type: "object", Properties: map[string]interface{}{}},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			ev, err := deps.Live.LiveEvent(ctx)
			if err != nil {
				return domain.ToolFailure(citSofaScore, "Live data unavailable.")
			}
			if ev == nil {
				return domain.ToolFailure(citSofaScore, "No live match right now.")
			}
			return domain.ToolSuccess(citSofaScore, map[string]interface{}{
				"fixture_id": ev.ID,
				"home":       ev.Home, "away": ev.Away,
				"home_score": ev.HomeScore, "away_score": ev.AwayScore,
				"minute":      ev.Minute,
				"competition": ev.Competition,
				"events":      []interface{}{map[string]interface{}{"minute": ev.Minute, "state": "in_play"}},
			})
		},
	}
}

func newSofaFormTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "sofa_form",
		Description: "Recent finished results for the configured team, newest first.",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"k": map[string]interface{}{"type": "integer", "description": "How many results, default 5."},
			},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			k := argInt(args, "k", 5)
			form, err := deps.Live.TeamForm(ctx, max(k, 10))
			if err != nil {
				return domain.ToolFailure(citSofaScore, "Form data unavailable.")
			}
			if len(form) == 0 {
				return domain.ToolFailure(citSofaScore, "No recent results.")
			}
			if len(form) > k {
				form = form[:k]
			}
			events := make([]interface{}, 0, len(form))
			for i := range form {
				events = append(events, matchFields(&form[i]))
			}
			return domain.ToolSuccess(citSofaScore, map[string]interface{}{"events": events})
		},
	}
}

func newSquadTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "squad",
		Description: "Squad list for the configured team, optionally filtered by position prefix (G/D/M/F).",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"position": map[string]interface{}{"type": "string"},
			},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			pos := strings.ToLower(argString(args, "position", ""))
			players, err := deps.Live.Squad(ctx)
			if err != nil {
				return domain.ToolFailure(citSofaScore, "Squad data unavailable.")
			}
			items := make([]interface{}, 0, len(players))
			for _, p := range players {
				if pos != "" && !strings.HasPrefix(strings.ToLower(p.Position), pos) {
					continue
				}
				items = append(items, map[string]interface{}{"name": p.Name, "position": p.Position})
				if len(items) == 30 {
					break
				}
			}
			if len(items) == 0 {
				return domain.ToolFailure(citSofaScore, "No squad entries matched.")
			}
			return domain.ToolSuccess(citSofaScore, map[string]interface{}{"items": items})
		},
	}
}

func newInjuriesTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "injuries",
		Description: "Injured or unavailable players for the configured team.",
		Parameters:  domain.ToolParameters{Type: "object", Properties: map[string]interface{}{}},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			players, err := deps.Live.Injuries(ctx)
			if err != nil {
				return domain.ToolFailure(citSofaScore, "Injury data unavailable.")
			}
			if len(players) == 0 {
				return domain.ToolFailure(citSofaScore, "No unavailable players reported.")
			}
			items := make([]interface{}, 0, len(players))
			for _, p := range players {
				status := p.Status
				if status == "" {
					status = "Unavailable"
				}
				items = append(items, map[string]interface{}{"name": p.Name, "status": status})
			}
			return domain.ToolSuccess(citSofaScore, map[string]interface{}{"items": items})
		},
	}
}

func newLastManOfMatchTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "last_man_of_match",
		Description: "Man of the Match (top-rated player) of the configured team's current or latest event.",
		Parameters:  domain.ToolParameters{Type: "object", Properties: map[string]interface{}{}},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			ev, err := deps.Live.LiveEvent(ctx)
			if err != nil || ev == nil {
				return domain.ToolFailure(citSofaScore, "No recent event to rate.")
			}
			name, rating, err := deps.Live.BestPlayer(ctx, ev.ID)
			if err != nil || name == "" {
				return domain.ToolFailure(citSofaScore, "No Man of the Match data found.")
			}
			return domain.ToolSuccess(citSofaScore, map[string]interface{}{
				"items": []interface{}{map[string]interface{}{"name": name, "rating": rating}},
			})
		},
	}
}
