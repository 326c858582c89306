package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// CascadeOutcome is what the cascade hands back to the brain: the single
// winning payload, the citations collected along the way, and the
// best-effort message from the first attempt for non-strict degradation.
type CascadeOutcome struct {
	Result       domain.ToolResult
	Tool         string
	Sources      []string
	Attempted    []string
	FirstMessage string
}

// Cascade tries planner candidates in order until one yields a valid,
// non-empty result. Tools run strictly one at a time; no speculative
// parallel calls against paid/rate-limited providers.
type Cascade struct {
	logger   *slog.Logger
	registry *domain.ToolRegistry
	audit    *ToolAudit // optional
	defaults Defaults
}

// Defaults fill argument slots the question text leaves open.
type Defaults struct {
	Team        string
	Competition string
}

func NewCascade(logger *slog.Logger, registry *domain.ToolRegistry, audit *ToolAudit, defaults Defaults) *Cascade {
	return &Cascade{
		logger:   logger,
		registry: registry,
		audit:    audit,
		defaults: defaults,
	}
}

// Execute runs the plan against the registry. Returns (outcome, true) on
// the first non-empty result that passes recency validation, or
// (partial outcome, false) when every candidate is exhausted.
func (c *Cascade) Execute(ctx context.Context, plan []string, question string) (CascadeOutcome, bool) {
	out := CascadeOutcome{}

	for _, name := range plan {
		args := c.resolveArgs(name, question)

		res := c.registry.Execute(ctx, name, args)
		out.Attempted = append(out.Attempted, name)
		if c.audit != nil {
			c.audit.Record(ctx, name, args, res)
		}

		if out.FirstMessage == "" && res.Message != "" {
			out.FirstMessage = res.Message
		}
		if res.Source != "" {
			out.Sources = appendUnique(out.Sources, res.Source)
		}

		if IsEmpty(res) {
			c.logger.Debug("cascade candidate empty", "tool", name)
			continue
		}
		verdict := ValidateRecency(question, res)
		if !verdict.Valid {
			c.logger.Debug("cascade candidate rejected", "tool", name, "reason", string(verdict.Reason))
			continue
		}

		out.Result = res
		out.Tool = name
		// Only the winning tool's citation is surfaced; earlier
		// candidates answered nothing.
		out.Sources = []string{}
		if res.Source != "" {
			out.Sources = []string{res.Source}
		}
		c.logger.Info("cascade resolved", "tool", name, "attempts", len(out.Attempted))
		return out, true
	}

	c.logger.Info("cascade exhausted", "attempts", len(out.Attempted))
	return out, false
}

// resolveArgs builds the argument map for one candidate from the
// question text: the two-team tools get both sides, outcome tools get
// the extracted winner, everything else gets the first (or default) team.
func (c *Cascade) resolveArgs(tool, question string) map[string]interface{} {
	teams := ExtractTeams(question)

	teamA := c.defaults.Team
	teamB := ""
	if len(teams) > 0 {
		teamA = teams[0]
	}
	if len(teams) > 1 {
		teamB = teams[1]
	}

	switch tool {
	case "af_find_match_result":
		winner := ExtractWinner(question)
		opponent := teamA
		if winner != "" && strings.EqualFold(winner, teamA) && teamB != "" {
			opponent = teamB
		} else if winner == "" {
			winner = teamA
			opponent = teamB
		}
		return map[string]interface{}{"winner": winner, "opponent": opponent}
	case "af_last_result_vs", "h2h_wiki", "h2h_summary", "compare_teams":
		if teamB == "" {
			// Two-team tools need an opponent; fall back to the
			// configured team as the other side.
			teamB = c.defaults.Team
			if strings.EqualFold(teamA, teamB) {
				teamB = ""
			}
		}
		return map[string]interface{}{"team_a": teamA, "team_b": teamB}
	case "table":
		return map[string]interface{}{"competition": ResolveCompetition(question, c.defaults.Competition)}
	case "player_stats", "compare_players":
		return map[string]interface{}{"player_name": ResolvePlayer(question), "query": question}
	case "news_top":
		return map[string]interface{}{"query": strings.TrimSpace(question)}
	case "history_lookup":
		return map[string]interface{}{"query": strings.TrimSpace(question)}
	default:
		return map[string]interface{}{"team_name": teamA}
	}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
