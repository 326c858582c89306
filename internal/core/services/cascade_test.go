package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madridistaai/madridista/internal/core/domain"
)

func stubTool(name string, calls *int, res domain.ToolResult) *domain.Tool {
	return &domain.Tool{
		Name:        name,
		Description: "stub",
		Parameters:  domain.ToolParameters{Type: "object", Properties: map[string]interface{}{}},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			*calls++
			return res
		},
	}
}

func TestCascade_StopsAtFirstValidResult(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	reg := domain.NewToolRegistry()

	var aCalls, bCalls, cCalls int
	require.NoError(t, reg.Register(stubTool("alpha", &aCalls, domain.ToolFailure("SofaScore", "not playing"))))
	require.NoError(t, reg.Register(stubTool("beta", &bCalls, domain.ToolSuccess("API-Football", map[string]interface{}{
		"when": "2026-08-30 19:00 UTC", "home": "Real Madrid", "away": "Sevilla",
	}))))
	require.NoError(t, reg.Register(stubTool("gamma", &cCalls, domain.ToolSuccess("Wikipedia", map[string]interface{}{"extract": "x"}))))

	c := NewCascade(logger, reg, nil, Defaults{Team: "Real Madrid", Competition: "LaLiga"})

	out, ok := c.Execute(context.Background(), []string{"alpha", "beta", "gamma"}, "next fixture?")
	require.True(t, ok)

	assert.Equal(t, "beta", out.Tool)
	assert.Equal(t, []string{"alpha", "beta"}, out.Attempted)
	assert.Equal(t, 1, aCalls)
	assert.Equal(t, 1, bCalls)
	assert.Equal(t, 0, cCalls, "later candidates must not run after a win")
	// Only the winning provider is cited.
	assert.Equal(t, []string{"API-Football"}, out.Sources)
}

func TestCascade_RejectsWrongShape(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	reg := domain.NewToolRegistry()

	var calls int
	// Non-empty, but a bare extract is the wrong shape for a "next" question.
	require.NoError(t, reg.Register(stubTool("wiki", &calls, domain.ToolSuccess("Wikipedia", map[string]interface{}{"extract": "history"}))))

	c := NewCascade(logger, reg, nil, Defaults{Team: "Real Madrid"})
	out, ok := c.Execute(context.Background(), []string{"wiki"}, "when is the next fixture?")

	assert.False(t, ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"wiki"}, out.Attempted)
}

func TestCascade_ExhaustedKeepsFirstMessage(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	reg := domain.NewToolRegistry()

	var a, b int
	require.NoError(t, reg.Register(stubTool("one", &a, domain.ToolFailure("SofaScore", "no live match right now"))))
	require.NoError(t, reg.Register(stubTool("two", &b, domain.ToolFailure("Football-Data", "rate limited"))))

	c := NewCascade(logger, reg, nil, Defaults{Team: "Real Madrid"})
	out, ok := c.Execute(context.Background(), []string{"one", "two"}, "score now?")

	assert.False(t, ok)
	assert.Equal(t, "no live match right now", out.FirstMessage)
	assert.Equal(t, 2, len(out.Attempted))
}

func TestCascade_ResolveArgs(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	c := NewCascade(logger, domain.NewToolRegistry(), nil, Defaults{Team: "Real Madrid", Competition: "LaLiga"})

	args := c.resolveArgs("af_last_result_vs", "last result between Barcelona and Bayern")
	assert.Equal(t, "Barcelona", args["team_a"])
	assert.Equal(t, "Bayern Munich", args["team_b"])

	// One named team: the configured side fills the other slot.
	args = c.resolveArgs("h2h_summary", "h2h against Liverpool")
	assert.Equal(t, "Liverpool", args["team_a"])
	assert.Equal(t, "Real Madrid", args["team_b"])

	args = c.resolveArgs("af_find_match_result", "what happened when Barcelona beat Real Madrid")
	assert.Equal(t, "Barcelona", args["winner"])
	assert.Equal(t, "Real Madrid", args["opponent"])

	args = c.resolveArgs("table", "ucl standings")
	assert.Equal(t, "Champions League", args["competition"])

	args = c.resolveArgs("sofa_form", "how is the team doing")
	assert.Equal(t, "Real Madrid", args["team_name"])
}
