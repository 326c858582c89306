package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madridistaai/madridista/internal/core/domain"
)

var errLLMDown = errors.New("llm unavailable")

func newTestBrain(t *testing.T, llm domain.LLMProvider, reg *domain.ToolRegistry, policy domain.PolicyConfig) *Brain {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cascade := NewCascade(logger, reg, nil, Defaults{Team: "Real Madrid", Competition: "LaLiga"})
	return NewBrain(logger, llm, reg, cascade, nil, policy)
}

func TestBrain_ScopeGate(t *testing.T) {
	brain := newTestBrain(t, &fakeLLM{}, domain.NewToolRegistry(), domain.PolicyConfig{StrictFacts: true})

	answer := brain.AnswerQuestion(context.Background(), "recommend me a good pizza place", "")
	assert.Equal(t, scopeRefusal, answer)
}

func TestBrain_StrictFactsRefusal(t *testing.T) {
	// Factual question, the model never calls a tool, and the cascade has
	// nothing to work with. Strict mode must refuse, never guess.
	llm := &fakeLLM{completions: []domain.Completion{
		{Content: "Real Madrid won 3-0 I think"},
		{Content: "Probably 3-0"},
	}}
	brain := newTestBrain(t, llm, domain.NewToolRegistry(), domain.PolicyConfig{StrictFacts: true})

	answer := brain.AnswerQuestion(context.Background(), "what was the last Real Madrid score?", "")
	assert.Equal(t, cannotVerify, answer)
}

func TestBrain_NonStrictFallsBackToFirstMessage(t *testing.T) {
	llm := &fakeLLM{completions: []domain.Completion{
		{Content: "no idea"},
		{Content: "still no idea"},
	}}
	reg := domain.NewToolRegistry()
	var calls int
	require.NoError(t, reg.Register(stubTool("af_last_result", &calls, domain.ToolFailure("API-Football", "provider timeout"))))

	brain := newTestBrain(t, llm, reg, domain.PolicyConfig{StrictFacts: false})

	answer := brain.AnswerQuestion(context.Background(), "what was the last Real Madrid score?", "")
	assert.Equal(t, "provider timeout", answer)
}

func TestBrain_LLMToolCallPathWithCitations(t *testing.T) {
	reg := domain.NewToolRegistry()
	var calls int
	require.NoError(t, reg.Register(stubTool("af_last_result", &calls, domain.ToolSuccess("API-Football", map[string]interface{}{
		"when": "2026-08-28 19:00 UTC", "home": "Real Madrid", "away": "Sevilla",
		"home_score": 2, "away_score": 0,
	}))))

	llm := &fakeLLM{completions: []domain.Completion{
		// First turn: the model requests a tool.
		{ToolCalls: []domain.LLMToolCall{{ID: "call_1", Name: "af_last_result", Arguments: `{"team_name":"Real Madrid"}`}}},
		// Composition turn.
		{Content: "Real Madrid beat Sevilla 2-0 on Friday."},
	}}
	brain := newTestBrain(t, llm, reg, domain.PolicyConfig{StrictFacts: true, Citations: true})

	answer := brain.AnswerQuestion(context.Background(), "what was the last score?", "")
	assert.Equal(t, 1, calls)
	assert.Contains(t, answer, "Real Madrid beat Sevilla 2-0")
	assert.Contains(t, answer, "(API-Football)")
}

func TestBrain_CascadeAfterEmptyLLMTools(t *testing.T) {
	reg := domain.NewToolRegistry()
	var liveCalls, lastCalls int
	require.NoError(t, reg.Register(stubTool("live_now", &liveCalls, domain.ToolFailure("SofaScore", "not playing"))))
	require.NoError(t, reg.Register(stubTool("af_last_result", &lastCalls, domain.ToolSuccess("API-Football", map[string]interface{}{
		"when": "2026-08-28 19:00 UTC", "home": "Real Madrid", "away": "Sevilla",
		"fixture_id": int64(812345),
	}))))

	llm := &fakeLLM{completions: []domain.Completion{
		// The model picks a tool that answers nothing.
		{ToolCalls: []domain.LLMToolCall{{ID: "call_1", Name: "live_now", Arguments: `{}`}}},
		// Cascade composition turn.
		{Content: "Last time out Real Madrid played Sevilla."},
	}}
	brain := newTestBrain(t, llm, reg, domain.PolicyConfig{StrictFacts: true, Citations: true})

	answer := brain.AnswerQuestion(context.Background(), "score now?", "")
	// Once from the model's own call, once as the cascade's first candidate.
	assert.Equal(t, 2, liveCalls)
	assert.Equal(t, 1, lastCalls, "cascade must try the planner fallback")
	assert.Contains(t, answer, "Sevilla")
}

func TestBrain_LLMDownStillAnswersFromTools(t *testing.T) {
	reg := domain.NewToolRegistry()
	var calls int
	require.NoError(t, reg.Register(stubTool("af_next_fixture", &calls, domain.ToolSuccess("API-Football", map[string]interface{}{
		"when": "2026-08-30 19:00 UTC", "home": "Real Madrid", "away": "Mallorca",
	}))))

	llm := &fakeLLM{errs: []error{errLLMDown}}
	brain := newTestBrain(t, llm, reg, domain.PolicyConfig{StrictFacts: true, Citations: true})

	answer := brain.AnswerQuestion(context.Background(), "next fixture?", "")
	assert.Contains(t, answer, "Mallorca")
	assert.Contains(t, answer, "(API-Football)")
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("á", 4000)
	got := Truncate(long, maxAnswerRunes)
	assert.Equal(t, maxAnswerRunes, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))

	assert.Equal(t, "short", Truncate("short", maxAnswerRunes))
}

func TestInScope(t *testing.T) {
	assert.True(t, InScope("when does real madrid play"))
	assert.True(t, InScope("is mbappe injured"))
	assert.True(t, InScope("explain offside"))
	assert.False(t, InScope("best pizza in rome"))
	assert.False(t, InScope("write me a poem about rain"))
}
