package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanTools_OutcomeQuestion(t *testing.T) {
	plan := PlanTools("what happened when Real Madrid beat Barcelona?")
	assert.Equal(t, []string{
		"af_find_match_result", "af_last_result_vs", "h2h_wiki", "h2h_summary",
		"compare_teams", "sofa_form", "table", "history_lookup",
	}, plan)
}

func TestPlanTools_NextFixture(t *testing.T) {
	plan := PlanTools("when is the next fixture?")
	assert.Equal(t, "af_next_fixture", plan[0])
	assert.Equal(t, "next_fixture", plan[1])
}

func TestPlanTools_AlwaysEndsWithFallbacks(t *testing.T) {
	for _, q := range []string{
		"latest news please",
		"how is the team doing",
		"compare madrid vs bayern",
	} {
		plan := PlanTools(q)
		assert.NotEmpty(t, plan, "question: %s", q)
		n := len(plan)
		assert.Equal(t, []string{"sofa_form", "table", "history_lookup"}, plan[n-3:], "question: %s", q)
	}
}

func TestPlanTools_Deduplicates(t *testing.T) {
	// The history branch plans history_lookup, which is also a trailing
	// fallback; it must appear once, in its first-seen slot.
	plan := PlanTools("tell me about the 1960 european cup winners")
	assert.Equal(t, []string{"history_lookup", "sofa_form", "table"}, plan)
}
