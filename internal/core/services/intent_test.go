package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/madridistaai/madridista/internal/core/domain"
)

func TestClassify_Labels(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     domain.IntentLabel
	}{
		{"live score", "what's the score right now?", domain.IntentLive},
		{"next fixture", "who do we play next?", domain.IntentNextFixture},
		{"last result", "what was the last result?", domain.IntentLastResult},
		{"news", "any transfer news today?", domain.IntentNews},
		{"player stats", "how many goals does Bellingham have?", domain.IntentPlayerStats},
		{"history by year", "who was champion in 1998?", domain.IntentHistory},
		{"outcome beats comparison", "what happened when Real Madrid beat Barcelona?", domain.IntentHeadToHead},
		{"outcome defeated", "Madrid defeated Atletico, when was that?", domain.IntentHeadToHead},
		{"general chit chat", "do you think football is beautiful?", domain.IntentGeneral},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.question)
			assert.Equal(t, tc.want, got.Label)
		})
	}
}

func TestClassify_LiveBeatsNext(t *testing.T) {
	// "now" is a live signal even when "next" also appears.
	got := Classify("are they playing now or is the next game later?")
	assert.Equal(t, domain.IntentLive, got.Label)
}

func TestClassify_FactualFlag(t *testing.T) {
	assert.True(t, Classify("what was the final score?").LooksFactual)
	assert.True(t, Classify("who won the cup in 2014?").LooksFactual)
	assert.False(t, Classify("explain the offside rule please").LooksFactual)
}

func TestHintFor(t *testing.T) {
	tests := []struct {
		question string
		contains string
	}{
		{"last 5 ucl winners", "ucl_last_n_winners"},
		{"h2h real madrid vs barcelona", "af_last_result_vs"},
		{"when did madrid beat barca", "af_find_match_result"},
		{"Who won the Champions League in 1960?", "history_lookup"},
		{"who was champion in 1998?", "history_lookup"},
		{"starting xi for tonight", "next_lineups"},
		{"what is a false nine", "Definitional"},
	}
	for _, tc := range tests {
		got := Classify(tc.question)
		assert.Contains(t, got.Hint, tc.contains, "question: %s", tc.question)
	}
}
