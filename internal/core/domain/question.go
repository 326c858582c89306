package domain

// IntentLabel is the coarse classification of a user question
type IntentLabel string

const (
	IntentLive        IntentLabel = "live"
	IntentNextFixture IntentLabel = "next_fixture"
	IntentLastResult  IntentLabel = "last_result"
	IntentNews        IntentLabel = "news"
	IntentHistory     IntentLabel = "history"
	IntentHeadToHead  IntentLabel = "head_to_head"
	IntentPlayerStats IntentLabel = "player_stats"
	IntentComparison  IntentLabel = "comparison"
	IntentGeneral     IntentLabel = "general"
)

// Intent is the classification result for one question.
// Hint is advisory only: it is injected into the LLM's system context,
// never used to bypass the LLM's own tool selection.
type Intent struct {
	Label        IntentLabel
	Hint         string
	LooksFactual bool
}

// VerdictReason explains why a payload failed recency validation
type VerdictReason string

const (
	VerdictOK            VerdictReason = "ok"
	VerdictNotLive       VerdictReason = "not_live"
	VerdictNoLastResult  VerdictReason = "no_last_result"
	VerdictNoNextFixture VerdictReason = "no_next_fixture"
)

// Verdict is the outcome of shape-based recency validation for one payload
type Verdict struct {
	Valid  bool
	Reason VerdictReason
}
