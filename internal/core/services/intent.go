package services

import (
	"regexp"
	"strings"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// Keyword tables for the intent heuristics. Several words appear in more
// than one table on purpose ("beat" reads as a last-result, a history and
// a comparison signal); precedence between overlapping intents is fixed
// by evaluation order, and the planner's trailing fallbacks absorb the
// cases where the order picks wrong.
var (
	liveWords    = []string{"live", "now", "currently", "minute", "ht", "ft"}
	nextWords    = []string{"next", "upcoming", "who do", "fixture", "play next", "schedule"}
	lastWords    = []string{"last", "previous", "most recent", "result", "score", "final score", "ft", "ended", "beat", "defeated", "won", "happened when"}
	newsWords    = []string{"news", "headline", "rumor", "transfer", "breaking"}
	historyWords = []string{"history", "historical", "winner", "winners", "champion", "finals", "season", "decade", "record", "happened when", "beat", "defeated", "won", "past", "ago"}
	playerWords  = []string{"player", "stats", "per 90", "goals", "assists", "rating"}
	compareWords = []string{"compare", "vs", "versus", "h2h", "head to head", "last score between", "last result between", "beat", "defeated", "won against", "when", "between"}
	outcomeWords = []string{"happened when", "beat", "defeated", "won against", "when did", "defeat"}

	factWords = []string{
		"score", "result", "fixture", "match", "lineup", "table", "standings",
		"transfer", "news", "winner", "won", "history", "champion", "stats",
		"goals", "assists", "injur", "squad", "live", "next", "last",
	}

	yearRe = regexp.MustCompile(`\b(19[0-9]{2}|20[0-2][0-9])\b`)
)

func containsAny(q string, words []string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func looksLive(q string) bool    { return containsAny(q, liveWords) }
func looksNext(q string) bool    { return containsAny(q, nextWords) }
func looksLast(q string) bool    { return containsAny(q, lastWords) }
func looksNews(q string) bool    { return containsAny(q, newsWords) }
func looksPlayers(q string) bool { return containsAny(q, playerWords) }
func looksCompare(q string) bool { return containsAny(q, compareWords) }
func looksOutcome(q string) bool { return containsAny(q, outcomeWords) }

func looksHistory(q string) bool {
	return yearRe.MatchString(q) || containsAny(q, historyWords)
}

// looksFactual reports whether the question demands externally-verified
// data rather than opinion or a concept explanation. This gate decides
// whether the brain may answer from model knowledge alone.
func looksFactual(q string) bool {
	return yearRe.MatchString(q) || containsAny(q, factWords)
}

var lastNWinnersRe = regexp.MustCompile(`last\s+\d+\s+(?:ucl|champions league|european cup)?\s*winners?`)

// Classify inspects the raw question text and emits the coarse intent.
// Pure function of the text and the static keyword tables.
func Classify(text string) domain.Intent {
	q := strings.ToLower(strings.TrimSpace(text))

	intent := domain.Intent{
		Label:        domain.IntentGeneral,
		LooksFactual: looksFactual(q),
	}

	switch {
	case looksCompare(q) && looksOutcome(q):
		intent.Label = domain.IntentHeadToHead
	case looksLive(q):
		intent.Label = domain.IntentLive
	case looksNext(q):
		intent.Label = domain.IntentNextFixture
	case looksLast(q):
		intent.Label = domain.IntentLastResult
	case looksNews(q):
		intent.Label = domain.IntentNews
	case looksPlayers(q):
		intent.Label = domain.IntentPlayerStats
	case looksCompare(q):
		intent.Label = domain.IntentComparison
	case looksHistory(q):
		intent.Label = domain.IntentHistory
	}

	intent.Hint = hintFor(q)
	return intent
}

// hintFor produces the advisory tool hint for the system prompt, most
// specific phrasing first.
func hintFor(q string) string {
	switch {
	case lastNWinnersRe.MatchString(q):
		return "Use ucl_last_n_winners for 'last N winners' questions."
	case containsAny(q, []string{"h2h", "head to head", "last score between", "last result between"}):
		return "Use af_last_result_vs first, then h2h_wiki or h2h_summary."
	case looksOutcome(q):
		return "Use af_find_match_result with the winner extracted from the question, then af_last_result_vs."
	case yearRe.MatchString(q) || (looksHistory(q) && !looksLast(q)):
		// An explicit year marks the question historical even when result
		// words like "won" also appear.
		return "Use history_lookup (Wikipedia) for historical questions."
	case looksNews(q):
		return "Use news_top, optionally filtered by the team or player named."
	case containsAny(q, []string{"compare", "vs", "versus"}):
		return "Use compare_teams, h2h_summary or compare_players."
	case containsAny(q, []string{"lineup", "line-ups", "line up", "xi", "starting eleven"}):
		return "Use next_lineups."
	case looksPlayers(q):
		return "Use player_stats or compare_players."
	case looksNext(q):
		return "Use af_next_fixture or next_fixture."
	case looksLast(q):
		return "Use af_last_result or last_result."
	case strings.HasPrefix(q, "what is") || strings.HasPrefix(q, "what's a") || strings.HasPrefix(q, "explain"):
		return "Definitional question; answer briefly without tools unless facts are needed."
	}
	return ""
}
