package services

import "strings"

// PlanTools returns the ordered candidate tools to try for a question.
// Names must match what RegisterFootballTools puts in the registry.
//
// The outcome branch comes before everything else so that an explicit
// result query ("happened when X beat Y") is never shadowed by the
// coarser comparison match. The trailing fallbacks (form, table,
// history_lookup) guarantee the plan is never empty.
func PlanTools(question string) []string {
	q := strings.ToLower(question)

	var plan []string

	switch {
	case looksCompare(q) && looksOutcome(q):
		plan = append(plan, "af_find_match_result", "af_last_result_vs", "h2h_wiki", "h2h_summary", "compare_teams")
	case looksLive(q):
		plan = append(plan, "live_now", "af_last_result")
	case looksNext(q):
		plan = append(plan, "af_next_fixture", "next_fixture")
	case looksLast(q):
		plan = append(plan, "af_last_result", "last_result")
	case looksNews(q):
		plan = append(plan, "news_top")
	case looksPlayers(q):
		plan = append(plan, "player_stats", "compare_players")
	case looksCompare(q):
		plan = append(plan, "af_last_result_vs", "h2h_wiki", "h2h_summary", "compare_teams")
	case looksHistory(q):
		plan = append(plan, "history_lookup")
	}

	plan = append(plan, "sofa_form", "table", "history_lookup")

	// De-dup preserving first-seen order; a tool is never tried twice.
	seen := make(map[string]bool, len(plan))
	ordered := plan[:0]
	for _, t := range plan {
		if !seen[t] {
			ordered = append(ordered, t)
			seen[t] = true
		}
	}
	return ordered
}
