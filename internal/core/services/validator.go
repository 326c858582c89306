package services

import (
	"strings"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// contentKeys are the fields that make a payload "content-bearing".
// A payload missing all of them answered nothing, whatever its ok flag says.
var contentKeys = []string{"items", "rows", "events", "extract", "fixture_id", "when", "home", "away"}

// IsEmpty reports whether a tool result is unusable: failed outright, or
// ok but carrying none of the content-bearing fields. Emptiness is
// independent of ValidateRecency — a payload can be non-empty and still
// fail the recency shape check.
func IsEmpty(res domain.ToolResult) bool {
	if !res.OK {
		return true
	}
	for _, k := range contentKeys {
		if res.Has(k) {
			return false
		}
	}
	return true
}

// ValidateRecency checks that a payload's shape matches the recency the
// question implies. Deliberately shallow: it cannot catch a wrong team
// or a stale-but-well-formed answer, only structurally wrong ones.
func ValidateRecency(question string, res domain.ToolResult) domain.Verdict {
	q := strings.ToLower(question)

	if containsAny(q, []string{"today", "now", "live"}) {
		// A live match before the first incident carries an empty events
		// list; the key's presence alone marks the payload live-shaped.
		_, hasEvents := res.Fields["events"]
		liveish := hasEvents || (res.Has("when") && res.Has("fixture_id"))
		if !liveish {
			return domain.Verdict{Valid: false, Reason: domain.VerdictNotLive}
		}
		return domain.Verdict{Valid: true, Reason: domain.VerdictOK}
	}

	if containsAny(q, []string{"last", "previous", "most recent"}) {
		if !(res.Has("home") && res.Has("away") && res.Has("when")) {
			return domain.Verdict{Valid: false, Reason: domain.VerdictNoLastResult}
		}
		return domain.Verdict{Valid: true, Reason: domain.VerdictOK}
	}

	if containsAny(q, []string{"next", "upcoming", "fixture", "play next"}) {
		if !(res.Has("when") && res.Has("home") && res.Has("away")) {
			return domain.Verdict{Valid: false, Reason: domain.VerdictNoNextFixture}
		}
		return domain.Verdict{Valid: true, Reason: domain.VerdictOK}
	}

	return domain.Verdict{Valid: true, Reason: domain.VerdictOK}
}
