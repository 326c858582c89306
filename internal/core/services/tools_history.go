package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// History tools backed by Wikipedia summaries. They return their text
// under the "extract" key so the validator treats them as content-bearing.

func newHistoryLookupTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "history_lookup",
		Description: "Look up historical football facts: past finals, records, titles, classic matches.",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{"type": "string", "description": "What to look up, e.g. '2014 Champions League final'."},
			},
			Required: []string{"query"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			query := strings.TrimSpace(argString(args, "query", ""))
			if query == "" {
				return domain.ToolFailure(citWikipedia, "Nothing to look up.")
			}
			extract, err := deps.History.Search(ctx, query)
			if err != nil || extract == nil || extract.Extract == "" {
				return domain.ToolFailure(citWikipedia, fmt.Sprintf("No article found for %q.", query))
			}
			return domain.ToolSuccess(citWikipedia, wikiFields(extract))
		},
	}
}

func newH2HWikiTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "h2h_wiki",
		Description: "Historical head-to-head background for a rivalry between two teams.",
		Parameters:  twoTeamParams(),
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			teamA := ResolveTeam(argString(args, "team_a", ""), deps.Defaults.Team)
			teamB := ResolveTeam(argString(args, "team_b", ""), "")
			if teamB == "" {
				return domain.ToolFailure(citWikipedia, "Need two teams for a head-to-head.")
			}
			// Known rivalries have their own article; fall back to search.
			title := rivalryTitle(teamA, teamB)
			var extract *domain.WikiExtract
			var err error
			if title != "" {
				extract, err = deps.History.Summary(ctx, title)
			}
			if extract == nil || err != nil {
				extract, err = deps.History.Search(ctx, teamA+" "+teamB+" rivalry")
			}
			if err != nil || extract == nil || extract.Extract == "" {
				return domain.ToolFailure(citWikipedia, "No rivalry article found.")
			}
			return domain.ToolSuccess(citWikipedia, wikiFields(extract))
		},
	}
}

func rivalryTitle(a, b string) string {
	pair := map[string]bool{a: true, b: true}
	switch {
	case pair["Real Madrid"] && pair["Barcelona"]:
		return "El Clásico"
	case pair["Real Madrid"] && pair["Atlético Madrid"]:
		return "Madrid derby"
	case pair["Barcelona"] && pair["Espanyol"]:
		return "Derbi barceloní"
	}
	return ""
}

func newRMUCLTitlesTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "rm_ucl_titles",
		Description: "Real Madrid's European Cup and Champions League titles.",
		Parameters:  domain.ToolParameters{Type: "object", Properties: map[string]interface{}{}},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			extract, err := deps.History.Summary(ctx, "Real Madrid CF in international football")
			if err != nil || extract == nil || extract.Extract == "" {
				extract, err = deps.History.Search(ctx, "Real Madrid European Cup Champions League titles")
			}
			if err != nil || extract == nil || extract.Extract == "" {
				return domain.ToolFailure(citWikipedia, "Title history unavailable.")
			}
			return domain.ToolSuccess(citWikipedia, wikiFields(extract))
		},
	}
}

func newUCLLastNWinnersTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "ucl_last_n_winners",
		Description: "Winners of the last N editions of the Champions League.",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"n": map[string]interface{}{"type": "integer", "description": "Number of seasons to cover, default 5."},
			},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			n := argInt(args, "n", 5)
			if n < 1 {
				n = 1
			}
			if n > 20 {
				n = 20
			}
			extract, err := deps.History.Summary(ctx, "List of European Cup and UEFA Champions League finals")
			if err != nil || extract == nil || extract.Extract == "" {
				return domain.ToolFailure(citWikipedia, "Winners list unavailable.")
			}
			fields := wikiFields(extract)
			fields["seasons"] = strconv.Itoa(n)
			return domain.ToolSuccess(citWikipedia, fields)
		},
	}
}

func wikiFields(e *domain.WikiExtract) map[string]interface{} {
	fields := map[string]interface{}{
		"title":   e.Title,
		"extract": e.Extract,
	}
	if e.URL != "" {
		fields["url"] = e.URL
	}
	return fields
}
