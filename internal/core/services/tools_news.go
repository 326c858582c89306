package services

import (
	"context"
	"strings"

	"github.com/madridistaai/madridista/internal/core/domain"
)

func newNewsTopTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "news_top",
		Description: "Latest football headlines, optionally filtered by a query.",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{"type": "string", "description": "Optional filter, e.g. a team or player name."},
				"limit": map[string]interface{}{"type": "integer"},
			},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			limit := argInt(args, "limit", 5)
			items, err := deps.News.TopNews(ctx, 20)
			if err != nil {
				return domain.ToolFailure(citLiveScore, "News feed unavailable.")
			}
			query := strings.ToLower(strings.TrimSpace(argString(args, "query", "")))
			out := make([]interface{}, 0, limit)
			for _, it := range items {
				if query != "" && !strings.Contains(strings.ToLower(it.Title+" "+it.Snippet), query) {
					continue
				}
				out = append(out, newsFields(it))
				if len(out) >= limit {
					break
				}
			}
			if len(out) == 0 {
				return domain.ToolFailure(citLiveScore, "No matching headlines right now.")
			}
			return domain.ToolSuccess(citLiveScore, map[string]interface{}{"items": out})
		},
	}
}

func newNewsTeamTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "news_team",
		Description: "Latest headlines mentioning a specific team.",
		Parameters:  teamParam(),
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			team := ResolveTeam(argString(args, "team_name", ""), deps.Defaults.Team)
			items, err := deps.News.TopNews(ctx, 30)
			if err != nil {
				return domain.ToolFailure(citLiveScore, "News feed unavailable.")
			}
			needle := strings.ToLower(team)
			out := make([]interface{}, 0, 5)
			for _, it := range items {
				if !strings.Contains(strings.ToLower(it.Title+" "+it.Snippet), needle) {
					continue
				}
				out = append(out, newsFields(it))
				if len(out) >= 5 {
					break
				}
			}
			if len(out) == 0 {
				return domain.ToolFailure(citLiveScore, "No recent headlines about "+team+".")
			}
			return domain.ToolSuccess(citLiveScore, map[string]interface{}{"items": out, "team": team})
		},
	}
}

func newsFields(it domain.NewsItem) map[string]interface{} {
	fields := map[string]interface{}{"title": it.Title}
	if it.URL != "" {
		fields["url"] = it.URL
	}
	if !it.PublishedAt.IsZero() {
		fields["published_at"] = it.PublishedAt.Format("2006-01-02 15:04")
	}
	return fields
}
