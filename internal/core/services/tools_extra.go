package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/madridistaai/madridista/internal/core/domain"
)

func newClubEloTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "club_elo",
		Description: "Current Elo strength rating for a club.",
		Parameters:  teamParam(),
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			team := ResolveTeam(argString(args, "team_name", ""), deps.Defaults.Team)
			rating, err := deps.Elo.TeamElo(ctx, team)
			if err != nil || rating == nil {
				return domain.ToolFailure(citClubElo, "No Elo rating found for "+team+".")
			}
			fields := map[string]interface{}{
				"items": []interface{}{map[string]interface{}{
					"team": rating.Team,
					"elo":  rating.Elo,
				}},
				"team": rating.Team,
			}
			if rating.Rank > 0 {
				fields["rank"] = rating.Rank
			}
			return domain.ToolSuccess(citClubElo, fields)
		},
	}
}

func newHighlightsTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "highlights",
		Description: "Recent highlight videos for a team.",
		Parameters:  teamParam(),
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			team := ResolveTeam(argString(args, "team_name", ""), deps.Defaults.Team)
			videos, err := deps.Highlights.LatestByTeam(ctx, team, 3)
			if err != nil {
				return domain.ToolFailure(citScorebat, "Highlights feed unavailable.")
			}
			if len(videos) == 0 {
				return domain.ToolFailure(citScorebat, "No recent highlights for "+team+".")
			}
			items := make([]interface{}, 0, len(videos))
			for _, v := range videos {
				items = append(items, map[string]interface{}{"title": v.Title, "url": v.URL})
			}
			return domain.ToolSuccess(citScorebat, map[string]interface{}{"items": items, "team": team})
		},
	}
}

func newWeatherMatchTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "weather_match",
		Description: "Forecast for the venue of a team's next match.",
		Parameters:  teamParam(),
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			team := ResolveTeam(argString(args, "team_name", ""), deps.Defaults.Team)
			match, err := deps.Fixtures.NextFixture(ctx, team)
			if err != nil || match == nil {
				return domain.ToolFailure(citOpenMeteo, "No upcoming match to forecast.")
			}
			city := match.City
			if city == "" {
				city = match.Venue
			}
			if city == "" {
				return domain.ToolFailure(citOpenMeteo, "Venue unknown for the next match.")
			}
			wx, err := deps.Weather.Forecast(ctx, city, match.When)
			if err != nil || wx == nil {
				return domain.ToolFailure(citOpenMeteo, "Forecast unavailable for "+city+".")
			}
			fields := matchFields(match)
			fields["city"] = city
			fields["temp_c"] = wx.TempC
			fields["precipitation_mm"] = wx.Precipitation
			fields["wind_kph"] = wx.WindKPH
			if wx.Summary != "" {
				fields["forecast"] = wx.Summary
			}
			return domain.ToolSuccess(citOpenMeteo, fields)
		},
	}
}

func newConvertTransferTool(deps ToolDeps) *domain.Tool {
	return &domain.Tool{
		Name:        "convert_transfer",
		Description: "Convert a transfer fee between currencies, e.g. 100 EUR to USD.",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"amount": map[string]interface{}{"type": "number"},
				"from":   map[string]interface{}{"type": "string", "description": "ISO currency code, e.g. EUR."},
				"to":     map[string]interface{}{"type": "string", "description": "ISO currency code, e.g. USD."},
			},
			Required: []string{"amount", "from", "to"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) domain.ToolResult {
			amount := argFloat(args, "amount", 0)
			from := strings.ToUpper(strings.TrimSpace(argString(args, "from", "EUR")))
			to := strings.ToUpper(strings.TrimSpace(argString(args, "to", "USD")))
			if amount <= 0 {
				return domain.ToolFailure(citExchange, "Amount must be positive.")
			}
			converted, err := deps.Rates.Convert(ctx, amount, from, to)
			if err != nil {
				return domain.ToolFailure(citExchange, "Conversion unavailable.")
			}
			return domain.ToolSuccess(citExchange, map[string]interface{}{
				"items": []interface{}{map[string]interface{}{
					"amount":    amount,
					"from":      from,
					"to":        to,
					"converted": fmt.Sprintf("%.2f", converted),
				}},
			})
		},
	}
}
