package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madridistaai/madridista/internal/core/domain"
)

type fakeEloSource struct {
	gotTeam string
	rating  *domain.EloRating
	err     error
}

func (f *fakeEloSource) TeamElo(ctx context.Context, team string) (*domain.EloRating, error) {
	f.gotTeam = team
	return f.rating, f.err
}

type fakeHighlightSource struct {
	gotTeam string
	videos  []domain.Video
	err     error
}

func (f *fakeHighlightSource) LatestByTeam(ctx context.Context, team string, limit int) ([]domain.Video, error) {
	f.gotTeam = team
	return f.videos, f.err
}

type fakeWeatherSource struct {
	gotCity string
	wx      *domain.Weather
	err     error
}

func (f *fakeWeatherSource) Forecast(ctx context.Context, city string, at time.Time) (*domain.Weather, error) {
	f.gotCity = city
	return f.wx, f.err
}

type fakeNewsSource struct {
	items []domain.NewsItem
	err   error
}

func (f *fakeNewsSource) TopNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	return f.items, f.err
}

type fakeHistorySource struct {
	byTitle map[string]*domain.WikiExtract
	search  *domain.WikiExtract
}

func (f *fakeHistorySource) Summary(ctx context.Context, title string) (*domain.WikiExtract, error) {
	if e, ok := f.byTitle[title]; ok {
		return e, nil
	}
	return nil, errors.New("no article")
}

func (f *fakeHistorySource) Search(ctx context.Context, query string) (*domain.WikiExtract, error) {
	return f.search, nil
}

func TestClubEloTool_DefaultsTeam(t *testing.T) {
	elo := &fakeEloSource{rating: &domain.EloRating{Team: "Real Madrid", Elo: 2001.5, Rank: 1}}
	deps := toolDeps(&fakeMatchSource{})
	deps.Elo = elo
	tool := newClubEloTool(deps)

	res := tool.Execute(context.Background(), map[string]interface{}{})
	require.True(t, res.OK)
	assert.Equal(t, "Real Madrid", elo.gotTeam, "no team in args falls back to the default")
	assert.Equal(t, "ClubElo", res.Source)
	assert.Equal(t, 1, res.Fields["rank"])
	assert.True(t, res.Has("items"))
}

func TestClubEloTool_ResolvesAlias(t *testing.T) {
	elo := &fakeEloSource{rating: &domain.EloRating{Team: "Barcelona", Elo: 1950}}
	deps := toolDeps(&fakeMatchSource{})
	deps.Elo = elo
	tool := newClubEloTool(deps)

	res := tool.Execute(context.Background(), map[string]interface{}{"team_name": "barca"})
	require.True(t, res.OK)
	assert.Equal(t, "Barcelona", elo.gotTeam)
}

func TestHighlightsTool(t *testing.T) {
	hs := &fakeHighlightSource{videos: []domain.Video{
		{Title: "Real Madrid 3-1 Getafe", URL: "https://example.com/1"},
		{Title: "Sevilla 0-2 Real Madrid", URL: "https://example.com/2"},
	}}
	deps := toolDeps(&fakeMatchSource{})
	deps.Highlights = hs
	tool := newHighlightsTool(deps)

	res := tool.Execute(context.Background(), nil)
	require.True(t, res.OK)
	assert.Equal(t, "Real Madrid", hs.gotTeam)
	items, ok := res.Fields["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestHighlightsTool_EmptyFeed(t *testing.T) {
	deps := toolDeps(&fakeMatchSource{})
	deps.Highlights = &fakeHighlightSource{}
	tool := newHighlightsTool(deps)

	res := tool.Execute(context.Background(), nil)
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Message)
}

func TestWeatherMatchTool(t *testing.T) {
	fixtures := &upcomingFixtureSource{match: domain.Match{
		ID:   774,
		When: time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC),
		Home: "Real Madrid", Away: "Mallorca",
		Venue: "Santiago Bernabéu", City: "Madrid",
	}}
	wx := &fakeWeatherSource{wx: &domain.Weather{TempC: 29.5, Precipitation: 0, WindKPH: 11, Summary: "Clear sky"}}
	deps := toolDeps(&fakeMatchSource{})
	deps.Fixtures = fixtures
	deps.Weather = wx
	tool := newWeatherMatchTool(deps)

	res := tool.Execute(context.Background(), nil)
	require.True(t, res.OK)
	assert.Equal(t, "Madrid", wx.gotCity)
	assert.Equal(t, "Real Madrid", res.Fields["home"])
	assert.Equal(t, "Mallorca", res.Fields["away"])
	assert.Equal(t, 29.5, res.Fields["temp_c"])
	assert.Equal(t, "Clear sky", res.Fields["forecast"])
}

func TestWeatherMatchTool_NoVenue(t *testing.T) {
	fixtures := &upcomingFixtureSource{match: domain.Match{
		When: time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC),
		Home: "Real Madrid", Away: "Mallorca",
	}}
	deps := toolDeps(&fakeMatchSource{})
	deps.Fixtures = fixtures
	deps.Weather = &fakeWeatherSource{}
	tool := newWeatherMatchTool(deps)

	res := tool.Execute(context.Background(), nil)
	assert.False(t, res.OK)
}

func TestNewsTeamTool_FiltersByTeam(t *testing.T) {
	news := &fakeNewsSource{items: []domain.NewsItem{
		{Title: "Arsenal sign a keeper"},
		{Title: "Real Madrid extend Vinicius"},
		{Title: "Transfer roundup", Snippet: "Real Madrid linked with a midfielder"},
	}}
	deps := toolDeps(&fakeMatchSource{})
	deps.News = news
	tool := newNewsTeamTool(deps)

	res := tool.Execute(context.Background(), map[string]interface{}{"team_name": "real madrid"})
	require.True(t, res.OK)
	items, ok := res.Fields["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2, "only headlines mentioning the team survive the filter")
}

func TestNewsTeamTool_NoMentions(t *testing.T) {
	news := &fakeNewsSource{items: []domain.NewsItem{{Title: "Arsenal sign a keeper"}}}
	deps := toolDeps(&fakeMatchSource{})
	deps.News = news
	tool := newNewsTeamTool(deps)

	res := tool.Execute(context.Background(), nil)
	assert.False(t, res.OK)
}

func TestH2HWikiTool(t *testing.T) {
	hist := &fakeHistorySource{byTitle: map[string]*domain.WikiExtract{
		"El Clásico": {Title: "El Clásico", Extract: "Real Madrid and Barcelona have met over 250 times."},
	}}
	deps := toolDeps(&fakeMatchSource{})
	deps.History = hist
	tool := newH2HWikiTool(deps)

	res := tool.Execute(context.Background(), map[string]interface{}{"team_a": "real madrid", "team_b": "barcelona"})
	require.True(t, res.OK)
	assert.Equal(t, "Wikipedia", res.Source)
	assert.Contains(t, res.Fields["extract"].(string), "250 times")
}

func TestH2HWikiTool_NeedsTwoTeams(t *testing.T) {
	deps := toolDeps(&fakeMatchSource{})
	deps.History = &fakeHistorySource{}
	tool := newH2HWikiTool(deps)

	res := tool.Execute(context.Background(), map[string]interface{}{"team_a": "real madrid"})
	assert.False(t, res.OK)
}
