package providers

import (
	"strings"

	"github.com/madridistaai/madridista/internal/adapters/llm"
	"github.com/madridistaai/madridista/internal/core/domain"
	"github.com/madridistaai/madridista/internal/core/ports"
)

// Sources bundles every data provider the tool layer consumes. Sources
// whose API key is missing come back nil; the registry skips the tools
// that need them.
type Sources struct {
	LLM        domain.LLMProvider
	Matches    ports.MatchSource
	Fixtures   ports.FixtureSource
	Live       ports.LiveSource
	History    ports.HistorySource
	News       ports.NewsSource
	Elo        ports.EloSource
	Highlights ports.HighlightSource
	Weather    ports.WeatherSource
	Rates      ports.RatesSource
}

// Build creates all providers from app configuration. It hides keyed vs
// keyless provider selection from callers.
func Build(config *domain.AppConfig) Sources {
	if config == nil {
		config = domain.DefaultConfig()
	}
	p := config.Providers

	s := Sources{
		LLM: llm.NewOpenAIProvider(
			strings.TrimSpace(p.LLM.BaseURL),
			strings.TrimSpace(p.LLM.APIKey),
			strings.TrimSpace(p.LLM.Model),
		),
		// Keyless public APIs are always on.
		History:    NewWikipedia(),
		News:       NewLiveScoreNews(p.LiveScoreBaseURL),
		Elo:        NewClubElo(),
		Highlights: NewScorebat(),
		Weather:    NewOpenMeteo(p.WeatherBaseURL),
		Rates:      NewExchangeRate(p.CurrencyBaseURL),
		Live:       NewSofaScore(p.SofaUserAgent, p.SofaTeamID),
	}

	if key := strings.TrimSpace(p.FootballDataKey); key != "" {
		s.Matches = NewFootballData(key)
	}
	if key := strings.TrimSpace(p.APIFootballKey); key != "" {
		s.Fixtures = NewAPIFootball(key)
	}
	return s
}
