package domain

// LLMConfig configures the chat-completion provider
type LLMConfig struct {
	BaseURL string `json:"base_url"` // "https://api.openai.com/v1" or an OpenAI-compatible local URL
	APIKey  string `json:"api_key"`  // Encrypted in storage
	Model   string `json:"model"`    // "gpt-4o-mini"
}

// ProviderConfig holds API credentials for the football data providers
type ProviderConfig struct {
	LLM              LLMConfig `json:"llm"`
	FootballDataKey  string    `json:"football_data_key"` // Encrypted in storage
	APIFootballKey   string    `json:"api_football_key"`  // Encrypted in storage
	SofaUserAgent    string    `json:"sofa_user_agent"`
	SofaTeamID       int       `json:"sofa_team_id"`
	WeatherBaseURL   string    `json:"weather_base_url"`
	CurrencyBaseURL  string    `json:"currency_base_url"`
	LiveScoreBaseURL string    `json:"livescore_base_url"`
}

// PolicyConfig holds the answer-composition policy switches
type PolicyConfig struct {
	StrictFacts  bool `json:"strict_facts"`   // refuse instead of guessing when no tool verified the answer
	Citations    bool `json:"citations"`      // append "(Source A • Source B)" to answers
	LogToolCalls bool `json:"log_tool_calls"` // persist a per-invocation audit record
}

// TelegramConfig configures the bot transport
type TelegramConfig struct {
	Token       string `json:"token"` // Encrypted in storage
	PollTimeout int    `json:"poll_timeout"`
}

// AppConfig is the main application configuration
type AppConfig struct {
	Telegram  TelegramConfig `json:"telegram"`
	Providers ProviderConfig `json:"providers"`
	Policy    PolicyConfig   `json:"policy"`

	// Defaults applied when a question names no team or competition
	DefaultTeam        string `json:"default_team"`
	DefaultCompetition string `json:"default_competition"`
}

// DefaultConfig returns safe defaults
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Telegram: TelegramConfig{
			PollTimeout: 30,
		},
		Providers: ProviderConfig{
			LLM: LLMConfig{
				BaseURL: "https://api.openai.com/v1",
				Model:   "gpt-4o-mini",
			},
			SofaTeamID:       2817, // Real Madrid
			WeatherBaseURL:   "https://api.open-meteo.com/v1",
			CurrencyBaseURL:  "https://api.exchangerate.host",
			LiveScoreBaseURL: "https://prod-cdn-mev-api.livescore.com/v1",
		},
		Policy: PolicyConfig{
			StrictFacts:  true,
			Citations:    true,
			LogToolCalls: true,
		},
		DefaultTeam:        "Real Madrid",
		DefaultCompetition: "LaLiga",
	}
}
