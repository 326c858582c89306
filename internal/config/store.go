package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// SettingsRepository is the minimal DB interface for settings persistence.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SaveSetting(ctx context.Context, key string, value string) error
}

// OnChangeFunc is called when settings are updated.
type OnChangeFunc func(cfg *domain.AppConfig)

// SettingsStore manages persistent settings with encrypted secrets.
// Credential fields (Telegram token, provider API keys) are encrypted at
// rest and masked on read.
type SettingsStore struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	secret   *SecretKey
	repo     SettingsRepository
	config   *domain.AppConfig
	onChange []OnChangeFunc
}

// NewSettingsStore creates a store that loads/saves settings from DB
// with AES-256-GCM encryption.
func NewSettingsStore(logger *slog.Logger, repo SettingsRepository, secret *SecretKey) (*SettingsStore, error) {
	store := &SettingsStore{
		logger: logger,
		secret: secret,
		repo:   repo,
	}

	ctx := context.Background()
	cfg, err := store.loadFromDB(ctx)
	if err != nil {
		logger.Warn("no saved settings found, using defaults", "error", err)
		cfg = domain.DefaultConfig()
		if err := store.saveToDB(ctx, cfg); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	store.config = cfg
	return store, nil
}

// OnChange registers a callback for when settings are updated. Used to
// hot-reload providers without a restart.
func (s *SettingsStore) OnChange(fn OnChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// GetConfig returns the current config with decrypted secrets.
func (s *SettingsStore) GetConfig() *domain.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := *s.config
	return &cp
}

// GetMaskedConfig returns config safe for API responses, secrets masked.
func (s *SettingsStore) GetMaskedConfig() *domain.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := *s.config
	cp.Telegram.Token = MaskSecret(s.config.Telegram.Token)
	cp.Providers.LLM.APIKey = MaskSecret(s.config.Providers.LLM.APIKey)
	cp.Providers.FootballDataKey = MaskSecret(s.config.Providers.FootballDataKey)
	cp.Providers.APIFootballKey = MaskSecret(s.config.Providers.APIFootballKey)
	return &cp
}

// UpdateConfig validates, encrypts secrets, persists, and triggers
// onChange callbacks. Smart merge: empty or masked secrets in the update
// keep the existing value.
func (s *SettingsStore) UpdateConfig(ctx context.Context, update *domain.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keepExisting := func(incoming, existing string) string {
		if incoming == "" || isMasked(incoming) {
			return existing
		}
		return incoming
	}
	update.Telegram.Token = keepExisting(update.Telegram.Token, s.config.Telegram.Token)
	update.Providers.LLM.APIKey = keepExisting(update.Providers.LLM.APIKey, s.config.Providers.LLM.APIKey)
	update.Providers.FootballDataKey = keepExisting(update.Providers.FootballDataKey, s.config.Providers.FootballDataKey)
	update.Providers.APIFootballKey = keepExisting(update.Providers.APIFootballKey, s.config.Providers.APIFootballKey)

	if update.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if update.DefaultTeam == "" {
		update.DefaultTeam = "Real Madrid"
	}
	if update.DefaultCompetition == "" {
		update.DefaultCompetition = "LaLiga"
	}
	if update.Telegram.PollTimeout <= 0 {
		update.Telegram.PollTimeout = 30
	}

	if err := s.saveToDB(ctx, update); err != nil {
		return err
	}

	s.config = update
	s.logger.Info("settings updated",
		"default_team", update.DefaultTeam,
		"strict_facts", update.Policy.StrictFacts,
		"citations", update.Policy.Citations,
	)

	for _, fn := range s.onChange {
		fn(update)
	}

	return nil
}

func (s *SettingsStore) loadFromDB(ctx context.Context) (*domain.AppConfig, error) {
	raw, err := s.repo.GetSetting(ctx, "app_config")
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, fmt.Errorf("no stored config")
	}

	var stored storedConfig
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	cfg := stored.Config
	if cfg == nil {
		return nil, fmt.Errorf("empty stored config")
	}

	decrypt := func(field, enc string) string {
		if enc == "" {
			return ""
		}
		plain, err := s.secret.Decrypt(enc)
		if err != nil {
			s.logger.Warn("failed to decrypt secret", "field", field, "error", err)
			return ""
		}
		return plain
	}
	cfg.Telegram.Token = decrypt("telegram_token", stored.EncryptedTelegramToken)
	cfg.Providers.LLM.APIKey = decrypt("llm_api_key", stored.EncryptedLLMKey)
	cfg.Providers.FootballDataKey = decrypt("football_data_key", stored.EncryptedFootballDataKey)
	cfg.Providers.APIFootballKey = decrypt("api_football_key", stored.EncryptedAPIFootballKey)

	return cfg, nil
}

func (s *SettingsStore) saveToDB(ctx context.Context, cfg *domain.AppConfig) error {
	// Secrets travel in dedicated encrypted fields; strip them from the
	// plain JSON body.
	plain := *cfg
	plain.Telegram.Token = ""
	plain.Providers.LLM.APIKey = ""
	plain.Providers.FootballDataKey = ""
	plain.Providers.APIFootballKey = ""

	stored := storedConfig{Config: &plain}

	encrypt := func(field, value string) (string, error) {
		if value == "" {
			return "", nil
		}
		enc, err := s.secret.Encrypt(value)
		if err != nil {
			return "", fmt.Errorf("encrypt %s: %w", field, err)
		}
		return enc, nil
	}

	var err error
	if stored.EncryptedTelegramToken, err = encrypt("telegram token", cfg.Telegram.Token); err != nil {
		return err
	}
	if stored.EncryptedLLMKey, err = encrypt("llm api key", cfg.Providers.LLM.APIKey); err != nil {
		return err
	}
	if stored.EncryptedFootballDataKey, err = encrypt("football-data key", cfg.Providers.FootballDataKey); err != nil {
		return err
	}
	if stored.EncryptedAPIFootballKey, err = encrypt("api-football key", cfg.Providers.APIFootballKey); err != nil {
		return err
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	return s.repo.SaveSetting(ctx, "app_config", string(raw))
}

// storedConfig is the DB representation with encrypted secret fields
type storedConfig struct {
	Config                   *domain.AppConfig `json:"config"`
	EncryptedTelegramToken   string            `json:"encrypted_telegram_token,omitempty"`
	EncryptedLLMKey          string            `json:"encrypted_llm_key,omitempty"`
	EncryptedFootballDataKey string            `json:"encrypted_football_data_key,omitempty"`
	EncryptedAPIFootballKey  string            `json:"encrypted_api_football_key,omitempty"`
}

func isMasked(s string) bool {
	return len(s) >= 4 && s[:4] == "****"
}
