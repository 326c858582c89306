package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/madridistaai/madridista/internal/adapters/duckdb"
	"github.com/madridistaai/madridista/internal/adapters/providers"
	"github.com/madridistaai/madridista/internal/adapters/telegram"
	appconfig "github.com/madridistaai/madridista/internal/config"
	"github.com/madridistaai/madridista/internal/core/domain"
	"github.com/madridistaai/madridista/internal/core/services"
	"github.com/madridistaai/madridista/pkg/status"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	root := &cobra.Command{
		Use:          "madridista-bot",
		Short:        "Telegram football assistant for Real Madrid fans",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(logger)
		},
	}
	root.PersistentFlags().String("db", "madridista.db", "path to the DuckDB database file")
	root.PersistentFlags().String("addr", ":8080", "listen address for the diagnostics API")
	_ = viper.BindPFlag("db", root.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("addr", root.PersistentFlags().Lookup("addr"))

	viper.SetEnvPrefix("madridista")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := root.Execute(); err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	logger.Info("starting madridista bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		cancel()
	}()

	repo, err := duckdb.NewRepository(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	defer repo.Close()

	secretKey, err := appconfig.NewSecretKey()
	if err != nil {
		return fmt.Errorf("failed to init secret key: %w", err)
	}

	// Settings store loads persisted config from DuckDB with encrypted secrets.
	settingsStore, err := appconfig.NewSettingsStore(logger, repo, secretKey)
	if err != nil {
		return fmt.Errorf("failed to init settings store: %w", err)
	}

	config := settingsStore.GetConfig()
	applyEnvOverrides(config)

	if strings.TrimSpace(config.Telegram.Token) == "" {
		return fmt.Errorf("telegram token is not configured: set MADRIDISTA_TELEGRAM_TOKEN or PUT /v1/settings")
	}

	sources := providers.Build(config)

	toolRegistry := domain.NewToolRegistry()
	defaults := services.Defaults{
		Team:        config.DefaultTeam,
		Competition: config.DefaultCompetition,
	}
	if err := services.RegisterFootballTools(toolRegistry, services.ToolDeps{
		Logger:     logger,
		Matches:    sources.Matches,
		Fixtures:   sources.Fixtures,
		Live:       sources.Live,
		History:    sources.History,
		News:       sources.News,
		Elo:        sources.Elo,
		Highlights: sources.Highlights,
		Weather:    sources.Weather,
		Rates:      sources.Rates,
		Defaults:   defaults,
	}); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	logger.Info("tools registered", "count", len(toolRegistry.Names()))

	// Credential changes persist immediately but providers are wired at
	// startup, so they take effect on the next boot.
	settingsStore.OnChange(func(cfg *domain.AppConfig) {
		logger.Info("settings updated; provider changes apply after restart")
	})

	audit := services.NewToolAudit(logger, repo, config.Policy.LogToolCalls)
	cascade := services.NewCascade(logger, toolRegistry, audit, defaults)
	brain := services.NewBrain(logger, sources.LLM, toolRegistry, cascade, audit, config.Policy)
	memory := services.NewChatMemory(logger, repo, sources.LLM, 64, 20)
	eventBus := services.NewEventBus(logger)

	digest := services.NewDigestScheduler(logger, repo, sources.Fixtures, sources.News, eventBus)
	watcher := services.NewLiveWatcher(logger, sources.Live, repo, eventBus, time.Minute)

	tgClient := telegram.NewClient(config.Telegram.Token)
	bot := telegram.NewBot(logger, tgClient, brain, memory, repo, eventBus, config.Telegram, config.DefaultTeam)

	apiServer := status.NewServer(logger, brain, toolRegistry, settingsStore, repo)
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:5174"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	httpServer := &http.Server{
		Addr:    viper.GetString("addr"),
		Handler: c.Handler(apiServer.Handler()),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bot.Run(gCtx)
	})
	g.Go(func() error {
		return digest.Run(gCtx)
	})
	g.Go(func() error {
		return watcher.Run(gCtx)
	})
	g.Go(func() error {
		logger.Info("starting diagnostics api", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// applyEnvOverrides lets deploy-time environment variables win over the
// persisted settings without writing secrets to the database.
func applyEnvOverrides(cfg *domain.AppConfig) {
	if v := viper.GetString("telegram_token"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := viper.GetString("openai_api_key"); v != "" {
		cfg.Providers.LLM.APIKey = v
	}
	if v := viper.GetString("openai_base_url"); v != "" {
		cfg.Providers.LLM.BaseURL = v
	}
	if v := viper.GetString("model"); v != "" {
		cfg.Providers.LLM.Model = v
	}
	if v := viper.GetString("football_data_key"); v != "" {
		cfg.Providers.FootballDataKey = v
	}
	if v := viper.GetString("api_football_key"); v != "" {
		cfg.Providers.APIFootballKey = v
	}
	if v := viper.GetString("default_team"); v != "" {
		cfg.DefaultTeam = v
	}
}
