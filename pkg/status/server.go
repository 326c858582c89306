package status

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/madridistaai/madridista/internal/config"
	"github.com/madridistaai/madridista/internal/core/domain"
	"github.com/madridistaai/madridista/internal/core/ports"
	"github.com/madridistaai/madridista/internal/core/services"
)

// Server is the diagnostics HTTP API: health, runtime status, the
// tool-call audit log, settings management, and a direct ask endpoint
// for poking the brain without Telegram.
type Server struct {
	logger   *slog.Logger
	brain    *services.Brain
	registry *domain.ToolRegistry
	settings *config.SettingsStore
	repo     ports.Repository
	started  time.Time
}

func NewServer(logger *slog.Logger, brain *services.Brain, registry *domain.ToolRegistry, settings *config.SettingsStore, repo ports.Repository) *Server {
	return &Server{
		logger:   logger.With("component", "status_api"),
		brain:    brain,
		registry: registry,
		settings: settings,
		repo:     repo,
		started:  time.Now(),
	}
}

// Handler returns the http.Handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/ask", s.handleAsk)
	mux.HandleFunc("/v1/toolcalls", s.handleToolCalls)
	mux.HandleFunc("/v1/settings", s.handleSettings)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cfg := s.settings.GetMaskedConfig()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"uptime_seconds":      int(time.Since(s.started).Seconds()),
		"tools":               s.registry.Names(),
		"default_team":        cfg.DefaultTeam,
		"default_competition": cfg.DefaultCompetition,
		"policy":              cfg.Policy,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	answer := s.brain.AnswerQuestion(r.Context(), req.Question, "")
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (s *Server) handleToolCalls(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	recs, err := s.repo.ListRecentToolCalls(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list tool calls", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tool_calls": recs})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.settings.GetMaskedConfig())
	case http.MethodPut:
		var update domain.AppConfig
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		if err := s.settings.UpdateConfig(r.Context(), &update); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, s.settings.GetMaskedConfig())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
