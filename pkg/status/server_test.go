package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madridistaai/madridista/internal/config"
	"github.com/madridistaai/madridista/internal/core/domain"
	"github.com/madridistaai/madridista/internal/core/services"
)

type memRepo struct {
	settings  map[string]string
	toolCalls []domain.ToolCallRecord
}

func newMemRepo() *memRepo {
	return &memRepo{settings: make(map[string]string)}
}

func (r *memRepo) GetSetting(ctx context.Context, key string) (string, error) {
	return r.settings[key], nil
}

func (r *memRepo) SaveSetting(ctx context.Context, key, value string) error {
	r.settings[key] = value
	return nil
}

func (r *memRepo) AddMessage(ctx context.Context, msg domain.Message) error { return nil }
func (r *memRepo) ListMessages(ctx context.Context, chatID domain.ChatID, limit int) ([]domain.Message, error) {
	return nil, nil
}
func (r *memRepo) GetSummary(ctx context.Context, chatID domain.ChatID) (string, error) {
	return "", nil
}
func (r *memRepo) SaveSummary(ctx context.Context, chatID domain.ChatID, summary string) error {
	return nil
}
func (r *memRepo) SaveSubscription(ctx context.Context, sub domain.Subscription) error { return nil }
func (r *memRepo) DeleteSubscription(ctx context.Context, chatID domain.ChatID, kind domain.SubscriptionKind) error {
	return nil
}
func (r *memRepo) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	return nil, nil
}
func (r *memRepo) ListChatSubscriptions(ctx context.Context, chatID domain.ChatID) ([]domain.Subscription, error) {
	return nil, nil
}
func (r *memRepo) SaveToolCall(ctx context.Context, rec domain.ToolCallRecord) error {
	r.toolCalls = append(r.toolCalls, rec)
	return nil
}
func (r *memRepo) ListRecentToolCalls(ctx context.Context, limit int) ([]domain.ToolCallRecord, error) {
	return r.toolCalls, nil
}

type echoLLM struct{}

func (echoLLM) Complete(ctx context.Context, messages []domain.ChatMessage, tools []domain.ToolSpec) (domain.Completion, error) {
	return domain.Completion{Content: "Real Madrid play Saturday."}, nil
}

func (echoLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "summary", nil
}

func newTestServer(t *testing.T) (*Server, *memRepo) {
	t.Helper()
	t.Setenv("MADRIDISTA_SECRET_KEY", "test-secret")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repo := newMemRepo()

	secret, err := config.NewSecretKey()
	require.NoError(t, err)
	store, err := config.NewSettingsStore(logger, repo, secret)
	require.NoError(t, err)

	registry := domain.NewToolRegistry()
	policy := domain.PolicyConfig{StrictFacts: true, Citations: true}
	cascade := services.NewCascade(logger, registry, nil, services.Defaults{Team: "Real Madrid", Competition: "LaLiga"})
	brain := services.NewBrain(logger, echoLLM{}, registry, cascade, nil, policy)

	return NewServer(logger, brain, registry, store, repo), repo
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Status(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		DefaultTeam string   `json:"default_team"`
		Tools       []string `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Real Madrid", body.DefaultTeam)
}

func TestServer_AskValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/ask", "application/json", strings.NewReader(`{"question":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ToolCalls(t *testing.T) {
	srv, repo := newTestServer(t)
	repo.toolCalls = append(repo.toolCalls, domain.ToolCallRecord{
		ID: "tc-1", Tool: "af_last_result", OK: true, Source: "API-Football", CreatedAt: time.Now(),
	})

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/toolcalls")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		ToolCalls []domain.ToolCallRecord `json:"tool_calls"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.ToolCalls, 1)
	assert.Equal(t, "af_last_result", body.ToolCalls[0].Tool)
}

func TestServer_SettingsMasksSecrets(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	update := domain.DefaultConfig()
	update.Telegram.Token = "123456:raw-telegram-token"
	payload, err := json.Marshal(update)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/v1/settings", strings.NewReader(string(payload)))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got domain.AppConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.NotEqual(t, "123456:raw-telegram-token", got.Telegram.Token)
	assert.NotEmpty(t, got.Telegram.Token, "masked, not dropped")
}
