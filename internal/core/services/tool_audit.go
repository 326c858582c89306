package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/madridistaai/madridista/internal/core/domain"
)

// toolCallWriter is the minimal repository surface the audit needs.
type toolCallWriter interface {
	SaveToolCall(ctx context.Context, rec domain.ToolCallRecord) error
}

// ToolAudit persists one record per tool invocation when the
// log_tool_calls policy flag is on. Audit failures are logged and
// swallowed; observability must never break an answer.
type ToolAudit struct {
	logger  *slog.Logger
	repo    toolCallWriter
	enabled bool
}

func NewToolAudit(logger *slog.Logger, repo toolCallWriter, enabled bool) *ToolAudit {
	return &ToolAudit{logger: logger, repo: repo, enabled: enabled}
}

// Record writes one audit row. ChatID is taken from the context when the
// transport layer put one there.
func (a *ToolAudit) Record(ctx context.Context, tool string, args map[string]interface{}, res domain.ToolResult) {
	a.RecordWithLatency(ctx, tool, args, res, 0)
}

// RecordWithLatency writes one audit row with a measured duration.
func (a *ToolAudit) RecordWithLatency(ctx context.Context, tool string, args map[string]interface{}, res domain.ToolResult, latency time.Duration) {
	if a == nil || !a.enabled || a.repo == nil {
		return
	}

	argsJSON, err := json.Marshal(args)
	if err != nil {
		argsJSON = []byte("{}")
	}

	rec := domain.ToolCallRecord{
		ID:        domain.ToolCallID(uuid.NewString()),
		ChatID:    ChatFromContext(ctx),
		Tool:      tool,
		Args:      string(argsJSON),
		OK:        res.OK,
		Source:    res.Source,
		LatencyMs: latency.Milliseconds(),
		CreatedAt: time.Now(),
	}

	if err := a.repo.SaveToolCall(ctx, rec); err != nil {
		a.logger.Warn("failed to persist tool call record", "tool", tool, "error", err)
	}
}
