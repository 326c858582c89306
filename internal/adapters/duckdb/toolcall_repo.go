package duckdb

import (
	"context"
	"database/sql"

	"github.com/madridistaai/madridista/internal/core/domain"
)

func (r *Repository) SaveToolCall(ctx context.Context, rec domain.ToolCallRecord) error {
	query := `INSERT INTO tool_calls (id, chat_id, tool, args, ok, source, latency_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		string(rec.ID), int64(rec.ChatID), rec.Tool, rec.Args,
		rec.OK, rec.Source, rec.LatencyMs, rec.CreatedAt,
	)
	return err
}

func (r *Repository) ListRecentToolCalls(ctx context.Context, limit int) ([]domain.ToolCallRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, chat_id, tool, args, ok, source, latency_ms, created_at FROM tool_calls ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.ToolCallRecord
	for rows.Next() {
		var rec domain.ToolCallRecord
		var idStr string
		var chatIDInt int64
		var source, args sql.NullString
		if err := rows.Scan(&idStr, &chatIDInt, &rec.Tool, &args, &rec.OK, &source, &rec.LatencyMs, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.ID = domain.ToolCallID(idStr)
		rec.ChatID = domain.ChatID(chatIDInt)
		rec.Args = args.String
		rec.Source = source.String
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
