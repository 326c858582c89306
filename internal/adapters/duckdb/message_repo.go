package duckdb

import (
	"context"
	"database/sql"

	"github.com/madridistaai/madridista/internal/core/domain"
)

func (r *Repository) AddMessage(ctx context.Context, msg domain.Message) error {
	query := `INSERT INTO messages (id, chat_id, role, content, username, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		string(msg.ID), int64(msg.ChatID), string(msg.Role), msg.Content, msg.Username, msg.CreatedAt,
	)
	return err
}

// ListMessages returns the last limit messages of a chat in
// chronological order. limit=0 returns everything.
func (r *Repository) ListMessages(ctx context.Context, chatID domain.ChatID, limit int) ([]domain.Message, error) {
	query := `SELECT id, chat_id, role, content, username, created_at FROM messages WHERE chat_id = ? ORDER BY created_at DESC`
	args := []interface{}{int64(chatID)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		var idStr, roleStr string
		var chatIDInt int64
		var username sql.NullString
		if err := rows.Scan(&idStr, &chatIDInt, &roleStr, &m.Content, &username, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.ID = domain.MessageID(idStr)
		m.ChatID = domain.ChatID(chatIDInt)
		m.Role = domain.MessageRole(roleStr)
		m.Username = username.String
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *Repository) GetSummary(ctx context.Context, chatID domain.ChatID) (string, error) {
	var summary string
	err := r.db.QueryRowContext(ctx, `SELECT summary FROM summaries WHERE chat_id = ?`, int64(chatID)).Scan(&summary)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return summary, nil
}

func (r *Repository) SaveSummary(ctx context.Context, chatID domain.ChatID, summary string) error {
	query := `
	INSERT INTO summaries (chat_id, summary) VALUES (?, ?)
	ON CONFLICT (chat_id) DO UPDATE SET summary = excluded.summary;
	`
	_, err := r.db.ExecContext(ctx, query, int64(chatID), summary)
	return err
}
