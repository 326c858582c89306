package duckdb

import (
	"context"

	"github.com/madridistaai/madridista/internal/core/domain"
)

func (r *Repository) SaveSubscription(ctx context.Context, sub domain.Subscription) error {
	query := `
	INSERT INTO subscriptions (chat_id, kind, team, created_at) VALUES (?, ?, ?, ?)
	ON CONFLICT (chat_id, kind) DO UPDATE SET team = excluded.team;
	`
	_, err := r.db.ExecContext(ctx, query,
		int64(sub.ChatID), string(sub.Kind), sub.Team, sub.CreatedAt,
	)
	return err
}

func (r *Repository) DeleteSubscription(ctx context.Context, chatID domain.ChatID, kind domain.SubscriptionKind) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE chat_id = ? AND kind = ?`,
		int64(chatID), string(kind),
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *Repository) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	return r.querySubscriptions(ctx,
		`SELECT chat_id, kind, team, created_at FROM subscriptions ORDER BY created_at ASC`)
}

func (r *Repository) ListChatSubscriptions(ctx context.Context, chatID domain.ChatID) ([]domain.Subscription, error) {
	return r.querySubscriptions(ctx,
		`SELECT chat_id, kind, team, created_at FROM subscriptions WHERE chat_id = ? ORDER BY created_at ASC`,
		int64(chatID))
}

func (r *Repository) querySubscriptions(ctx context.Context, query string, args ...interface{}) ([]domain.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var s domain.Subscription
		var chatIDInt int64
		var kindStr string
		if err := rows.Scan(&chatIDInt, &kindStr, &s.Team, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.ChatID = domain.ChatID(chatIDInt)
		s.Kind = domain.SubscriptionKind(kindStr)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
