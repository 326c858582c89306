package services

import (
	"context"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// Use a private type for context keys to avoid collisions
type serviceContextKey string

const (
	ctxKeyChatID serviceContextKey = "chat_id"
)

// ContextWithChat injects the originating chat ID into the context
func ContextWithChat(ctx context.Context, id domain.ChatID) context.Context {
	return context.WithValue(ctx, ctxKeyChatID, id)
}

// ChatFromContext retrieves the chat ID from the context; zero when the
// call did not originate from a chat (diagnostics API, scheduler).
func ChatFromContext(ctx context.Context) domain.ChatID {
	id, _ := ctx.Value(ctxKeyChatID).(domain.ChatID)
	return id
}
