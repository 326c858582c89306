package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madridistaai/madridista/internal/core/domain"
)

func TestChatMemory_RememberAndRecent(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repo := newFakeRepo()
	mem := NewChatMemory(logger, repo, &fakeLLM{}, 8, 10)
	ctx := context.Background()
	chatID := domain.ChatID(42)

	require.NoError(t, mem.Remember(ctx, chatID, domain.RoleUser, "next match?", "pedro"))
	require.NoError(t, mem.Remember(ctx, chatID, domain.RoleAssistant, "Saturday vs Sevilla", ""))

	msgs, err := mem.Recent(ctx, chatID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "next match?", msgs[0].Content)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)

	// Persisted too, not just cached.
	stored, err := repo.ListMessages(ctx, chatID, 10)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestChatMemory_RecentHonorsLimit(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repo := newFakeRepo()
	mem := NewChatMemory(logger, repo, &fakeLLM{}, 8, 10)
	ctx := context.Background()
	chatID := domain.ChatID(7)

	for i := 0; i < 6; i++ {
		require.NoError(t, mem.Remember(ctx, chatID, domain.RoleUser, fmt.Sprintf("q%d", i), "ana"))
	}

	msgs, err := mem.Recent(ctx, chatID, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "q3", msgs[0].Content)
	assert.Equal(t, "q5", msgs[2].Content)
}

func TestChatMemory_RememberEvictsOldestChat(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repo := newFakeRepo()
	mem := NewChatMemory(logger, repo, &fakeLLM{}, 2, 10)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, mem.Remember(ctx, domain.ChatID(i), domain.RoleUser, "hola", "ana"))
	}

	mem.mu.RLock()
	defer mem.mu.RUnlock()
	assert.LessOrEqual(t, len(mem.order), 2, "LRU order must not outgrow the cache capacity")
	for _, id := range mem.order {
		assert.NotEqual(t, domain.ChatID(1), id, "oldest chat is evicted first")
	}
}

func TestChatMemory_ContextWindow(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repo := newFakeRepo()
	repo.summaries[9] = "They discussed the derby."
	mem := NewChatMemory(logger, repo, &fakeLLM{}, 8, 10)
	ctx := context.Background()

	require.NoError(t, mem.Remember(ctx, 9, domain.RoleUser, "who scored?", "luis"))
	require.NoError(t, mem.Remember(ctx, 9, domain.RoleAssistant, "Bellingham, twice.", ""))

	window, err := mem.ContextWindow(ctx, 9)
	require.NoError(t, err)
	assert.Contains(t, window, "Earlier in this chat: They discussed the derby.")
	assert.Contains(t, window, "luis: who scored?")
	assert.Contains(t, window, "Bot: Bellingham, twice.")
}

func TestChatMemory_ColdChatLoadsFromRepo(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repo := newFakeRepo()
	ctx := context.Background()
	chatID := domain.ChatID(3)

	require.NoError(t, repo.AddMessage(ctx, domain.Message{ID: "msg-1", ChatID: chatID, Role: domain.RoleUser, Content: "table?"}))

	mem := NewChatMemory(logger, repo, &fakeLLM{}, 8, 10)
	msgs, err := mem.Recent(ctx, chatID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "table?", msgs[0].Content)
}
