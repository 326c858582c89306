package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
	"github.com/madridistaai/madridista/internal/core/ports"
)

// ChatMemory keeps a rolling conversation history per chat with an
// in-memory cache backed by DuckDB. Hot chats stay in memory; cold ones
// are loaded on demand. When a chat's history grows past the window it
// is folded into a one-paragraph summary via the LLM so long-running
// group chats keep context without unbounded prompts.
type ChatMemory struct {
	mu     sync.RWMutex
	logger *slog.Logger
	repo   ports.Repository
	llm    domain.LLMProvider

	// In-memory LRU cache: chatID -> messages (ordered by time)
	cache    map[domain.ChatID][]domain.Message
	order    []domain.ChatID // LRU order, most recent last
	maxCache int             // max chats in memory
	window   int             // messages kept verbatim before summarizing
}

// NewChatMemory creates a memory with the given cache capacity and
// per-chat message window.
func NewChatMemory(logger *slog.Logger, repo ports.Repository, llm domain.LLMProvider, maxCache, window int) *ChatMemory {
	if maxCache <= 0 {
		maxCache = 64
	}
	if window <= 0 {
		window = 20
	}
	return &ChatMemory{
		logger:   logger.With("service", "chat_memory"),
		repo:     repo,
		llm:      llm,
		cache:    make(map[domain.ChatID][]domain.Message, maxCache),
		order:    make([]domain.ChatID, 0, maxCache),
		maxCache: maxCache,
		window:   window,
	}
}

// Remember persists a message and updates the in-memory cache. When the
// cached history exceeds twice the window it triggers a summarization
// pass in the background.
func (m *ChatMemory) Remember(ctx context.Context, chatID domain.ChatID, role domain.MessageRole, content, username string) error {
	msg := domain.Message{
		ID:        domain.NewMessageID(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		Username:  username,
		CreatedAt: time.Now(),
	}
	if err := m.repo.AddMessage(ctx, msg); err != nil {
		return fmt.Errorf("add message: %w", err)
	}

	m.mu.Lock()
	var overflow bool
	if msgs, ok := m.cache[chatID]; ok {
		msgs = append(msgs, msg)
		m.cache[chatID] = msgs
		overflow = len(msgs) > 2*m.window
	}
	m.touchLocked(chatID)
	m.evictLocked()
	m.mu.Unlock()

	if overflow {
		go m.summarize(context.WithoutCancel(ctx), chatID)
	}
	return nil
}

// Recent returns the last messages for a chat, using the cache when it
// holds the chat. limit=0 means the full window.
func (m *ChatMemory) Recent(ctx context.Context, chatID domain.ChatID, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = m.window
	}

	m.mu.RLock()
	if msgs, ok := m.cache[chatID]; ok {
		start := 0
		if len(msgs) > limit {
			start = len(msgs) - limit
		}
		result := make([]domain.Message, len(msgs)-start)
		copy(result, msgs[start:])
		m.mu.RUnlock()
		return result, nil
	}
	m.mu.RUnlock()

	msgs, err := m.repo.ListMessages(ctx, chatID, limit)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[chatID] = msgs
	m.touchLocked(chatID)
	m.evictLocked()
	m.mu.Unlock()

	return msgs, nil
}

// Summary returns the stored long-term summary for a chat, empty when
// none exists yet.
func (m *ChatMemory) Summary(ctx context.Context, chatID domain.ChatID) string {
	summary, err := m.repo.GetSummary(ctx, chatID)
	if err != nil {
		m.logger.Warn("summary load failed", "chat_id", chatID, "error", err)
		return ""
	}
	return summary
}

// ContextWindow renders the stored summary plus the last N turns as a
// prompt context block.
func (m *ChatMemory) ContextWindow(ctx context.Context, chatID domain.ChatID) (string, error) {
	msgs, err := m.Recent(ctx, chatID, m.window)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if summary := m.Summary(ctx, chatID); summary != "" {
		sb.WriteString("Earlier in this chat: ")
		sb.WriteString(summary)
		sb.WriteByte('\n')
	}
	for _, msg := range msgs {
		switch msg.Role {
		case domain.RoleUser:
			name := msg.Username
			if name == "" {
				name = "User"
			}
			sb.WriteString(name)
			sb.WriteString(": ")
		case domain.RoleAssistant:
			sb.WriteString("Bot: ")
		case domain.RoleSystem:
			sb.WriteString("Note: ")
		}
		sb.WriteString(msg.Content)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// summarize folds everything except the most recent window into the
// chat's long-term summary.
func (m *ChatMemory) summarize(ctx context.Context, chatID domain.ChatID) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	m.mu.RLock()
	msgs := m.cache[chatID]
	if len(msgs) <= m.window {
		m.mu.RUnlock()
		return
	}
	old := make([]domain.Message, len(msgs)-m.window)
	copy(old, msgs[:len(msgs)-m.window])
	m.mu.RUnlock()

	prev := m.Summary(ctx, chatID)

	var sb strings.Builder
	if prev != "" {
		sb.WriteString("Previous summary: ")
		sb.WriteString(prev)
		sb.WriteString("\n\n")
	}
	sb.WriteString("New messages:\n")
	for _, msg := range old {
		sb.WriteString(string(msg.Role))
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nWrite one short paragraph summarizing this football chat so far. Keep team names, results and open questions. Plain text only.")

	summary, err := m.llm.GenerateText(ctx, sb.String())
	if err != nil {
		m.logger.Warn("summarization failed", "chat_id", chatID, "error", err)
		return
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return
	}

	if err := m.repo.SaveSummary(ctx, chatID, summary); err != nil {
		m.logger.Warn("summary save failed", "chat_id", chatID, "error", err)
		return
	}

	// Drop the summarized prefix from the cache.
	m.mu.Lock()
	if cur, ok := m.cache[chatID]; ok && len(cur) > m.window {
		kept := make([]domain.Message, m.window)
		copy(kept, cur[len(cur)-m.window:])
		m.cache[chatID] = kept
	}
	m.mu.Unlock()

	m.logger.Info("chat summarized", "chat_id", chatID, "folded", len(old))
}

// --- LRU helpers (must be called with mu held) ---

func (m *ChatMemory) touchLocked(id domain.ChatID) {
	m.removeLRULocked(id)
	m.order = append(m.order, id)
}

func (m *ChatMemory) removeLRULocked(id domain.ChatID) {
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

func (m *ChatMemory) evictLocked() {
	for len(m.order) > m.maxCache {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.cache, oldest)
	}
}
