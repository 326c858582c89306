package domain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// ChatID identifies one Telegram chat (group or DM)
type ChatID int64

// MessageID uniquely identifies a stored message
type MessageID string

// MessageRole defines who authored a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message represents a single turn in a chat's rolling history
type Message struct {
	ID        MessageID   `json:"id"`
	ChatID    ChatID      `json:"chat_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Username  string      `json:"username,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

var ErrMessageNotFound = errors.New("message not found")

// NewMessageID generates a compact random message ID (msg-<12 hex>)
func NewMessageID() MessageID {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return MessageID("msg-" + hex.EncodeToString(b))
}
