package domain

import "time"

// ToolCallID uniquely identifies one tool invocation attempt
type ToolCallID string

// ToolCallRecord is the audit row persisted (behind a policy flag) for
// every tool invocation: who asked, what ran, whether it produced data.
type ToolCallRecord struct {
	ID        ToolCallID `json:"id"`
	ChatID    ChatID     `json:"chat_id"`
	Tool      string     `json:"tool"`
	Args      string     `json:"args"` // JSON-encoded arguments
	OK        bool       `json:"ok"`
	Source    string     `json:"source,omitempty"`
	LatencyMs int64      `json:"latency_ms"`
	CreatedAt time.Time  `json:"created_at"`
}
