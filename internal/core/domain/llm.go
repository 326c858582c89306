package domain

import "context"

// ChatRole tags a message in the completion request
type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleTool      ChatRole = "tool"
)

// ChatMessage is one role-tagged message in a completion request
type ChatMessage struct {
	Role       ChatRole
	Content    string
	ToolCallID string        // set on ChatRoleTool messages
	Name       string        // tool name, set on ChatRoleTool messages
	ToolCalls  []LLMToolCall // set on assistant messages that requested tools
}

// LLMToolCall is a structured tool-call request from the model.
// Arguments is the raw JSON string as returned by the model.
type LLMToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Completion is the model's reply: free text, tool calls, or both
type Completion struct {
	Content   string
	ToolCalls []LLMToolCall
}

// LLMProvider defines the chat-completion capability the brain consumes.
// When tools is non-empty the model may answer with tool-call requests
// instead of (or before) free text (tool-choice "auto").
type LLMProvider interface {
	Complete(ctx context.Context, messages []ChatMessage, tools []ToolSpec) (Completion, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}
