package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ToolResult is the uniform payload every tool returns. Tools are total:
// provider failures are converted to OK=false with a human-readable
// Message, never surfaced as an error.
type ToolResult struct {
	OK      bool                   `json:"ok"`
	Source  string                 `json:"__source,omitempty"` // provider citation, e.g. "Football-Data"
	Message string                 `json:"message,omitempty"`
	Fields  map[string]interface{} `json:"-"`
}

// ToolSuccess builds a successful result carrying the given content fields.
func ToolSuccess(source string, fields map[string]interface{}) ToolResult {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return ToolResult{OK: true, Source: source, Fields: fields}
}

// ToolFailure builds a failed result with an explanatory message.
func ToolFailure(source, message string) ToolResult {
	return ToolResult{OK: false, Source: source, Message: message}
}

// Get returns a content field by key.
func (r ToolResult) Get(key string) (interface{}, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// Has reports whether a content field is present and non-zero.
func (r ToolResult) Has(key string) bool {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	}
	return true
}

// Flatten merges OK/Source/Message with the content fields into one map,
// the shape tool output is serialized in for the LLM.
func (r ToolResult) Flatten() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Fields)+3)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["ok"] = r.OK
	if r.Source != "" {
		out["__source"] = r.Source
	}
	if r.Message != "" {
		out["message"] = r.Message
	}
	return out
}

// ToolParameters defines the schema for tool inputs
type ToolParameters struct {
	Type       string                 `json:"type"`       // "object"
	Properties map[string]interface{} `json:"properties"` // param definitions
	Required   []string               `json:"required,omitempty"`
}

// ToolExecutor is the function signature for tool execution. It never
// returns an error; failures come back as ToolResult{OK: false}.
type ToolExecutor func(ctx context.Context, args map[string]interface{}) ToolResult

// Tool represents one named data-fetching capability exposed to the LLM
type Tool struct {
	Name        string
	Description string
	Parameters  ToolParameters
	Execute     ToolExecutor
}

// ToolSpec is the provider-neutral function declaration handed to the LLM.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  ToolParameters
}

// ToolRegistry manages available tools. Built once at startup and
// read-only afterwards, so it is safe to share across questions.
type ToolRegistry struct {
	tools map[string]*Tool
}

// NewToolRegistry creates a new empty registry
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]*Tool)}
}

// Register adds a tool to the registry
func (r *ToolRegistry) Register(tool *Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if _, dup := r.tools[tool.Name]; dup {
		return fmt.Errorf("tool already registered: %s", tool.Name)
	}
	r.tools[tool.Name] = tool
	return nil
}

// Get returns a tool by exact name.
func (r *ToolRegistry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns all registered tool names, sorted.
func (r *ToolRegistry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Specs returns the function declarations for every tool, sorted by name.
func (r *ToolRegistry) Specs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(r.tools))
	for _, name := range r.Names() {
		t := r.tools[name]
		specs = append(specs, ToolSpec{Name: t.Name, Description: t.Description, Parameters: t.Parameters})
	}
	return specs
}

// Execute runs a tool with given arguments.
// If the exact name is not found, it attempts fuzzy matching to handle
// LLM hallucinated names; an unknown name is a failure result, not an error.
func (r *ToolRegistry) Execute(ctx context.Context, name string, args map[string]interface{}) ToolResult {
	tool, ok := r.tools[name]
	if !ok {
		if match := r.fuzzyMatch(name); match != "" {
			tool = r.tools[match]
		} else {
			return ToolFailure("", fmt.Sprintf("Unknown tool: %s", name))
		}
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return tool.Execute(ctx, args)
}

// FormatToolsForPrompt renders a human-readable tool list for system prompts.
func (r *ToolRegistry) FormatToolsForPrompt() string {
	var sb strings.Builder
	sb.WriteString("Available tools:\n")
	for _, name := range r.Names() {
		t := r.tools[name]
		sb.WriteString("- ")
		sb.WriteString(t.Name)
		sb.WriteString(": ")
		sb.WriteString(t.Description)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// fuzzyMatch finds the best matching tool name for a hallucinated/wrong name.
// It uses word-overlap scoring + Levenshtein distance as tiebreaker.
// Returns empty string if no reasonable match is found.
func (r *ToolRegistry) fuzzyMatch(input string) string {
	inputWords := splitToolWords(input)

	bestName := ""
	bestScore := 0

	for name := range r.tools {
		nameWords := splitToolWords(name)
		score := wordOverlapScore(inputWords, nameWords)

		if score > bestScore {
			bestScore = score
			bestName = name
		} else if score == bestScore && score > 0 {
			if levenshtein(input, name) < levenshtein(input, bestName) {
				bestName = name
			}
		}
	}

	if bestScore >= 1 {
		return bestName
	}
	return ""
}

func splitToolWords(name string) []string {
	parts := []string{}
	for _, p := range strings.Split(strings.ToLower(name), "_") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func wordOverlapScore(a, b []string) int {
	set := make(map[string]bool, len(b))
	for _, w := range b {
		set[w] = true
	}
	score := 0
	for _, w := range a {
		if set[w] {
			score++
		}
	}
	return score
}

func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}
