package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/madridistaai/madridista/internal/core/domain"
)

const systemPrompt = "You are a friendly, concise football assistant. " +
	"Scope is strictly football (clubs, leagues, players, fixtures, rules). " +
	"Use the provided tools for any facts (scores, fixtures, standings, injuries, squads, scorers, live). " +
	"Never invent scores, dates or stats: either a tool verified it or you say you cannot. " +
	"If a question is about football concepts (rules/history) and no tool is required, answer briefly. " +
	"If the user asks outside football, decline politely and offer football topics. " +
	"Keep answers under ~120 words unless the user asks for detail. " +
	"Always prefer Real Madrid and LaLiga when ambiguous."

const forcedToolPrompt = "The question is factual. Tool use is MANDATORY: you must call at least one tool before answering. " +
	"Recognize team name variants (Madrid/Los Blancos = Real Madrid, Barca = Barcelona, Man City = Manchester City, ...). " +
	"For outcome questions ('when X beat Y', 'X defeated Y') extract the winner and call af_find_match_result, then af_last_result_vs."

const (
	scopeRefusal = "I talk football only — clubs, leagues, players, fixtures, rules. Ask me about any of those. ⚽"
	cannotVerify = "I can't verify that without external data right now, and I won't guess. Try again in a bit, or use /matches, /table or /live."
	genericRetry = "I had trouble processing that request. Please try again or use specific commands like /matches, /table, or /live."

	// Telegram rejects messages past 4096 chars; clamp well below it.
	maxAnswerRunes = 3500
)

// Brain composes the final answer for a free-text question: scope gate,
// LLM-first function calling, forced retry for factual questions, the
// planner+cascade fallback, and the strict-facts refusal policy. It
// always returns a string; no error ever crosses this boundary.
type Brain struct {
	logger   *slog.Logger
	llm      domain.LLMProvider
	registry *domain.ToolRegistry
	cascade  *Cascade
	audit    *ToolAudit
	policy   domain.PolicyConfig
}

func NewBrain(logger *slog.Logger, llm domain.LLMProvider, registry *domain.ToolRegistry, cascade *Cascade, audit *ToolAudit, policy domain.PolicyConfig) *Brain {
	return &Brain{
		logger:   logger,
		llm:      llm,
		registry: registry,
		cascade:  cascade,
		audit:    audit,
		policy:   policy,
	}
}

// AnswerQuestion is the orchestration entry point: natural language in,
// football answer out. contextSummary is the caller's rolling summary of
// prior conversation, empty when there is none.
func (b *Brain) AnswerQuestion(ctx context.Context, text, contextSummary string) string {
	if !InScope(text) {
		return scopeRefusal
	}

	intent := Classify(text)
	b.logger.Info("answering question", "intent", string(intent.Label), "factual", intent.LooksFactual)

	messages := b.buildMessages(text, contextSummary, intent, "")

	completion, err := b.llm.Complete(ctx, messages, b.registry.Specs())
	if err != nil {
		b.logger.Warn("llm completion failed", "error", err)
		if intent.LooksFactual {
			// Last resort: run the cascade even though the LLM never ran.
			return b.answerFromCascade(ctx, text, false)
		}
		return genericRetry
	}

	// Forced retry: factual question but the model skipped tools.
	if len(completion.ToolCalls) == 0 && intent.LooksFactual {
		retry := b.buildMessages(text, contextSummary, intent, forcedToolPrompt)
		if forced, ferr := b.llm.Complete(ctx, retry, b.registry.Specs()); ferr == nil {
			completion = forced
		} else {
			b.logger.Warn("forced retry failed", "error", ferr)
		}
	}

	if len(completion.ToolCalls) > 0 {
		if answer, ok := b.answerFromLLMTools(ctx, text, completion); ok {
			return answer
		}
		// Every LLM-selected tool came back empty; fall through to the
		// arbiter cascade for factual questions.
	}

	if intent.LooksFactual {
		return b.answerFromCascade(ctx, text, true)
	}

	// Non-factual: the model may explain concepts from general knowledge.
	content := strings.TrimSpace(completion.Content)
	if content == "" {
		content = "Can you rephrase that?"
	}
	return Truncate(content, maxAnswerRunes)
}

func (b *Brain) buildMessages(text, contextSummary string, intent domain.Intent, extraSystem string) []domain.ChatMessage {
	msgs := []domain.ChatMessage{{Role: domain.ChatRoleSystem, Content: systemPrompt}}
	if intent.Hint != "" {
		msgs = append(msgs, domain.ChatMessage{Role: domain.ChatRoleSystem, Content: intent.Hint})
	}
	if contextSummary != "" {
		msgs = append(msgs, domain.ChatMessage{Role: domain.ChatRoleSystem, Content: "Conversation so far: " + contextSummary})
	}
	if extraSystem != "" {
		msgs = append(msgs, domain.ChatMessage{Role: domain.ChatRoleSystem, Content: extraSystem})
	}
	msgs = append(msgs, domain.ChatMessage{Role: domain.ChatRoleUser, Content: text})
	return msgs
}

// answerFromLLMTools executes every tool the model requested (the model's
// choices are trusted, no cascade) and feeds the outputs back for final
// composition. Returns ok=false when every payload was empty.
func (b *Brain) answerFromLLMTools(ctx context.Context, text string, completion domain.Completion) (string, bool) {
	var (
		toolMsgs []domain.ChatMessage
		sources  []string
		anyData  bool
	)

	for _, call := range completion.ToolCalls {
		var args map[string]interface{}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			args = map[string]interface{}{}
		}

		res := b.registry.Execute(ctx, call.Name, args)
		if b.audit != nil {
			b.audit.Record(ctx, call.Name, args, res)
		}
		if !IsEmpty(res) {
			anyData = true
		}
		if res.Source != "" {
			sources = appendUnique(sources, res.Source)
		}

		payload, _ := json.Marshal(res.Flatten())
		toolMsgs = append(toolMsgs, domain.ChatMessage{
			Role:       domain.ChatRoleTool,
			ToolCallID: call.ID,
			Name:       call.Name,
			Content:    string(payload),
		})
	}

	if !anyData {
		return "", false
	}

	assistant := domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: completion.Content, ToolCalls: completion.ToolCalls}
	msgs := []domain.ChatMessage{
		{Role: domain.ChatRoleSystem, Content: systemPrompt},
		{Role: domain.ChatRoleUser, Content: text},
		assistant,
	}
	msgs = append(msgs, toolMsgs...)

	final, err := b.llm.Complete(ctx, msgs, nil)
	if err != nil {
		b.logger.Warn("composition call failed, rendering raw payload", "error", err)
		return Truncate(renderRaw(toolMsgs[0].Content, sources), maxAnswerRunes), true
	}

	return Truncate(b.withCitations(final.Content, sources), maxAnswerRunes), true
}

// answerFromCascade runs the planner + execution cascade and composes the
// single winning payload. composeWithLLM is false when the LLM transport
// already failed this request.
func (b *Brain) answerFromCascade(ctx context.Context, text string, composeWithLLM bool) string {
	plan := PlanTools(text)
	outcome, found := b.cascade.Execute(ctx, plan, text)
	if !found {
		if b.policy.StrictFacts {
			return cannotVerify
		}
		if outcome.FirstMessage != "" {
			return Truncate(outcome.FirstMessage, maxAnswerRunes)
		}
		return cannotVerify
	}

	payload, _ := json.Marshal(outcome.Result.Flatten())

	if composeWithLLM {
		msgs := []domain.ChatMessage{
			{Role: domain.ChatRoleSystem, Content: systemPrompt},
			{Role: domain.ChatRoleSystem, Content: "Compose the answer strictly from this verified tool output:\n" + string(payload)},
			{Role: domain.ChatRoleUser, Content: text},
		}
		if final, err := b.llm.Complete(ctx, msgs, nil); err == nil && strings.TrimSpace(final.Content) != "" {
			return Truncate(b.withCitations(final.Content, outcome.Sources), maxAnswerRunes)
		}
	}

	return Truncate(renderRaw(string(payload), outcome.Sources), maxAnswerRunes)
}

// withCitations appends "(Source A • Source B)" when the citations policy
// flag is on and any provider contributed.
func (b *Brain) withCitations(answer string, sources []string) string {
	answer = strings.TrimSpace(answer)
	if !b.policy.Citations || len(sources) == 0 {
		return answer
	}
	sorted := append([]string(nil), sources...)
	sort.Strings(sorted)
	return answer + "\n\n(" + strings.Join(sorted, " • ") + ")"
}

// renderRaw is the no-LLM degradation path: a flat key/value rendering
// of the payload so the user still gets the verified numbers.
func renderRaw(payloadJSON string, sources []string) string {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(payloadJSON), &fields); err != nil {
		return payloadJSON
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "ok" || k == "__source" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("%s: %v\n", k, fields[k]))
	}
	if len(sources) > 0 {
		sorted := append([]string(nil), sources...)
		sort.Strings(sorted)
		sb.WriteString("(" + strings.Join(sorted, " • ") + ")")
	}
	return strings.TrimSpace(sb.String())
}

// Truncate clamps s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// Football vocabulary for the scope gate: generic terms plus every known
// team, competition and player alias. A question matching none of these
// is refused before any network call.
var scopeWords = []string{
	"football", "soccer", "futbol", "fútbol", "goal", "match", "game",
	"league", "cup", "club", "team", "player", "fixture", "score",
	"offside", "penalty", "referee", "var", "derby", "clasico", "clásico",
	"striker", "keeper", "goalkeeper", "midfielder", "defender", "winger",
	"transfer", "lineup", "squad", "stadium", "bernabeu", "bernabéu",
	"champions", "standings", "table", "kickoff", "halftime",
}

// InScope reports whether the text contains any football vocabulary at
// all, including team/competition/player aliases.
func InScope(text string) bool {
	q := normText(text)
	if containsAny(q, scopeWords) {
		return true
	}
	for alias := range teamAliases {
		if strings.Contains(q, alias) {
			return true
		}
	}
	for alias := range compAliases {
		if strings.Contains(q, alias) {
			return true
		}
	}
	for alias := range playerAliases {
		if strings.Contains(q, alias) {
			return true
		}
	}
	return false
}
