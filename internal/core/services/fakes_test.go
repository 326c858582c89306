package services

import (
	"context"
	"errors"
	"sync"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// fakeRepo is an in-memory ports.Repository for service tests.
type fakeRepo struct {
	mu        sync.Mutex
	settings  map[string]string
	messages  map[domain.ChatID][]domain.Message
	summaries map[domain.ChatID]string
	subs      []domain.Subscription
	toolCalls []domain.ToolCallRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		settings:  make(map[string]string),
		messages:  make(map[domain.ChatID][]domain.Message),
		summaries: make(map[domain.ChatID]string),
	}
}

func (r *fakeRepo) GetSetting(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings[key], nil
}

func (r *fakeRepo) SaveSetting(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[key] = value
	return nil
}

func (r *fakeRepo) AddMessage(ctx context.Context, msg domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.ChatID] = append(r.messages[msg.ChatID], msg)
	return nil
}

func (r *fakeRepo) ListMessages(ctx context.Context, chatID domain.ChatID, limit int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[chatID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (r *fakeRepo) GetSummary(ctx context.Context, chatID domain.ChatID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summaries[chatID], nil
}

func (r *fakeRepo) SaveSummary(ctx context.Context, chatID domain.ChatID, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries[chatID] = summary
	return nil
}

func (r *fakeRepo) SaveSubscription(ctx context.Context, sub domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.ChatID == sub.ChatID && s.Kind == sub.Kind {
			r.subs[i] = sub
			return nil
		}
	}
	r.subs = append(r.subs, sub)
	return nil
}

func (r *fakeRepo) DeleteSubscription(ctx context.Context, chatID domain.ChatID, kind domain.SubscriptionKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.ChatID == chatID && s.Kind == kind {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return nil
		}
	}
	return domain.ErrSubscriptionNotFound
}

func (r *fakeRepo) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Subscription, len(r.subs))
	copy(out, r.subs)
	return out, nil
}

func (r *fakeRepo) ListChatSubscriptions(ctx context.Context, chatID domain.ChatID) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Subscription
	for _, s := range r.subs {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) SaveToolCall(ctx context.Context, rec domain.ToolCallRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toolCalls = append(r.toolCalls, rec)
	return nil
}

func (r *fakeRepo) ListRecentToolCalls(ctx context.Context, limit int) ([]domain.ToolCallRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs := r.toolCalls
	if len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	out := make([]domain.ToolCallRecord, len(recs))
	copy(out, recs)
	return out, nil
}

// fakeLLM replays a scripted queue of completions; an exhausted queue
// returns an error so tests notice unexpected extra calls.
type fakeLLM struct {
	mu          sync.Mutex
	completions []domain.Completion
	errs        []error
	calls       int
	generated   string
	genErr      error
}

func (f *fakeLLM) Complete(ctx context.Context, messages []domain.ChatMessage, tools []domain.ToolSpec) (domain.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return domain.Completion{}, f.errs[i]
	}
	if i < len(f.completions) {
		return f.completions[i], nil
	}
	return domain.Completion{}, errors.New("fakeLLM: no scripted completion")
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generated, f.genErr
}
