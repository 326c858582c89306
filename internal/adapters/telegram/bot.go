package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
	"github.com/madridistaai/madridista/internal/core/ports"
	"github.com/madridistaai/madridista/internal/core/services"
)

const helpText = `I answer football questions: live scores, fixtures, results, stats, history, news.

Commands:
/live - score if we're playing right now
/next - next fixture
/last - last result
/table - league standings
/form - recent results
/scorers - top scorers
/squad - current squad
/injuries - who's out
/news - latest headlines
/subscribe matchday|news - proactive pushes for this chat
/unsubscribe matchday|news - stop pushes
/id - show this chat's id

Anything else, just ask in plain words.`

// command shortcuts rewritten into natural questions for the brain.
var commandQuestions = map[string]string{
	"/live":      "Are we playing right now? What's the score?",
	"/next":      "When is the next match?",
	"/matches":   "When is the next match?",
	"/last":      "What was the last result?",
	"/lastmatch": "What was the last result?",
	"/table":     "What does the league table look like?",
	"/form":      "How is the team's recent form, last 5 results?",
	"/scorers":   "Who are the top scorers in the league?",
	"/squad":     "What is the current squad?",
	"/injuries":  "Who is injured or unavailable?",
	"/news":      "What are the latest football headlines?",
}

type job struct {
	chatID   domain.ChatID
	username string
	text     string
}

// Bot runs the Telegram long-polling loop, routes questions to the
// brain, and delivers push events from the schedulers. Chats are
// processed serially per chat and in parallel across chats.
type Bot struct {
	logger      *slog.Logger
	client      *Client
	brain       *services.Brain
	memory      *services.ChatMemory
	repo        ports.Repository
	bus         *services.EventBus
	pollTimeout time.Duration
	defaultTeam string

	mu        sync.Mutex
	workers   map[domain.ChatID]chan job
	sem       chan struct{}
	username  string
	lastReply map[domain.ChatID]time.Time
	cooldown  time.Duration
}

// Free text in group chats that neither uses a command nor mentions the
// bot is answered at most once per cooldown window per chat.
const unsolicitedCooldown = 90 * time.Second

func NewBot(logger *slog.Logger, client *Client, brain *services.Brain, memory *services.ChatMemory, repo ports.Repository, bus *services.EventBus, cfg domain.TelegramConfig, defaultTeam string) *Bot {
	pollTimeout := time.Duration(cfg.PollTimeout) * time.Second
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	return &Bot{
		logger:      logger.With("adapter", "telegram"),
		client:      client,
		brain:       brain,
		memory:      memory,
		repo:        repo,
		bus:         bus,
		pollTimeout: pollTimeout,
		defaultTeam: defaultTeam,
		workers:     make(map[domain.ChatID]chan job),
		sem:         make(chan struct{}, 4),
		lastReply:   make(map[domain.ChatID]time.Time),
		cooldown:    unsolicitedCooldown,
	}
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	me, err := b.client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram getMe: %w", err)
	}
	b.username = me.Username
	b.logger.Info("telegram bot started", "username", me.Username, "poll_timeout", b.pollTimeout)

	go b.deliverPushes(ctx)

	var offset int64
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("telegram bot stopped")
			return nil
		default:
		}

		updates, next, err := b.client.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.logger.Warn("getUpdates failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		offset = next

		for _, u := range updates {
			b.handleUpdate(ctx, u)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, u Update) {
	msg := u.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	if msg.From != nil && msg.From.IsBot {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	chatID := domain.ChatID(msg.Chat.ID)
	username := ""
	if msg.From != nil {
		username = msg.From.Username
	}

	cmd, args := splitCommand(text)
	switch cmd {
	case "/start", "/help":
		b.send(ctx, chatID, helpText)
		return
	case "/id":
		b.send(ctx, chatID, fmt.Sprintf("chat_id=%d type=%s", msg.Chat.ID, msg.Chat.Type))
		return
	case "/subscribe":
		b.subscribe(ctx, chatID, args)
		return
	case "/unsubscribe":
		b.unsubscribe(ctx, chatID, args)
		return
	}
	if q, ok := commandQuestions[cmd]; ok {
		text = q
	} else if cmd == "" && isGroupChat(msg.Chat.Type) && !mentionsBot(text, b.username) {
		if !b.allowUnsolicited(chatID, time.Now()) {
			b.logger.Debug("cooldown, skipping group message", "chat_id", chatID)
			return
		}
	}

	b.enqueue(ctx, job{chatID: chatID, username: username, text: text})
}

func isGroupChat(chatType string) bool {
	return chatType == "group" || chatType == "supergroup"
}

func mentionsBot(text, username string) bool {
	if username == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), "@"+strings.ToLower(username))
}

// allowUnsolicited reports whether the chat is past its cooldown and
// stamps the window when it is.
func (b *Bot) allowUnsolicited(chatID domain.ChatID, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if last, ok := b.lastReply[chatID]; ok && now.Sub(last) < b.cooldown {
		return false
	}
	b.lastReply[chatID] = now
	return true
}

// enqueue hands the job to the chat's worker, starting one on first use.
// Workers exit when ctx is cancelled.
func (b *Bot) enqueue(ctx context.Context, j job) {
	b.mu.Lock()
	ch, ok := b.workers[j.chatID]
	if !ok {
		ch = make(chan job, 16)
		b.workers[j.chatID] = ch
		go b.workChat(ctx, ch)
	}
	b.mu.Unlock()

	select {
	case ch <- j:
	default:
		b.logger.Warn("chat queue full, dropping message", "chat_id", j.chatID)
	}
}

func (b *Bot) workChat(ctx context.Context, jobs <-chan job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-jobs:
			select {
			case b.sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			b.answer(j)
			<-b.sem
		}
	}
}

func (b *Bot) answer(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = services.ContextWithChat(ctx, j.chatID)

	_ = b.client.SendChatAction(ctx, int64(j.chatID), "typing")

	summary, err := b.memory.ContextWindow(ctx, j.chatID)
	if err != nil {
		b.logger.Warn("context window failed", "chat_id", j.chatID, "error", err)
	}

	reply := b.brain.AnswerQuestion(ctx, j.text, summary)

	if err := b.memory.Remember(ctx, j.chatID, domain.RoleUser, j.text, j.username); err != nil {
		b.logger.Warn("failed to store user message", "chat_id", j.chatID, "error", err)
	}
	if err := b.memory.Remember(ctx, j.chatID, domain.RoleAssistant, reply, ""); err != nil {
		b.logger.Warn("failed to store reply", "chat_id", j.chatID, "error", err)
	}

	b.send(ctx, j.chatID, reply)
}

func (b *Bot) subscribe(ctx context.Context, chatID domain.ChatID, args string) {
	kind, err := domain.ParseSubscriptionKind(strings.TrimSpace(args))
	if err != nil {
		b.send(ctx, chatID, "usage: /subscribe matchday|news")
		return
	}
	sub := domain.Subscription{
		ChatID:    chatID,
		Kind:      kind,
		Team:      b.defaultTeam,
		CreatedAt: time.Now(),
	}
	if err := b.repo.SaveSubscription(ctx, sub); err != nil {
		b.logger.Error("subscribe failed", "chat_id", chatID, "error", err)
		b.send(ctx, chatID, "Could not save the subscription, try again later.")
		return
	}
	b.send(ctx, chatID, fmt.Sprintf("Subscribed to %s updates for %s.", kind, sub.Team))
}

func (b *Bot) unsubscribe(ctx context.Context, chatID domain.ChatID, args string) {
	kind, err := domain.ParseSubscriptionKind(strings.TrimSpace(args))
	if err != nil {
		b.send(ctx, chatID, "usage: /unsubscribe matchday|news")
		return
	}
	switch err := b.repo.DeleteSubscription(ctx, chatID, kind); err {
	case nil:
		b.send(ctx, chatID, fmt.Sprintf("Unsubscribed from %s updates.", kind))
	case domain.ErrSubscriptionNotFound:
		b.send(ctx, chatID, "This chat has no such subscription.")
	default:
		b.logger.Error("unsubscribe failed", "chat_id", chatID, "error", err)
		b.send(ctx, chatID, "Could not remove the subscription, try again later.")
	}
}

// deliverPushes forwards scheduler events to their chats.
func (b *Bot) deliverPushes(ctx context.Context) {
	digest, unsubDigest := b.bus.Subscribe(services.TopicDigest)
	defer unsubDigest()
	live, unsubLive := b.bus.Subscribe(services.TopicLive)
	defer unsubLive()

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-digest:
			b.send(ctx, e.ChatID, e.Text)
		case e := <-live:
			b.send(ctx, e.ChatID, e.Text)
		}
	}
}

func (b *Bot) send(ctx context.Context, chatID domain.ChatID, text string) {
	if text == "" {
		return
	}
	if err := b.client.SendMessage(ctx, int64(chatID), text); err != nil {
		b.logger.Warn("send failed", "chat_id", chatID, "error", err)
	}
}

func splitCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	parts := strings.SplitN(text, " ", 2)
	cmd := strings.ToLower(parts[0])
	// Strip the @botname suffix used in groups.
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	args := ""
	if len(parts) > 1 {
		args = parts[1]
	}
	return cmd, args
}
