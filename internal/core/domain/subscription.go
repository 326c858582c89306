package domain

import (
	"errors"
	"time"
)

// SubscriptionKind selects what a chat gets pushed proactively
type SubscriptionKind string

const (
	// SubMatchday pushes kickoff reminders and final scores
	SubMatchday SubscriptionKind = "matchday"
	// SubNews pushes fresh headlines in the daily digest
	SubNews SubscriptionKind = "news"
)

// Subscription is one chat's opt-in to proactive pushes
type Subscription struct {
	ChatID    ChatID           `json:"chat_id"`
	Kind      SubscriptionKind `json:"kind"`
	Team      string           `json:"team"`
	CreatedAt time.Time        `json:"created_at"`
}

var ErrSubscriptionNotFound = errors.New("subscription not found")

// ParseSubscriptionKind validates a user-supplied kind string.
func ParseSubscriptionKind(s string) (SubscriptionKind, error) {
	switch SubscriptionKind(s) {
	case SubMatchday, SubNews:
		return SubscriptionKind(s), nil
	}
	return "", errors.New("unknown subscription kind: " + s)
}
