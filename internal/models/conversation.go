// internal/models/conversation.go
package models

import (
	"context"
	"strings"
	"time"
)

type MessageType string

const (
	MessageHuman MessageType = "human"
	MessageAI    MessageType = "ai"
)

// Message is one persisted chat turn half. AI content holds either the
// serialized StructuredAnswer or plain text (uplift messages).
type Message struct {
	Type    MessageType `json:"type"`
	Content string      `json:"content"`
	Intent  string      `json:"intent,omitempty"`
}

// Conversation represents a stored multi-turn chat
type Conversation struct {
	ID        string    `json:"_id" db:"id"`
	Messages  []Message `json:"messages" db:"messages"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ConversationSummary is a conversation listed without its messages.
type ConversationSummary struct {
	ID        string    `json:"_id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasAIMessageContaining reports whether any AI message contains needle,
// compared case-insensitively.
func (c *Conversation) HasAIMessageContaining(needle string) bool {
	needle = strings.ToLower(needle)
	for _, m := range c.Messages {
		if m.Type == MessageAI && strings.Contains(strings.ToLower(m.Content), needle) {
			return true
		}
	}
	return false
}

// ConversationRepository defines conversation data access
type ConversationRepository interface {
	Create(ctx context.Context) (*Conversation, error)
	Get(ctx context.Context, id string) (*Conversation, error)
	List(ctx context.Context, limit int) ([]ConversationSummary, error)
	Append(ctx context.Context, id string, msgs ...Message) (*Conversation, error)
	Delete(ctx context.Context, id string) error
}
