package domain

import (
	"time"

	"github.com/google/uuid"
)

// SenderRole identifies who produced a message within a conversation.
type SenderRole string

const (
	SenderUser      SenderRole = "user"
	SenderAssistant SenderRole = "assistant"
)

// Conversation is one learning session between a user and the tutor model.
// Prompt is the scenario prompt: free text set at most once — the first
// non-empty write wins and later turn-level prompts never overwrite it.
type Conversation struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	SourceLanguage string
	TargetLanguage string
	Prompt         *string
	CreatedAt      time.Time

	// Messages is populated by eager-loading reads, ordered by CreatedAt
	// ascending. Nil on writes and non-eager reads.
	Messages []Message
}

// HasPrompt reports whether a non-empty scenario prompt has been saved.
func (c *Conversation) HasPrompt() bool {
	return c.Prompt != nil && *c.Prompt != ""
}

// Message is a single immutable utterance within a conversation. Ordering is
// by CreatedAt ascending; messages are never updated in place.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	Sender         SenderRole
	Content        string
	CreatedAt      time.Time
}
