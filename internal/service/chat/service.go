// Package chat implements the conversation-turn orchestration: resolving the
// conversation, persisting both sides of a turn and talking to the chat model.
package chat

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/glossa-app/glossa-backend/internal/domain"
)

// conversationRepo defines the conversation repository interface needed by the chat service.
type conversationRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	Create(ctx context.Context, c *domain.Conversation) (*domain.Conversation, error)
	SetPromptIfEmpty(ctx context.Context, id uuid.UUID, prompt string) (bool, error)
}

// messageRepo defines the message repository interface needed by the chat service.
type messageRepo interface {
	Create(ctx context.Context, m *domain.Message) (*domain.Message, error)
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
}

// chatProvider defines the chat completion interface needed by the chat service.
type chatProvider interface {
	Chat(ctx context.Context, messages []domain.ChatMessage) (string, error)
	ChatStream(ctx context.Context, messages []domain.ChatMessage, emit func(fragment string) error) error
}

// Service orchestrates conversation turns.
type Service struct {
	log           *slog.Logger
	conversations conversationRepo
	messages      messageRepo
	provider      chatProvider
}

// NewService creates a new chat service instance.
func NewService(
	logger *slog.Logger,
	conversations conversationRepo,
	messages messageRepo,
	provider chatProvider,
) *Service {
	return &Service{
		log:           logger.With("service", "chat"),
		conversations: conversations,
		messages:      messages,
		provider:      provider,
	}
}
