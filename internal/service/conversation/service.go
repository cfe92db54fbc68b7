// Package conversation implements conversation CRUD scoped to the owning user.
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/glossa-app/glossa-backend/internal/domain"
	"github.com/glossa-app/glossa-backend/internal/service/chat"
)

// conversationRepo defines the conversation repository interface needed by this service.
type conversationRepo interface {
	Create(ctx context.Context, c *domain.Conversation) (*domain.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// messageRepo defines the message repository interface needed by this service.
type messageRepo interface {
	Create(ctx context.Context, m *domain.Message) (*domain.Message, error)
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
}

// chatProvider is used to seed the opening assistant reply on conversations
// created with a scenario prompt.
type chatProvider interface {
	Chat(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

// Service implements conversation operations.
type Service struct {
	log           *slog.Logger
	conversations conversationRepo
	messages      messageRepo
	provider      chatProvider
}

// NewService creates a new conversation service instance.
func NewService(
	logger *slog.Logger,
	conversations conversationRepo,
	messages messageRepo,
	provider chatProvider,
) *Service {
	return &Service{
		log:           logger.With("service", "conversation"),
		conversations: conversations,
		messages:      messages,
		provider:      provider,
	}
}

// CreateInput holds parameters for starting a conversation.
type CreateInput struct {
	SourceLanguage string
	TargetLanguage string
	Prompt         *string
}

// Validate validates the create input.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.SourceLanguage == "" {
		errs = append(errs, domain.FieldError{Field: "source_language", Message: "required"})
	}
	if i.TargetLanguage == "" {
		errs = append(errs, domain.FieldError{Field: "target_language", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Create starts a new conversation. When a scenario prompt is supplied the
// tutor model is asked to open the conversation and its reply is stored as
// the first assistant message. A provider failure during seeding is logged
// and the conversation is returned unseeded; the first turn recovers.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*domain.Conversation, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var prompt *string
	if input.Prompt != nil {
		if p := strings.TrimSpace(*input.Prompt); p != "" {
			prompt = &p
		}
	}

	conv, err := s.conversations.Create(ctx, &domain.Conversation{
		UserID:         userID,
		SourceLanguage: input.SourceLanguage,
		TargetLanguage: input.TargetLanguage,
		Prompt:         prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("conversation.Create: %w", err)
	}

	if prompt != nil {
		if err := s.seedReply(ctx, conv); err != nil {
			s.log.WarnContext(ctx, "seeding opening reply failed",
				slog.String("conversation_id", conv.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	messages, err := s.messages.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("conversation.Create load messages: %w", err)
	}
	conv.Messages = messages

	s.log.InfoContext(ctx, "conversation created",
		slog.String("conversation_id", conv.ID.String()),
		slog.Bool("seeded", len(messages) > 0))

	return conv, nil
}

// seedReply asks the model to open the conversation from the scenario prompt
// alone and stores the reply as the first assistant message.
func (s *Service) seedReply(ctx context.Context, conv *domain.Conversation) error {
	system := chat.BuildSystemPrompt(
		derefOrEmpty(conv.Prompt), "",
		conv.SourceLanguage, conv.TargetLanguage,
	)

	reply, err := s.provider.Chat(ctx, []domain.ChatMessage{
		{Role: domain.ChatRoleSystem, Content: system},
	})
	if err != nil {
		return fmt.Errorf("opening reply: %w", err)
	}

	if _, err := s.messages.Create(ctx, &domain.Message{
		ConversationID: conv.ID,
		Sender:         domain.SenderAssistant,
		Content:        strings.TrimSpace(reply),
	}); err != nil {
		return fmt.Errorf("persist opening reply: %w", err)
	}

	return nil
}

// List returns the caller's conversations, oldest first, with messages.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	convs, err := s.conversations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("conversation.List: %w", err)
	}

	for i := range convs {
		messages, err := s.messages.ListByConversation(ctx, convs[i].ID)
		if err != nil {
			return nil, fmt.Errorf("conversation.List load messages: %w", err)
		}
		convs[i].Messages = messages
	}

	return convs, nil
}

// Get returns one conversation with its message history. A conversation
// owned by another user is reported as ErrNotFound, never as forbidden.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.authorize(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("conversation.Get: %w", err)
	}

	messages, err := s.messages.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("conversation.Get load messages: %w", err)
	}
	conv.Messages = messages

	return conv, nil
}

// Delete removes a conversation and, by cascade, its messages.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.authorize(ctx, userID, id); err != nil {
		return fmt.Errorf("conversation.Delete: %w", err)
	}

	if err := s.conversations.Delete(ctx, id); err != nil {
		return fmt.Errorf("conversation.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "conversation deleted",
		slog.String("conversation_id", id.String()))

	return nil
}

// authorize loads a conversation and hides foreign ones behind ErrNotFound.
func (s *Service) authorize(ctx context.Context, userID, id uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return conv, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
