package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/glossa-app/glossa-backend/internal/domain"
)

// TurnInput holds parameters for one conversation turn.
type TurnInput struct {
	// ConversationID is optional: when nil a new conversation is created
	// with the given languages. Endpoints that require an existing
	// conversation enforce its presence before calling the service.
	ConversationID *uuid.UUID
	Text           string
	NativeLanguage string
	TargetLanguage string
	// Prompt is the per-turn scenario prompt. On an existing conversation
	// without a saved prompt it is persisted first-write-wins.
	Prompt *string
}

// Validate validates the turn input.
func (i TurnInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Text) == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if i.NativeLanguage == "" {
		errs = append(errs, domain.FieldError{Field: "native_language", Message: "required"})
	}
	if i.TargetLanguage == "" {
		errs = append(errs, domain.FieldError{Field: "target_language", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// TurnResult is the outcome of a completed batch turn.
type TurnResult struct {
	ConversationID uuid.UUID
	Reply          string
}

// StreamResult exposes a streaming turn in progress. Fragments delivers model
// output in arrival order and is closed when the stream ends; Err yields at
// most one error after Fragments closes.
type StreamResult struct {
	ConversationID uuid.UUID
	Fragments      <-chan string
	Err            <-chan error
}

// Turn runs one batch conversation turn: resolve the conversation, persist
// the user message, call the model with the assembled system instruction and
// the full ordered history, persist and return the reply.
func (s *Service) Turn(ctx context.Context, userID uuid.UUID, input TurnInput) (*TurnResult, error) {
	conv, history, err := s.beginTurn(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	reply, err := s.provider.Chat(ctx, history)
	if err != nil {
		return nil, fmt.Errorf("chat.Turn: %w", err)
	}

	if err := s.persistReply(ctx, conv.ID, reply); err != nil {
		return nil, err
	}

	return &TurnResult{ConversationID: conv.ID, Reply: strings.TrimSpace(reply)}, nil
}

// TurnStream runs one streaming conversation turn. The synchronous part
// resolves the conversation and persists the user message; model fragments
// then arrive on the result's Fragments channel. The assistant message is
// persisted only after the provider stream is fully drained, so a client
// disconnect mid-stream leaves the reply unpersisted.
func (s *Service) TurnStream(ctx context.Context, userID uuid.UUID, input TurnInput) (*StreamResult, error) {
	conv, history, err := s.beginTurn(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	fragments := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(fragments)
		defer close(errc)

		var reply strings.Builder
		err := s.provider.ChatStream(ctx, history, func(fragment string) error {
			reply.WriteString(fragment)
			select {
			case fragments <- fragment:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errc <- fmt.Errorf("chat.TurnStream: %w", err)
			return
		}

		if err := s.persistReply(ctx, conv.ID, reply.String()); err != nil {
			errc <- err
		}
	}()

	return &StreamResult{
		ConversationID: conv.ID,
		Fragments:      fragments,
		Err:            errc,
	}, nil
}

// beginTurn performs the shared synchronous half of a turn: validation,
// conversation resolution, user-message persistence and history assembly.
func (s *Service) beginTurn(ctx context.Context, userID uuid.UUID, input TurnInput) (*domain.Conversation, []domain.ChatMessage, error) {
	if err := input.Validate(); err != nil {
		return nil, nil, err
	}

	conv, err := s.resolveConversation(ctx, userID, input)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.messages.Create(ctx, &domain.Message{
		ConversationID: conv.ID,
		Sender:         domain.SenderUser,
		Content:        input.Text,
	}); err != nil {
		return nil, nil, fmt.Errorf("chat: persist user message: %w", err)
	}

	history, err := s.buildHistory(ctx, conv, input)
	if err != nil {
		return nil, nil, err
	}

	return conv, history, nil
}

// resolveConversation loads and authorizes an existing conversation or
// creates a new one. Ownership failures surface as ErrNotFound so existence
// is never leaked. A turn prompt on an existing conversation is saved
// first-write-wins.
func (s *Service) resolveConversation(ctx context.Context, userID uuid.UUID, input TurnInput) (*domain.Conversation, error) {
	if input.ConversationID == nil {
		conv, err := s.conversations.Create(ctx, &domain.Conversation{
			UserID:         userID,
			SourceLanguage: input.NativeLanguage,
			TargetLanguage: input.TargetLanguage,
			Prompt:         trimPtr(input.Prompt),
		})
		if err != nil {
			return nil, fmt.Errorf("chat: create conversation: %w", err)
		}

		s.log.InfoContext(ctx, "conversation created implicitly",
			slog.String("conversation_id", conv.ID.String()))

		return conv, nil
	}

	conv, err := s.conversations.GetByID(ctx, *input.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("chat: load conversation: %w", err)
	}
	if conv.UserID != userID {
		return nil, fmt.Errorf("chat: conversation owned by another user: %w", domain.ErrNotFound)
	}

	if p := trimPtr(input.Prompt); p != nil && !conv.HasPrompt() {
		written, err := s.conversations.SetPromptIfEmpty(ctx, conv.ID, *p)
		if err != nil {
			return nil, fmt.Errorf("chat: save prompt: %w", err)
		}
		if written {
			conv.Prompt = p
		}
	}

	return conv, nil
}

// buildHistory assembles the model message sequence: the layered system
// instruction followed by the full prior message history, oldest first. The
// just-persisted user message closes the sequence.
func (s *Service) buildHistory(ctx context.Context, conv *domain.Conversation, input TurnInput) ([]domain.ChatMessage, error) {
	stored, err := s.messages.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("chat: load history: %w", err)
	}

	system := BuildSystemPrompt(
		derefOrEmpty(conv.Prompt),
		derefOrEmpty(input.Prompt),
		input.NativeLanguage,
		input.TargetLanguage,
	)

	history := make([]domain.ChatMessage, 0, len(stored)+1)
	history = append(history, domain.ChatMessage{Role: domain.ChatRoleSystem, Content: system})
	for _, m := range stored {
		role := domain.ChatRoleUser
		if m.Sender == domain.SenderAssistant {
			role = domain.ChatRoleAssistant
		}
		history = append(history, domain.ChatMessage{Role: role, Content: m.Content})
	}

	return history, nil
}

// persistReply stores the assistant message, trimmed of surrounding whitespace.
func (s *Service) persistReply(ctx context.Context, conversationID uuid.UUID, reply string) error {
	if _, err := s.messages.Create(ctx, &domain.Message{
		ConversationID: conversationID,
		Sender:         domain.SenderAssistant,
		Content:        strings.TrimSpace(reply),
	}); err != nil {
		return fmt.Errorf("chat: persist assistant message: %w", err)
	}
	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
