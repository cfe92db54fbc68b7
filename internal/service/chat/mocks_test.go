package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/glossa-app/glossa-backend/internal/domain"
)

var (
	_ conversationRepo = &conversationRepoMock{}
	_ messageRepo      = &messageRepoMock{}
	_ chatProvider     = &chatProviderMock{}
)

type conversationRepoMock struct {
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	CreateFunc           func(ctx context.Context, c *domain.Conversation) (*domain.Conversation, error)
	SetPromptIfEmptyFunc func(ctx context.Context, id uuid.UUID, prompt string) (bool, error)

	calls struct {
		SetPromptIfEmpty []struct {
			ID     uuid.UUID
			Prompt string
		}
	}
	lock sync.RWMutex
}

func (mock *conversationRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	if mock.GetByIDFunc == nil {
		panic("conversationRepoMock.GetByIDFunc: method is nil but conversationRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

func (mock *conversationRepoMock) Create(ctx context.Context, c *domain.Conversation) (*domain.Conversation, error) {
	if mock.CreateFunc == nil {
		panic("conversationRepoMock.CreateFunc: method is nil but conversationRepo.Create was just called")
	}
	return mock.CreateFunc(ctx, c)
}

func (mock *conversationRepoMock) SetPromptIfEmpty(ctx context.Context, id uuid.UUID, prompt string) (bool, error) {
	if mock.SetPromptIfEmptyFunc == nil {
		panic("conversationRepoMock.SetPromptIfEmptyFunc: method is nil but conversationRepo.SetPromptIfEmpty was just called")
	}
	mock.lock.Lock()
	mock.calls.SetPromptIfEmpty = append(mock.calls.SetPromptIfEmpty, struct {
		ID     uuid.UUID
		Prompt string
	}{ID: id, Prompt: prompt})
	mock.lock.Unlock()
	return mock.SetPromptIfEmptyFunc(ctx, id, prompt)
}

func (mock *conversationRepoMock) SetPromptIfEmptyCalls() []struct {
	ID     uuid.UUID
	Prompt string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.SetPromptIfEmpty
}

type messageRepoMock struct {
	CreateFunc             func(ctx context.Context, m *domain.Message) (*domain.Message, error)
	ListByConversationFunc func(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)

	calls struct {
		Create []struct {
			Message *domain.Message
		}
	}
	lock sync.RWMutex
}

func (mock *messageRepoMock) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	if mock.CreateFunc == nil {
		panic("messageRepoMock.CreateFunc: method is nil but messageRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ Message *domain.Message }{Message: m})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, m)
}

func (mock *messageRepoMock) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	if mock.ListByConversationFunc == nil {
		panic("messageRepoMock.ListByConversationFunc: method is nil but messageRepo.ListByConversation was just called")
	}
	return mock.ListByConversationFunc(ctx, conversationID)
}

func (mock *messageRepoMock) CreateCalls() []struct{ Message *domain.Message } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

type chatProviderMock struct {
	ChatFunc       func(ctx context.Context, messages []domain.ChatMessage) (string, error)
	ChatStreamFunc func(ctx context.Context, messages []domain.ChatMessage, emit func(fragment string) error) error
}

func (mock *chatProviderMock) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	if mock.ChatFunc == nil {
		panic("chatProviderMock.ChatFunc: method is nil but chatProvider.Chat was just called")
	}
	return mock.ChatFunc(ctx, messages)
}

func (mock *chatProviderMock) ChatStream(ctx context.Context, messages []domain.ChatMessage, emit func(fragment string) error) error {
	if mock.ChatStreamFunc == nil {
		panic("chatProviderMock.ChatStreamFunc: method is nil but chatProvider.ChatStream was just called")
	}
	return mock.ChatStreamFunc(ctx, messages, emit)
}
