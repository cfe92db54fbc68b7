package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/glossa-app/glossa-backend/internal/domain"
	"github.com/glossa-app/glossa-backend/internal/service/conversation"
	"github.com/glossa-app/glossa-backend/pkg/ctxutil"
)

// conversationService defines the minimal interface needed by ConversationHandler.
type conversationService interface {
	Create(ctx context.Context, userID uuid.UUID, input conversation.CreateInput) (*domain.Conversation, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.Conversation, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// ConversationHandler serves the conversation CRUD endpoints.
type ConversationHandler struct {
	svc conversationService
	log *slog.Logger
}

// NewConversationHandler creates a ConversationHandler.
func NewConversationHandler(svc conversationService, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{svc: svc, log: logger.With("handler", "conversation")}
}

type createConversationRequest struct {
	SourceLanguage string  `json:"source_language"`
	TargetLanguage string  `json:"target_language"`
	Prompt         *string `json:"prompt"`
}

type conversationResponse struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	SourceLanguage string            `json:"source_language"`
	TargetLanguage string            `json:"target_language"`
	Prompt         *string           `json:"prompt"`
	CreatedAt      time.Time         `json:"created_at"`
	Messages       []messageResponse `json:"messages"`
}

type messageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func toConversationResponse(c *domain.Conversation) conversationResponse {
	messages := make([]messageResponse, 0, len(c.Messages))
	for _, m := range c.Messages {
		messages = append(messages, messageResponse{
			ID:             m.ID.String(),
			ConversationID: m.ConversationID.String(),
			Sender:         string(m.Sender),
			Content:        m.Content,
			CreatedAt:      m.CreatedAt,
		})
	}

	return conversationResponse{
		ID:             c.ID.String(),
		UserID:         c.UserID.String(),
		SourceLanguage: c.SourceLanguage,
		TargetLanguage: c.TargetLanguage,
		Prompt:         c.Prompt,
		CreatedAt:      c.CreatedAt,
		Messages:       messages,
	}
}

// Create handles POST /conversations.
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createConversationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	conv, err := h.svc.Create(r.Context(), userID, conversation.CreateInput{
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Prompt:         req.Prompt,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toConversationResponse(conv))
}

// List handles GET /conversations. Conversations come back oldest first
// with their full message history.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	convs, err := h.svc.List(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]conversationResponse, 0, len(convs))
	for i := range convs {
		out = append(out, toConversationResponse(&convs[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /conversations/{id}.
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	conv, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toConversationResponse(conv))
}

// Delete handles DELETE /conversations/{id}.
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
