package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/glossa-app/glossa-backend/internal/service/chat"
	"github.com/glossa-app/glossa-backend/pkg/ctxutil"
)

// chatService defines the minimal interface needed by ChatHandler.
type chatService interface {
	Turn(ctx context.Context, userID uuid.UUID, input chat.TurnInput) (*chat.TurnResult, error)
	TurnStream(ctx context.Context, userID uuid.UUID, input chat.TurnInput) (*chat.StreamResult, error)
}

// ChatHandler serves the conversation-turn endpoints.
type ChatHandler struct {
	svc chatService
	log *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(svc chatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, log: logger.With("handler", "chat")}
}

type turnRequest struct {
	Text           string  `json:"text"`
	NativeLanguage string  `json:"native_language"`
	TargetLanguage string  `json:"target_language"`
	ConversationID *string `json:"conversation_id"`
	Prompt         *string `json:"prompt"`
}

type turnResponse struct {
	AssistantText  string `json:"assistant_text"`
	ConversationID string `json:"conversation_id"`
}

// toTurnInput converts the request body, parsing the optional conversation
// ID. The bool result is false if the ID is present but malformed.
func (req turnRequest) toTurnInput() (chat.TurnInput, bool) {
	input := chat.TurnInput{
		Text:           req.Text,
		NativeLanguage: req.NativeLanguage,
		TargetLanguage: req.TargetLanguage,
		Prompt:         req.Prompt,
	}
	if req.ConversationID != nil {
		id, err := uuid.Parse(*req.ConversationID)
		if err != nil {
			return chat.TurnInput{}, false
		}
		input.ConversationID = &id
	}
	return input, true
}

// Stream handles POST /chat. The conversation must already exist; the reply
// is streamed as plain text fragments in model arrival order.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req turnRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ConversationID == nil {
		writeError(w, http.StatusBadRequest, "conversation_id is required")
		return
	}

	input, ok := req.toTurnInput()
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	result, err := h.svc.TurnStream(r.Context(), userID, input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for fragment := range result.Fragments {
		if _, err := w.Write([]byte(fragment)); err != nil {
			// Client went away; drain so the producer can finish.
			for range result.Fragments {
			}
			break
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	if err := <-result.Err; err != nil {
		// Headers are already out; all we can do is log and cut the stream.
		h.log.ErrorContext(r.Context(), "chat stream failed",
			slog.String("conversation_id", result.ConversationID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// VoiceTurn handles POST /voice-turn. The transcribed user text comes in the
// body; the full assistant reply is returned at once. A missing
// conversation_id creates a new conversation for the given language pair.
func (h *ChatHandler) VoiceTurn(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req turnRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, ok := req.toTurnInput()
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	result, err := h.svc.Turn(r.Context(), userID, input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{
		AssistantText:  result.Reply,
		ConversationID: result.ConversationID.String(),
	})
}
