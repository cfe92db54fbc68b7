package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/glossa-app/glossa-backend/internal/domain"
	"github.com/glossa-app/glossa-backend/internal/service/language"
)

// languageService defines the minimal interface needed by LanguageHandler.
type languageService interface {
	Translate(ctx context.Context, input language.TranslateInput) (string, error)
	Languages(ctx context.Context, target string) ([]domain.Language, error)
}

// LanguageHandler serves the translation endpoints.
type LanguageHandler struct {
	svc languageService
	log *slog.Logger
}

// NewLanguageHandler creates a LanguageHandler.
func NewLanguageHandler(svc languageService, logger *slog.Logger) *LanguageHandler {
	return &LanguageHandler{svc: svc, log: logger.With("handler", "language")}
}

type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Translate handles POST /languages/translate. An empty source lets the
// provider detect the source language.
func (h *LanguageHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	translation, err := h.svc.Translate(r.Context(), language.TranslateInput{
		Text:   req.Text,
		Source: req.Source,
		Target: req.Target,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"translation": translation})
}

// Languages handles GET /languages?target=. The target locale localizes the
// returned language names.
func (h *LanguageHandler) Languages(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")

	languages, err := h.svc.Languages(r.Context(), target)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]domain.Language{"languages": languages})
}
