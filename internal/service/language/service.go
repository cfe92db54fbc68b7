// Package language implements translation and language-catalog operations.
package language

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glossa-app/glossa-backend/internal/domain"
)

// translator defines the translation provider interface.
type translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	Languages(ctx context.Context, target string) ([]domain.Language, error)
}

// Service implements language operations.
type Service struct {
	log      *slog.Logger
	provider translator
}

// NewService creates a new language service instance.
func NewService(logger *slog.Logger, provider translator) *Service {
	return &Service{
		log:      logger.With("service", "language"),
		provider: provider,
	}
}

// TranslateInput holds parameters for a translation request.
type TranslateInput struct {
	Text   string
	Source string
	Target string
}

// Validate validates the translation input. Source may be empty; the
// provider then detects the source language.
func (i TranslateInput) Validate() error {
	var errs []domain.FieldError

	if i.Text == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if i.Target == "" {
		errs = append(errs, domain.FieldError{Field: "target", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Translate translates text between languages. Provider failures pass
// through as upstream errors carrying the provider status and body.
func (s *Service) Translate(ctx context.Context, input TranslateInput) (string, error) {
	if err := input.Validate(); err != nil {
		return "", err
	}

	translation, err := s.provider.Translate(ctx, input.Text, input.Source, input.Target)
	if err != nil {
		return "", fmt.Errorf("language.Translate: %w", err)
	}

	return translation, nil
}

// Languages returns the provider's language catalog, localized to the target
// display locale when given.
func (s *Service) Languages(ctx context.Context, target string) ([]domain.Language, error) {
	languages, err := s.provider.Languages(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("language.Languages: %w", err)
	}

	s.log.DebugContext(ctx, "language catalog fetched",
		slog.Int("count", len(languages)))

	return languages, nil
}
