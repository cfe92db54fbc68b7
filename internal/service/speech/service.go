// Package speech implements speech-to-text and text-to-speech operations.
package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/glossa-app/glossa-backend/internal/domain"
)

// allowedAudioTypes is the MIME allow-list for transcription uploads,
// checked before any provider call.
var allowedAudioTypes = map[string]struct{}{
	"audio/wav":   {},
	"audio/mpeg":  {},
	"audio/mp3":   {},
	"audio/webm":  {},
	"audio/x-wav": {},
	"audio/flac":  {},
	"audio/ogg":   {},
}

// transcriber defines the speech-to-text provider interface.
type transcriber interface {
	Transcribe(ctx context.Context, filename, contentType, language string, audio io.Reader) (string, error)
}

// synthesizer defines the text-to-speech provider interface. The returned
// stream is owned by the caller.
type synthesizer interface {
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}

// Service implements speech operations.
type Service struct {
	log *slog.Logger
	stt transcriber
	tts synthesizer
}

// NewService creates a new speech service instance.
func NewService(logger *slog.Logger, stt transcriber, tts synthesizer) *Service {
	return &Service{
		log: logger.With("service", "speech"),
		stt: stt,
		tts: tts,
	}
}

// TranscribeInput holds parameters for a transcription request.
type TranscribeInput struct {
	Filename    string
	ContentType string
	// Language is an optional ISO-639-1 recognition hint.
	Language string
	Audio    io.Reader
}

// Validate validates the transcription input. The MIME type is checked
// against the allow-list here so unsupported uploads never reach the provider.
func (i TranscribeInput) Validate() error {
	var errs []domain.FieldError

	if i.Audio == nil {
		errs = append(errs, domain.FieldError{Field: "file", Message: "required"})
	}

	mediaType := i.ContentType
	if idx := strings.Index(mediaType, ";"); idx != -1 {
		mediaType = mediaType[:idx]
	}
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))
	if _, ok := allowedAudioTypes[mediaType]; !ok {
		errs = append(errs, domain.FieldError{Field: "file", Message: "unsupported audio type " + i.ContentType})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Transcribe converts uploaded audio into text.
func (s *Service) Transcribe(ctx context.Context, input TranscribeInput) (string, error) {
	if err := input.Validate(); err != nil {
		return "", err
	}

	text, err := s.stt.Transcribe(ctx, input.Filename, input.ContentType, input.Language, input.Audio)
	if err != nil {
		return "", fmt.Errorf("speech.Transcribe: %w", err)
	}

	s.log.InfoContext(ctx, "audio transcribed",
		slog.String("content_type", input.ContentType),
		slog.Int("text_len", len(text)))

	return text, nil
}

// Synthesize converts text into an MP3 audio stream. The caller must close
// the returned stream.
func (s *Service) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("text", "required")
	}

	audio, err := s.tts.Synthesize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("speech.Synthesize: %w", err)
	}

	return audio, nil
}
