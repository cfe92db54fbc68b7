package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/glossa-app/glossa-backend/internal/service/speech"
)

// maxAudioUpload caps /stt uploads at the provider's 25 MB file limit.
const maxAudioUpload = 25 << 20

// speechService defines the minimal interface needed by SpeechHandler.
type speechService interface {
	Transcribe(ctx context.Context, input speech.TranscribeInput) (string, error)
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}

// SpeechHandler serves the speech-to-text and text-to-speech endpoints.
type SpeechHandler struct {
	svc speechService
	log *slog.Logger
}

// NewSpeechHandler creates a SpeechHandler.
func NewSpeechHandler(svc speechService, logger *slog.Logger) *SpeechHandler {
	return &SpeechHandler{svc: svc, log: logger.With("handler", "speech")}
}

type synthesizeRequest struct {
	Text string `json:"text"`
}

// Transcribe handles POST /stt?language=. The audio arrives as a multipart
// "file" part; the optional language query is a recognition hint.
func (h *SpeechHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	text, err := h.svc.Transcribe(r.Context(), speech.TranscribeInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Language:    r.URL.Query().Get("language"),
		Audio:       file,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// Synthesize handles POST /tts. Provider audio is copied through to the
// client chunk by chunk as it arrives; nothing is buffered in full.
func (h *SpeechHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	audio, err := h.svc.Synthesize(r.Context(), req.Text)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	defer audio.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 32<<10)
	for {
		n, rerr := audio.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				h.log.WarnContext(r.Context(), "write audio response", slog.String("error", werr.Error()))
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if rerr != nil {
			if !errors.Is(rerr, io.EOF) {
				// Headers are gone; the early end of the byte stream is the
				// only signal the client gets.
				h.log.WarnContext(r.Context(), "audio stream interrupted", slog.String("error", rerr.Error()))
			}
			return
		}
	}
}
