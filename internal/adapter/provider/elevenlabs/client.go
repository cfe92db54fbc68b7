// Package elevenlabs synthesizes speech via the ElevenLabs text-to-speech API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/glossa-app/glossa-backend/internal/config"
	"github.com/glossa-app/glossa-backend/internal/domain"
)

type voicesResponse struct {
	Voices []struct {
		VoiceID string `json:"voice_id"`
		Name    string `json:"name"`
	} `json:"voices"`
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Client talks to the ElevenLabs API using an API key.
type Client struct {
	baseURL      string
	apiKey       string
	modelID      string
	outputFormat string
	httpClient   *http.Client
	log          *slog.Logger
}

// NewClient creates a Client from config.
func NewClient(cfg config.TTSConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		modelID:      cfg.ModelID,
		outputFormat: cfg.OutputFormat,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		log:          logger.With("adapter", "elevenlabs"),
	}
}

// Synthesize converts text into MP3 audio using the account's first available
// voice. The returned stream is the provider's response body; the caller must
// close it. Audio is never buffered in full here, long utterances stream
// straight through to the consumer.
func (c *Client) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	voiceID, err := c.firstVoiceID(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: c.modelID,
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: marshal request: %w", err)
	}

	url := c.baseURL + "/v1/text-to-speech/" + voiceID + "?output_format=" + c.outputFormat

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, domain.NewUpstreamError("elevenlabs", resp.StatusCode, string(detail))
	}

	c.log.DebugContext(ctx, "speech synthesis started",
		slog.String("voice_id", voiceID),
		slog.Duration("time_to_first_byte", time.Since(start)),
	)

	return resp.Body, nil
}

// firstVoiceID returns the first voice available to the account.
func (c *Client) firstVoiceID(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/voices", nil)
	if err != nil {
		return "", fmt.Errorf("elevenlabs: create voices request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("elevenlabs: voices request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", domain.NewUpstreamError("elevenlabs", resp.StatusCode, string(detail))
	}

	var payload voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("elevenlabs: decode voices response: %w", err)
	}
	if len(payload.Voices) == 0 {
		return "", errors.New("elevenlabs: account has no voices")
	}

	return payload.Voices[0].VoiceID, nil
}
