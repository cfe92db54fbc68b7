// Package googletrans translates text via the Google Cloud Translation v2 REST API.
package googletrans

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/glossa-app/glossa-backend/internal/config"
	"github.com/glossa-app/glossa-backend/internal/domain"
)

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source,omitempty"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

type languagesResponse struct {
	Data struct {
		Languages []domain.Language `json:"languages"`
	} `json:"data"`
}

// Client talks to the Translation v2 endpoint using an API key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from config.
func NewClient(cfg config.TranslateConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        logger.With("adapter", "googletrans"),
	}
}

// Translate translates text into target. source may be empty, letting the API
// detect the source language. Upstream failures come back as
// domain.UpstreamError carrying the provider status and body.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
	})
	if err != nil {
		return "", fmt.Errorf("googletrans: marshal request: %w", err)
	}

	url := c.baseURL + "/language/translate/v2?key=" + c.apiKey

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("googletrans: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("googletrans: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("googletrans: read response body: %w", err)
	}

	c.log.DebugContext(ctx, "translate request",
		slog.String("target", target),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode != http.StatusOK {
		return "", domain.NewUpstreamError("googletrans", resp.StatusCode, string(raw))
	}

	var payload translateResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("googletrans: decode response: %w", err)
	}
	if len(payload.Data.Translations) == 0 {
		return "", errors.New("googletrans: no translations in response")
	}

	return payload.Data.Translations[0].TranslatedText, nil
}

// Languages returns the provider's language catalog with names localized to
// the target display locale.
func (c *Client) Languages(ctx context.Context, target string) ([]domain.Language, error) {
	reqURL := c.baseURL + "/language/translate/v2/languages?key=" + c.apiKey
	if target != "" {
		reqURL += "&target=" + url.QueryEscape(target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("googletrans: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("googletrans: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("googletrans: read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstreamError("googletrans", resp.StatusCode, string(raw))
	}

	var payload languagesResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("googletrans: decode response: %w", err)
	}

	return payload.Data.Languages, nil
}
