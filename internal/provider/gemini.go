package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"go-model-comparator/internal/logger"
	"go-model-comparator/pkg/models"
)

// GeminiClient calls the generateContent REST endpoint directly. Auth and
// endpoint selection are configuration; nothing provider-specific leaks out.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	maxRetries int
}

func NewGeminiClient(baseURL, apiKey string) *GeminiClient {
	return &GeminiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		client:     &http.Client{},
		maxRetries: 2,
	}
}

func (g *GeminiClient) Name() models.Provider {
	return models.ProviderGemini
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

func (g *GeminiClient) Invoke(ctx context.Context, req Request) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, req.Model)

	parts := []geminiPart{{Text: req.User}}
	if req.ImageBase64 != "" {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MIMEType: req.ImageMIME,
			Data:     req.ImageBase64,
		}})
	}
	payload := geminiRequest{Contents: []geminiContent{{Parts: parts}}}
	if req.System != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-goog-api-key", g.apiKey)

		resp, err := g.client.Do(httpReq)
		if err != nil {
			return "", err
		}

		var buf bytes.Buffer
		_, readErr := buf.ReadFrom(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return "", fmt.Errorf("failed to read response: %w", readErr)
		}
		raw := buf.String()

		if resp.StatusCode/100 == 2 {
			text := gjson.Get(raw, "candidates.0.content.parts.0.text").String()
			if text == "" {
				return "", fmt.Errorf("gemini returned no candidates")
			}
			return text, nil
		}

		msg := gjson.Get(raw, "error.message").String()
		if msg == "" {
			msg = resp.Status
		}
		lastErr = fmt.Errorf("gemini status=%d: %s", resp.StatusCode, msg)

		if !retryableStatus(resp.StatusCode) || attempt == g.maxRetries {
			break
		}

		wait := retryDelay(resp.Header.Get("Retry-After"), attempt)
		logger.WithFields(logrus.Fields{
			"model":   req.Model,
			"status":  resp.StatusCode,
			"attempt": attempt + 1,
			"wait":    wait.String(),
		}).Warn("Retrying gemini request")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
	return "", lastErr
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// retryDelay honors Retry-After when present, otherwise backs off
// exponentially from 500ms, capped at 8s.
func retryDelay(retryAfter string, attempt int) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	wait := 500 * time.Millisecond << attempt
	if wait > 8*time.Second {
		wait = 8 * time.Second
	}
	return wait
}
