package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ITMScorer is the external image-text-matching capability: given the
// original image and a response text it returns a match probability in [0,1].
// It is a pure dependency; this service never computes the score itself.
type ITMScorer interface {
	Score(ctx context.Context, imageBase64, text string) (float64, error)
}

// HTTPITMScorer calls a dedicated scoring service (a BLIP-style model behind
// an HTTP endpoint).
type HTTPITMScorer struct {
	baseURL    string
	client     *http.Client
	maxRetries int
}

func NewHTTPITMScorer(baseURL string) *HTTPITMScorer {
	return &HTTPITMScorer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: 30 * time.Second},
		maxRetries: 2,
	}
}

type itmRequest struct {
	ImageBase64 string `json:"image_base64"`
	Text        string `json:"text"`
}

type itmResponse struct {
	ITMScore float64 `json:"itm_score"`
}

func (s *HTTPITMScorer) Score(ctx context.Context, imageBase64, text string) (float64, error) {
	body, err := json.Marshal(itmRequest{ImageBase64: imageBase64, Text: text})
	if err != nil {
		return 0, err
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/score", bytes.NewReader(body))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return 0, err
		}

		if resp.StatusCode == http.StatusOK {
			var out itmResponse
			decodeErr := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if decodeErr != nil {
				return 0, fmt.Errorf("failed to decode scorer response: %w", decodeErr)
			}
			return clampUnit(out.ITMScore), nil
		}
		resp.Body.Close()

		// 4xx means our request is wrong, retrying will not help
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return 0, fmt.Errorf("scorer rejected request: status code %d", resp.StatusCode)
		}
		lastErr = fmt.Errorf("scorer error: status code %d", resp.StatusCode)

		if attempt < s.maxRetries {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Duration(attempt+1) * 500 * time.Millisecond):
			}
		}
	}
	return 0, lastErr
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
