package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPITMScorerSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/score", r.URL.Path)

		var req itmRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "aW1hZ2U=", req.ImageBase64)
		assert.Equal(t, "a red barn", req.Text)

		json.NewEncoder(w).Encode(itmResponse{ITMScore: 0.42})
	}))
	defer server.Close()

	scorer := NewHTTPITMScorer(server.URL)
	score, err := scorer.Score(context.Background(), "aW1hZ2U=", "a red barn")
	require.NoError(t, err)
	assert.Equal(t, 0.42, score)
}

func TestHTTPITMScorerClampsScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(itmResponse{ITMScore: 1.7})
	}))
	defer server.Close()

	scorer := NewHTTPITMScorer(server.URL)
	score, err := scorer.Score(context.Background(), "aW1hZ2U=", "text")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestHTTPITMScorerRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(itmResponse{ITMScore: 0.6})
	}))
	defer server.Close()

	scorer := NewHTTPITMScorer(server.URL)
	score, err := scorer.Score(context.Background(), "aW1hZ2U=", "text")
	require.NoError(t, err)
	assert.Equal(t, 0.6, score)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestHTTPITMScorerDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	scorer := NewHTTPITMScorer(server.URL)
	_, err := scorer.Score(context.Background(), "aW1hZ2U=", "text")
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestHTTPITMScorerExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	scorer := NewHTTPITMScorer(server.URL)
	_, err := scorer.Score(context.Background(), "aW1hZ2U=", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClampUnit(t *testing.T) {
	assert.Equal(t, 0.0, clampUnit(-0.5))
	assert.Equal(t, 0.5, clampUnit(0.5))
	assert.Equal(t, 1.0, clampUnit(2.0))
}
