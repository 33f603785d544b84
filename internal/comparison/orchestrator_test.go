package comparison

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-model-comparator/internal/catalog"
	apperrors "go-model-comparator/internal/errors"
	"go-model-comparator/internal/imaging"
	"go-model-comparator/internal/observer"
	"go-model-comparator/internal/provider"
	"go-model-comparator/internal/scoring"
	"go-model-comparator/pkg/models"
)

type fakeProvider struct {
	name     models.Provider
	response string
	err      error
	delay    time.Duration
	calls    atomic.Int32
}

func (f *fakeProvider) Name() models.Provider {
	return f.name
}

func (f *fakeProvider) Invoke(ctx context.Context, req provider.Request) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.response, f.err
}

type fixedITM struct{ score float64 }

func (f fixedITM) Score(ctx context.Context, imageBase64, text string) (float64, error) {
	return f.score, nil
}

type failingITM struct{}

func (failingITM) Score(ctx context.Context, imageBase64, text string) (float64, error) {
	return 0, errors.New("scorer down")
}

const englishResponse = "The image shows a red barn in a field. " +
	"Two horses are grazing near the fence, and the sky above is clear. " +
	"A dirt road leads from the gate toward the building on the left side."

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newOrchestrator(t *testing.T, itm scoring.ITMScorer, providers ...provider.ModelProvider) *Orchestrator {
	t.Helper()
	cat, err := catalog.Load("")
	require.NoError(t, err)

	events := observer.NewSubject()
	registry := provider.NewRegistry(providers...)
	invoker := NewInvoker(registry, events, 0)
	scorer := scoring.NewScorer(itm, 0.7, 0.3)
	return NewOrchestrator(imaging.NewNormalizer(), cat, invoker, scorer, events)
}

func TestCompareHappyPath(t *testing.T) {
	gemini := &fakeProvider{name: models.ProviderGemini, response: englishResponse}
	ollama := &fakeProvider{name: models.ProviderOllama, response: englishResponse}
	orch := newOrchestrator(t, fixedITM{score: 0.8}, gemini, ollama)

	configs := []models.ModelConfig{
		{Provider: models.ProviderOllama, ModelName: "gemma3:4b"},
		{Provider: models.ProviderGemini},
		{Provider: models.ProviderOllama, ModelName: "qwen2.5vl:7b"},
	}
	resp, err := orch.Compare(context.Background(), pngBytes(t), "image/png", configs)
	require.NoError(t, err)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, "gemma3:4b", resp.Results[0].ModelName)
	assert.Equal(t, models.ProviderGemini, resp.Results[1].Provider)
	assert.Equal(t, "qwen2.5vl:7b", resp.Results[2].ModelName)
	for _, r := range resp.Results {
		assert.True(t, r.Success)
		assert.Empty(t, r.Error)
		assert.GreaterOrEqual(t, r.ExecutionTime, 0.0)
	}

	assert.Greater(t, resp.TotalExecutionTime, 0.0)
	assert.Equal(t, "PNG", resp.ImageInfo.Format)
	assert.Equal(t, 16, resp.ImageInfo.Width)

	require.Len(t, resp.Summary.MetricsSummary, 3)
	assert.Equal(t, "gemma3:4b", resp.Summary.MetricsSummary[0].ModelName)
	assert.NotEqual(t, NoWinner, resp.Summary.Winner)
	assert.Equal(t, 3, resp.Summary.TotalModels)

	assert.Equal(t, int32(2), ollama.calls.Load())
	assert.Equal(t, int32(1), gemini.calls.Load())
}

func TestCompareRejectsTooFewModels(t *testing.T) {
	p := &fakeProvider{name: models.ProviderOllama, response: englishResponse}
	orch := newOrchestrator(t, fixedITM{score: 0.5}, p)

	_, err := orch.Compare(context.Background(), pngBytes(t), "image/png",
		[]models.ModelConfig{{Provider: models.ProviderOllama, ModelName: "gemma3:4b"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Zero(t, p.calls.Load())
}

func TestCompareRejectsTooManyModels(t *testing.T) {
	p := &fakeProvider{name: models.ProviderOllama, response: englishResponse}
	orch := newOrchestrator(t, fixedITM{score: 0.5}, p)

	configs := make([]models.ModelConfig, MaxModels+1)
	for i := range configs {
		configs[i] = models.ModelConfig{Provider: models.ProviderOllama, ModelName: "gemma3:4b"}
	}
	_, err := orch.Compare(context.Background(), pngBytes(t), "image/png", configs)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Zero(t, p.calls.Load())
}

func TestCompareRejectsInvalidConfigBeforeDispatch(t *testing.T) {
	p := &fakeProvider{name: models.ProviderOllama, response: englishResponse}
	orch := newOrchestrator(t, fixedITM{score: 0.5}, p)

	// the first config is valid, the second is not: nothing may be invoked
	configs := []models.ModelConfig{
		{Provider: models.ProviderOllama, ModelName: "gemma3:4b"},
		{Provider: "unknown", ModelName: "x"},
	}
	_, err := orch.Compare(context.Background(), pngBytes(t), "image/png", configs)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Zero(t, p.calls.Load())
}

func TestCompareRejectsInvalidImageBeforeDispatch(t *testing.T) {
	p := &fakeProvider{name: models.ProviderOllama, response: englishResponse}
	orch := newOrchestrator(t, fixedITM{score: 0.5}, p)

	configs := []models.ModelConfig{
		{Provider: models.ProviderOllama, ModelName: "gemma3:4b"},
		{Provider: models.ProviderOllama, ModelName: "qwen2.5vl:7b"},
	}
	_, err := orch.Compare(context.Background(), []byte("not an image"), "image/png", configs)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeImage))
	assert.Zero(t, p.calls.Load())
}

func TestComparePartialFailure(t *testing.T) {
	gemini := &fakeProvider{name: models.ProviderGemini, err: errors.New("quota exceeded")}
	ollama := &fakeProvider{name: models.ProviderOllama, response: englishResponse}
	orch := newOrchestrator(t, fixedITM{score: 0.7}, gemini, ollama)

	configs := []models.ModelConfig{
		{Provider: models.ProviderGemini},
		{Provider: models.ProviderOllama, ModelName: "gemma3:4b"},
	}
	resp, err := orch.Compare(context.Background(), pngBytes(t), "image/png", configs)
	require.NoError(t, err, "a single model failure must not abort the comparison")

	require.Len(t, resp.Results, 2)
	assert.False(t, resp.Results[0].Success)
	assert.Contains(t, resp.Results[0].Error, "quota exceeded")
	assert.True(t, resp.Results[1].Success)

	require.Len(t, resp.Summary.MetricsSummary, 1)
	assert.Equal(t, "gemma3:4b", resp.Summary.Winner)
	assert.Equal(t, int32(1), ollama.calls.Load(), "siblings keep running when one model fails")
}

func TestCompareAllModelsFail(t *testing.T) {
	gemini := &fakeProvider{name: models.ProviderGemini, err: errors.New("down")}
	ollama := &fakeProvider{name: models.ProviderOllama, err: errors.New("down")}
	orch := newOrchestrator(t, fixedITM{score: 0.7}, gemini, ollama)

	configs := []models.ModelConfig{
		{Provider: models.ProviderGemini},
		{Provider: models.ProviderOllama, ModelName: "gemma3:4b"},
	}
	resp, err := orch.Compare(context.Background(), pngBytes(t), "image/png", configs)
	require.NoError(t, err, "all models failing is still a successful comparison")

	require.Len(t, resp.Results, 2)
	assert.Equal(t, NoWinner, resp.Summary.Winner)
	assert.Empty(t, resp.Summary.MetricsSummary)
	assert.Equal(t, 2, resp.Summary.TotalModels)
}

func TestCompareScoringFailureDropsModelFromRankings(t *testing.T) {
	ollama := &fakeProvider{name: models.ProviderOllama, response: englishResponse}
	orch := newOrchestrator(t, failingITM{}, ollama)

	configs := []models.ModelConfig{
		{Provider: models.ProviderOllama, ModelName: "gemma3:4b"},
		{Provider: models.ProviderOllama, ModelName: "qwen2.5vl:7b"},
	}
	resp, err := orch.Compare(context.Background(), pngBytes(t), "image/png", configs)
	require.NoError(t, err, "scoring failures must not abort the comparison")

	assert.True(t, resp.Results[0].Success)
	assert.True(t, resp.Results[1].Success)
	assert.Empty(t, resp.Summary.MetricsSummary)
	assert.Equal(t, NoWinner, resp.Summary.Winner)
}

func TestCompareEmptyResponseIsFailure(t *testing.T) {
	ollama := &fakeProvider{name: models.ProviderOllama, response: ""}
	gemini := &fakeProvider{name: models.ProviderGemini, response: englishResponse}
	orch := newOrchestrator(t, fixedITM{score: 0.5}, ollama, gemini)

	configs := []models.ModelConfig{
		{Provider: models.ProviderOllama, ModelName: "gemma3:4b"},
		{Provider: models.ProviderGemini},
	}
	resp, err := orch.Compare(context.Background(), pngBytes(t), "image/png", configs)
	require.NoError(t, err)

	assert.False(t, resp.Results[0].Success)
	assert.Contains(t, resp.Results[0].Error, "empty response")
	assert.True(t, resp.Results[1].Success)
}

func TestCompareRunsConcurrently(t *testing.T) {
	delay := 150 * time.Millisecond
	ollama := &fakeProvider{name: models.ProviderOllama, response: englishResponse, delay: delay}
	gemini := &fakeProvider{name: models.ProviderGemini, response: englishResponse, delay: delay}
	orch := newOrchestrator(t, fixedITM{score: 0.5}, ollama, gemini)

	configs := []models.ModelConfig{
		{Provider: models.ProviderOllama, ModelName: "gemma3:4b"},
		{Provider: models.ProviderOllama, ModelName: "qwen2.5vl:7b"},
		{Provider: models.ProviderGemini},
	}
	start := time.Now()
	resp, err := orch.Compare(context.Background(), pngBytes(t), "image/png", configs)
	require.NoError(t, err)

	// three sequential invocations would take at least 3*delay
	assert.Less(t, time.Since(start), 3*delay)
	for _, r := range resp.Results {
		assert.True(t, r.Success)
	}
}

func TestInvokerTimeout(t *testing.T) {
	slow := &fakeProvider{name: models.ProviderOllama, response: englishResponse, delay: 500 * time.Millisecond}
	cat, err := catalog.Load("")
	require.NoError(t, err)

	invoker := NewInvoker(provider.NewRegistry(slow), observer.NewSubject(), 50*time.Millisecond)
	img := &imaging.NormalizedImage{
		Info:   models.ImageInfo{Format: "PNG", Mode: "RGB", Width: 8, Height: 8},
		Base64: "aW1hZ2U=",
		MIME:   "image/png",
	}

	target, err := cat.Resolve(models.ModelConfig{Provider: models.ProviderOllama, ModelName: "gemma3:4b"})
	require.NoError(t, err)

	result := invoker.Invoke(context.Background(), target, img)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "timed out")
	assert.Greater(t, result.ExecutionTime, 0.0)
}

func TestAvailableModelsPassthrough(t *testing.T) {
	orch := newOrchestrator(t, fixedITM{score: 0.5})

	listing := orch.AvailableModels()
	assert.Contains(t, listing, "ollama")
	assert.Contains(t, listing, "gemini")
}
