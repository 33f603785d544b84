// Package comparison is the core engine: it fans one image out to every
// requested model concurrently, scores each successful response, and folds
// the results into a cross-model summary.
package comparison

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"go-model-comparator/internal/catalog"
	apperrors "go-model-comparator/internal/errors"
	"go-model-comparator/internal/imaging"
	"go-model-comparator/internal/observer"
	"go-model-comparator/internal/scoring"
	"go-model-comparator/pkg/models"
)

// Fan-out bounds. At least two models are needed for a comparison to mean
// anything; the upper bound caps the cost of a single request.
const (
	MinModels = 2
	MaxModels = 5
)

type Orchestrator struct {
	normalizer *imaging.Normalizer
	catalog    *catalog.Catalog
	invoker    *Invoker
	scorer     *scoring.Scorer
	events     *observer.Subject
}

func NewOrchestrator(
	normalizer *imaging.Normalizer,
	cat *catalog.Catalog,
	invoker *Invoker,
	scorer *scoring.Scorer,
	events *observer.Subject,
) *Orchestrator {
	return &Orchestrator{
		normalizer: normalizer,
		catalog:    cat,
		invoker:    invoker,
		scorer:     scorer,
		events:     events,
	}
}

// Compare runs the full pipeline. Structural problems (bad model list, bad
// image) fail fast before any model is invoked; per-model failures are
// reported inline and never abort the run.
func (o *Orchestrator) Compare(ctx context.Context, imageData []byte, contentType string, configs []models.ModelConfig) (*models.ComparisonResponse, error) {
	if len(configs) < MinModels {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("at least %d models are required for a comparison (got %d)", MinModels, len(configs)), nil)
	}
	if len(configs) > MaxModels {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("at most %d models may be compared at once (got %d)", MaxModels, len(configs)), nil)
	}

	// Resolve every configuration before dispatching anything, so an invalid
	// entry cannot cause a partial fan-out.
	targets := make([]catalog.Resolved, len(configs))
	for i, cfg := range configs {
		resolved, err := o.catalog.Resolve(cfg)
		if err != nil {
			return nil, err
		}
		targets[i] = resolved
	}

	img, err := o.normalizer.Normalize(imageData, contentType)
	if err != nil {
		return nil, err
	}

	o.events.NotifyObservers(ctx, observer.ComparisonEvent{
		EventType:  observer.ComparisonStarted,
		ModelCount: len(targets),
	})

	start := time.Now()
	results := make([]models.ModelResult, len(targets))

	// Invoke never returns an error, so the group context is never cancelled:
	// every model gets its full chance to complete even when siblings fail.
	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			results[i] = o.invoker.Invoke(gctx, target, img)
			return nil
		})
	}
	_ = g.Wait()

	totalExecutionTime := time.Since(start).Seconds()

	metricsSummary := o.scoreAll(ctx, results, img)
	summary := Summarize(results, metricsSummary)

	o.events.NotifyObservers(ctx, observer.ComparisonEvent{
		EventType:  observer.ComparisonCompleted,
		ModelCount: len(results),
		Duration:   time.Since(start),
		Success:    len(metricsSummary) > 0,
	})

	return &models.ComparisonResponse{
		Results:            results,
		TotalExecutionTime: totalExecutionTime,
		ImageInfo:          img.Info,
		Summary:            summary,
	}, nil
}

// scoreAll computes metrics for every successful result, in request order. A
// scoring failure drops that model from the rankings and nothing else.
func (o *Orchestrator) scoreAll(ctx context.Context, results []models.ModelResult, img *imaging.NormalizedImage) []models.ModelMetrics {
	metricsSummary := make([]models.ModelMetrics, 0, len(results))
	for _, result := range results {
		m, err := o.scorer.Score(ctx, result, img)
		if err != nil {
			o.events.NotifyObservers(ctx, observer.ComparisonEvent{
				EventType:    observer.ScoringFailed,
				Provider:     string(result.Provider),
				ModelName:    result.ModelName,
				ErrorMessage: err.Error(),
			})
			continue
		}
		if m != nil {
			metricsSummary = append(metricsSummary, *m)
		}
	}
	return metricsSummary
}

// AvailableModels is a passthrough of the static catalog for the listing
// endpoint.
func (o *Orchestrator) AvailableModels() map[string]catalog.ProviderListing {
	return o.catalog.Available()
}
