package comparison

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-model-comparator/internal/catalog"
	"go-model-comparator/internal/imaging"
	"go-model-comparator/internal/observer"
	"go-model-comparator/internal/provider"
	"go-model-comparator/internal/strategy"
	"go-model-comparator/pkg/models"
)

// Invoker executes one resolved model configuration. Every provider failure
// is absorbed into the result; nothing escapes to the orchestrator, so one
// model's failure can never abort or taint its siblings.
type Invoker struct {
	registry *provider.Registry
	events   *observer.Subject
	// timeout bounds a single invocation; zero disables it
	timeout time.Duration
}

func NewInvoker(registry *provider.Registry, events *observer.Subject, timeout time.Duration) *Invoker {
	return &Invoker{
		registry: registry,
		events:   events,
		timeout:  timeout,
	}
}

// Invoke runs one model against the shared normalized image. The wall-clock
// duration is recorded even when the call fails.
func (inv *Invoker) Invoke(ctx context.Context, target catalog.Resolved, img *imaging.NormalizedImage) models.ModelResult {
	prompts := strategy.ForCapability(target.HasVision)
	user, attachImage := prompts.BuildPrompt(img.Info)

	req := provider.Request{
		Model:  target.ModelName,
		System: strategy.SystemPrompt,
		User:   user,
	}
	if attachImage {
		req.ImageBase64 = img.Base64
		req.ImageMIME = img.MIME
	}

	if inv.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := inv.call(ctx, target, req)
	elapsed := time.Since(start)

	result := models.ModelResult{
		ModelName:     target.ModelName,
		Provider:      target.Provider,
		ExecutionTime: elapsed.Seconds(),
	}
	if err != nil {
		result.Error = invocationError(err, inv.timeout)
		inv.events.NotifyObservers(ctx, observer.ComparisonEvent{
			EventType:    observer.InvocationFailed,
			Provider:     string(target.Provider),
			ModelName:    target.ModelName,
			Duration:     elapsed,
			ErrorMessage: result.Error,
		})
		return result
	}

	result.Response = text
	result.Success = true
	inv.events.NotifyObservers(ctx, observer.ComparisonEvent{
		EventType: observer.InvocationCompleted,
		Provider:  string(target.Provider),
		ModelName: target.ModelName,
		Duration:  elapsed,
		Success:   true,
	})
	return result
}

func (inv *Invoker) call(ctx context.Context, target catalog.Resolved, req provider.Request) (string, error) {
	p, ok := inv.registry.Get(target.Provider)
	if !ok {
		return "", fmt.Errorf("no provider registered for %q", target.Provider)
	}
	text, err := p.Invoke(ctx, req)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("provider returned an empty response")
	}
	return text, nil
}

func invocationError(err error, timeout time.Duration) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("model invocation timed out after %s", timeout)
	}
	return err.Error()
}
