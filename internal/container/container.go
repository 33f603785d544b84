package container

import (
	"fmt"
	"net/http"

	"go-model-comparator/internal/catalog"
	"go-model-comparator/internal/comparison"
	"go-model-comparator/internal/config"
	"go-model-comparator/internal/imaging"
	"go-model-comparator/internal/observer"
	"go-model-comparator/internal/provider"
	"go-model-comparator/internal/scoring"
	"go-model-comparator/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config       *config.Config
	catalog      *catalog.Catalog
	registry     *provider.Registry
	orchestrator *comparison.Orchestrator
	handler      http.Handler
}

// NewContainer builds the dependency graph leaf-first.
func NewContainer(cfg *config.Config) (*Container, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load model catalog: %w", err)
	}

	events := observer.NewSubject()
	events.Subscribe(observer.NewLoggingObserver())
	events.Subscribe(observer.NewMetricsObserver())

	registry := provider.BuildRegistry(cfg)
	normalizer := imaging.NewNormalizer()
	itmScorer := scoring.NewHTTPITMScorer(cfg.ITMScorerURL)
	scorer := scoring.NewScorer(itmScorer, cfg.QualityWeight, cfg.ITMWeight)
	invoker := comparison.NewInvoker(registry, events, cfg.InvokeTimeout)
	orchestrator := comparison.NewOrchestrator(normalizer, cat, invoker, scorer, events)
	handler := transport.NewHandler(orchestrator, cfg)

	return &Container{
		config:       cfg,
		catalog:      cat,
		registry:     registry,
		orchestrator: orchestrator,
		handler:      handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}
