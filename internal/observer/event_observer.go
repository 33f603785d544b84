// Package observer publishes comparison lifecycle events to decoupled sinks.
// Logging and metrics subscribe here so the pipeline itself stays free of
// instrumentation calls.
package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-model-comparator/internal/logger"
	"go-model-comparator/internal/metrics"
)

// EventType represents the type of comparison event
type EventType string

const (
	// ComparisonStarted when a comparison run begins
	ComparisonStarted EventType = "comparison_started"
	// ComparisonCompleted when a comparison run finishes
	ComparisonCompleted EventType = "comparison_completed"
	// InvocationCompleted when one model invocation succeeds
	InvocationCompleted EventType = "invocation_completed"
	// InvocationFailed when one model invocation fails
	InvocationFailed EventType = "invocation_failed"
	// ScoringFailed when metrics computation fails for one model
	ScoringFailed EventType = "scoring_failed"
)

// ComparisonEvent describes one lifecycle event
type ComparisonEvent struct {
	EventType    EventType     `json:"event_type"`
	Timestamp    time.Time     `json:"timestamp"`
	Provider     string        `json:"provider,omitempty"`
	ModelName    string        `json:"model_name,omitempty"`
	ModelCount   int           `json:"model_count,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Success      bool          `json:"success"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event ComparisonEvent)
	GetObserverName() string
}

// Subject broadcasts events to all subscribed observers
type Subject struct {
	mu        sync.RWMutex
	observers []Observer
}

func NewSubject() *Subject {
	return &Subject{}
}

// Subscribe registers an observer
func (s *Subject) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// NotifyObservers delivers an event to every observer synchronously; sinks
// must be cheap.
func (s *Subject) NotifyObservers(ctx context.Context, event ComparisonEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.OnEvent(ctx, event)
	}
}

// LoggingObserver writes events to the structured log.
type LoggingObserver struct{}

func NewLoggingObserver() *LoggingObserver {
	return &LoggingObserver{}
}

func (l *LoggingObserver) OnEvent(ctx context.Context, event ComparisonEvent) {
	entry := logger.WithFields(logrus.Fields{
		"event":       string(event.EventType),
		"provider":    event.Provider,
		"model":       event.ModelName,
		"duration_ms": event.Duration.Milliseconds(),
	})
	switch event.EventType {
	case InvocationFailed, ScoringFailed:
		entry.WithField("error", event.ErrorMessage).Warn("Comparison event")
	default:
		entry.Info("Comparison event")
	}
}

func (l *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver feeds prometheus from lifecycle events.
type MetricsObserver struct{}

func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

func (m *MetricsObserver) OnEvent(ctx context.Context, event ComparisonEvent) {
	switch event.EventType {
	case InvocationCompleted:
		metrics.ModelInvocation(event.Provider, event.ModelName, "success", event.Duration)
	case InvocationFailed:
		metrics.ModelInvocation(event.Provider, event.ModelName, "error", event.Duration)
	case ComparisonCompleted:
		status := "success"
		if !event.Success {
			status = "all_failed"
		}
		metrics.Comparison(status)
	}
}

func (m *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}
