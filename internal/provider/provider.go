// Package provider adapts each AI service family behind a single interface.
// Dispatch is a closed set keyed by the provider enum; unknown providers are
// rejected at the request boundary, never here.
package provider

import (
	"context"

	"go-model-comparator/pkg/models"
)

// Request is one model invocation. ImageBase64 is empty when the prompt has
// been degraded to a text-only description for models without vision support.
type Request struct {
	Model       string
	System      string
	User        string
	ImageBase64 string
	ImageMIME   string
}

// ModelProvider invokes a single model with an image-bearing prompt and
// returns the raw response text.
type ModelProvider interface {
	Name() models.Provider
	Invoke(ctx context.Context, req Request) (string, error)
}

// Registry maps the provider enum to its implementation.
type Registry struct {
	providers map[models.Provider]ModelProvider
}

func NewRegistry(providers ...ModelProvider) *Registry {
	r := &Registry{providers: make(map[models.Provider]ModelProvider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(name models.Provider) (ModelProvider, bool) {
	p, ok := r.providers[name]
	return p, ok
}
