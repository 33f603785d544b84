// Package catalog holds the static model catalog: which models each provider
// exposes and whether they accept image input. The catalog is data, not code,
// so deployments can swap it without a rebuild.
package catalog

import (
	"fmt"
	"os"
	"sort"

	_ "embed"

	"gopkg.in/yaml.v3"

	apperrors "go-model-comparator/internal/errors"
	"go-model-comparator/pkg/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ModelSpec describes one addressable model.
type ModelSpec struct {
	Name   string `yaml:"name" json:"name"`
	Vision bool   `yaml:"vision" json:"has_vision"`
}

// ProviderSpec lists the models of one provider.
type ProviderSpec struct {
	Models []ModelSpec `yaml:"models" json:"models"`
}

// Resolved is a validated model selection ready for dispatch.
type Resolved struct {
	Provider  models.Provider
	ModelName string
	HasVision bool
}

type Catalog struct {
	providers map[models.Provider]ProviderSpec
}

// Load reads the catalog from path, or from the embedded default when path
// is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
	}

	providers := map[models.Provider]ProviderSpec{}
	if err := yaml.Unmarshal(data, &providers); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for p, spec := range providers {
		if len(spec.Models) == 0 {
			return nil, fmt.Errorf("catalog provider %q has no models", p)
		}
	}
	return &Catalog{providers: providers}, nil
}

// Resolve validates a model configuration against the catalog and returns the
// concrete model to dispatch. A missing model name is filled in only when the
// provider has exactly one addressable model; otherwise validation fails.
// A model name absent from the catalog is accepted but treated as text-only,
// so a newly pulled model is never rejected outright.
func (c *Catalog) Resolve(cfg models.ModelConfig) (Resolved, error) {
	spec, ok := c.providers[cfg.Provider]
	if !ok {
		return Resolved{}, apperrors.NewValidationError(
			fmt.Sprintf("unknown provider: %q (valid providers: %v)", cfg.Provider, c.providerNames()), nil)
	}

	name := cfg.ModelName
	if name == "" {
		if len(spec.Models) != 1 {
			return Resolved{}, apperrors.NewValidationError(
				fmt.Sprintf("model_name is required for provider %q", cfg.Provider), nil)
		}
		name = spec.Models[0].Name
	}

	resolved := Resolved{Provider: cfg.Provider, ModelName: name}
	for _, m := range spec.Models {
		if m.Name == name {
			resolved.HasVision = m.Vision
			break
		}
	}
	return resolved, nil
}

// HasVision reports whether a model is known to accept image input.
func (c *Catalog) HasVision(provider models.Provider, modelName string) bool {
	spec, ok := c.providers[provider]
	if !ok {
		return false
	}
	for _, m := range spec.Models {
		if m.Name == modelName {
			return m.Vision
		}
	}
	return false
}

// ProviderListing is the wire shape of one provider in /available-models.
type ProviderListing struct {
	Models    []string        `json:"models"`
	HasVision map[string]bool `json:"has_vision"`
}

// Available returns the full catalog keyed by provider, a pure passthrough
// for the listing endpoint.
func (c *Catalog) Available() map[string]ProviderListing {
	out := make(map[string]ProviderListing, len(c.providers))
	for p, spec := range c.providers {
		listing := ProviderListing{
			Models:    make([]string, 0, len(spec.Models)),
			HasVision: make(map[string]bool, len(spec.Models)),
		}
		for _, m := range spec.Models {
			listing.Models = append(listing.Models, m.Name)
			listing.HasVision[m.Name] = m.Vision
		}
		out[string(p)] = listing
	}
	return out
}

func (c *Catalog) providerNames() []string {
	names := make([]string, 0, len(c.providers))
	for p := range c.providers {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}
