package provider

import "go-model-comparator/internal/config"

// BuildRegistry wires every supported provider from configuration. Adding a
// provider means adding an implementation here and a catalog entry; the rest
// of the pipeline is untouched.
func BuildRegistry(cfg *config.Config) *Registry {
	return NewRegistry(
		NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey),
		NewOllamaProvider(cfg.OllamaBaseURL),
	)
}
