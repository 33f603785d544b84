package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host           string
	Port           string
	RequestTimeout time.Duration
	// InvokeTimeout bounds a single model invocation, not the whole fan-out.
	InvokeTimeout time.Duration
	MaxUploadSize int64

	GeminiAPIKey  string
	GeminiBaseURL string
	OllamaBaseURL string
	ITMScorerURL  string

	// Optional path overriding the embedded model catalog.
	CatalogPath string

	// Relative weights blending text quality and image-text matching into
	// the overall score. Normalized by their sum at scoring time.
	QualityWeight float64
	ITMWeight     float64
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:           getEnvOrDefault("HOST", "0.0.0.0"),
		Port:           getEnvOrDefault("PORT", "8080"),
		RequestTimeout: parseDurationOrDefault("REQUEST_TIMEOUT", 5*time.Minute),
		InvokeTimeout:  parseDurationOrDefault("INVOKE_TIMEOUT", 90*time.Second),
		MaxUploadSize:  parseIntOrDefault("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
		GeminiAPIKey:   getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiBaseURL:  getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		OllamaBaseURL:  getEnvOrDefault("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		ITMScorerURL:   getEnvOrDefault("ITM_SCORER_URL", "http://localhost:8600"),
		CatalogPath:    getEnvOrDefault("CATALOG_PATH", ""),
		QualityWeight:  parseFloatOrDefault("QUALITY_WEIGHT", 0.7),
		ITMWeight:      parseFloatOrDefault("ITM_WEIGHT", 0.3),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be > 0 (got %d)", cfg.MaxUploadSize)
	}
	if cfg.RequestTimeout <= 0 || cfg.InvokeTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, invoke=%s)",
			cfg.RequestTimeout, cfg.InvokeTimeout)
	}
	if cfg.QualityWeight < 0 || cfg.ITMWeight < 0 || cfg.QualityWeight+cfg.ITMWeight == 0 {
		return nil, fmt.Errorf("score weights must be non-negative with a positive sum (got quality=%v, itm=%v)",
			cfg.QualityWeight, cfg.ITMWeight)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
