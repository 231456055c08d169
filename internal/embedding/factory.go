package embedding

import (
	"fmt"
	"os"
	"time"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/config"
	"github.com/JuanNavarr0/labster-quiz-generator/internal/domain"
	"github.com/JuanNavarr0/labster-quiz-generator/internal/embedding/local"
	"github.com/JuanNavarr0/labster-quiz-generator/internal/embedding/openai"
)

// New builds an embedder from configuration. Query-time embeds are memoized
// when a cache TTL is configured.
func New(cfg config.EmbedderConfig) (domain.Embedder, error) {
	var embedder domain.Embedder

	switch cfg.Type {
	case "local", "":
		embedder = local.New(cfg.Dimension)
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder selected but not configured")
		}
		key := os.Getenv(cfg.OpenAI.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("missing API key in env %s", cfg.OpenAI.APIKeyEnv)
		}
		client, err := openai.NewClient(openai.Config{
			APIKey:            key,
			BaseURL:           cfg.OpenAI.BaseURL,
			Model:             cfg.OpenAI.Model,
			Timeout:           time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			BatchSize:         cfg.BatchSize,
			RequestsPerSecond: cfg.OpenAI.RequestsPerSecond,
		})
		if err != nil {
			return nil, err
		}
		embedder = client
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}

	if cfg.CacheTTLSecs > 0 {
		embedder = NewCached(embedder, time.Duration(cfg.CacheTTLSecs)*time.Second)
	}
	return embedder, nil
}
