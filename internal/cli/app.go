package cli

import (
	"fmt"

	"github.com/phuslu/log"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/chunker"
	"github.com/JuanNavarr0/labster-quiz-generator/internal/config"
	"github.com/JuanNavarr0/labster-quiz-generator/internal/embedding"
	"github.com/JuanNavarr0/labster-quiz-generator/internal/service"
	"github.com/JuanNavarr0/labster-quiz-generator/internal/vectorstore"
)

// loadConfig resolves the effective configuration from --config or the
// default search path.
func loadConfig() (*config.AppConfig, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	cfg, path, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Msg("using config file")
	return cfg, nil
}

// buildService assembles the RAG service from configuration and loads the
// persisted index.
func buildService() (*service.RAGService, *config.AppConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	embedder, err := embedding.New(cfg.Embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("build embedder: %w", err)
	}

	store := vectorstore.New(embedder, cfg.DataDir, cfg.Embedder.BatchSize)
	seg := chunker.NewHeadingChunker(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)

	svc := service.New(store, embedder, seg, service.OptionsFromConfig(cfg))
	if err := svc.Initialize(); err != nil {
		return nil, nil, fmt.Errorf("initialize service: %w", err)
	}
	return svc, cfg, nil
}
