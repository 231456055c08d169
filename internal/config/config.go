package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI embeddings client.
type OpenAIEmbedderConfig struct {
	BaseURL           string  `yaml:"base_url"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	Model             string  `yaml:"model"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// EmbedderConfig selects and configures the embedder implementation.
type EmbedderConfig struct {
	Type         string                `yaml:"type"`
	Dimension    int                   `yaml:"dimension"`
	BatchSize    int                   `yaml:"batch_size"`
	CacheTTLSecs int                   `yaml:"cache_ttl_secs"`
	OpenAI       *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures document segmentation. ChunkOverlap is nominal:
// chunk boundaries carry only the most recent heading forward, trailing text
// is not duplicated across chunks.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// RetrievalConfig sets retrieval defaults and the distance normalization
// reference. MaxDistance approximates the largest squared L2 distance
// between normalized embeddings and must be retuned if the embedding model
// changes.
type RetrievalConfig struct {
	TopK        int     `yaml:"top_k"`
	MinScore    float64 `yaml:"min_score"`
	MaxDistance float64 `yaml:"max_distance"`
}

// VerificationConfig sets the confidence tier thresholds. MinConfidence is
// both the retrieval filter for verification and the verified/not-verified
// boundary; FullConfidence is the no-warning boundary. Both bounds are
// inclusive.
type VerificationConfig struct {
	TopK           int     `yaml:"top_k"`
	MinConfidence  float64 `yaml:"min_confidence"`
	FullConfidence float64 `yaml:"full_confidence"`
}

// IngestConfig configures the document ingestion pipeline.
type IngestConfig struct {
	Workers int `yaml:"workers"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	DataDir      string             `yaml:"data_dir"`
	Logging      LoggingConfig      `yaml:"logging"`
	Embedder     EmbedderConfig     `yaml:"embedder"`
	Chunker      ChunkerConfig      `yaml:"chunker"`
	Retrieval    RetrievalConfig    `yaml:"retrieval"`
	Verification VerificationConfig `yaml:"verification"`
	Ingest       IngestConfig       `yaml:"ingest"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then the user config directory.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "labster-rag", "config.yaml"), nil
}

// Default returns the built-in configuration. The verification thresholds
// 0.65/0.80 and the 4.0 distance reference are behavioral policy constants;
// changing them changes what "verified" means.
func Default() *AppConfig {
	cfg := &AppConfig{
		DataDir: "data",
		Logging: LoggingConfig{Level: "info"},
		Embedder: EmbedderConfig{
			Type:         "local",
			Dimension:    384,
			BatchSize:    100,
			CacheTTLSecs: 3600,
		},
		Chunker:   ChunkerConfig{ChunkSize: 800, ChunkOverlap: 100},
		Retrieval: RetrievalConfig{TopK: 5, MinScore: 0.7, MaxDistance: 4.0},
		Verification: VerificationConfig{
			TopK:           5,
			MinConfidence:  0.65,
			FullConfidence: 0.80,
		},
		Ingest: IngestConfig{Workers: 4},
	}
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	def := Default()
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = def.Embedder.Type
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = def.Embedder.Dimension
	}
	if cfg.Embedder.BatchSize == 0 {
		cfg.Embedder.BatchSize = def.Embedder.BatchSize
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = def.Chunker.ChunkSize
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
	if cfg.Retrieval.MinScore == 0 {
		cfg.Retrieval.MinScore = def.Retrieval.MinScore
	}
	if cfg.Retrieval.MaxDistance == 0 {
		cfg.Retrieval.MaxDistance = def.Retrieval.MaxDistance
	}
	if cfg.Verification.TopK == 0 {
		cfg.Verification.TopK = def.Verification.TopK
	}
	if cfg.Verification.MinConfidence == 0 {
		cfg.Verification.MinConfidence = def.Verification.MinConfidence
	}
	if cfg.Verification.FullConfidence == 0 {
		cfg.Verification.FullConfidence = def.Verification.FullConfidence
	}
	if cfg.Ingest.Workers == 0 {
		cfg.Ingest.Workers = def.Ingest.Workers
	}
}
