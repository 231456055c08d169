package openai

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	defaultModel     = "text-embedding-3-small"
	defaultTimeout   = 30 * time.Second
	defaultBatchSize = 100
	maxRetries       = 4
)

// Config configures the OpenAI embeddings client.
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	BatchSize         int
	RequestsPerSecond float64
}

// Client embeds text through the OpenAI embeddings API. Requests are rate
// limited and retried with exponential backoff on transient failures.
type Client struct {
	api       *goopenai.Client
	model     goopenai.EmbeddingModel
	limiter   *rate.Limiter
	timeout   time.Duration
	batchSize int
	dimension atomic.Int32
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai embedder: API key is required")
	}
	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		api:       goopenai.NewClientWithConfig(clientConfig),
		model:     goopenai.EmbeddingModel(model),
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		timeout:   timeout,
		batchSize: batchSize,
	}, nil
}

func (c *Client) Name() string { return "openai" }

// Dimension reports the vector size observed on the first successful call,
// or 0 before any embedding has been produced.
func (c *Client) Dimension() int { return int(c.dimension.Load()) }

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := c.embedRequest(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (c *Client) embedRequest(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay(attempt)):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.api.CreateEmbeddings(reqCtx, goopenai.EmbeddingRequest{
			Input: texts,
			Model: c.model,
		})
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Data) != len(texts) {
			return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
		}

		vectors := make([][]float32, len(resp.Data))
		for i, d := range resp.Data {
			vectors[i] = d.Embedding
		}
		if len(vectors) > 0 {
			c.dimension.CompareAndSwap(0, int32(len(vectors[0])))
		}
		return vectors, nil
	}
	return nil, fmt.Errorf("openai embeddings failed after %d attempts: %w", maxRetries+1, lastErr)
}

func retryDelay(attempt int) time.Duration {
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
