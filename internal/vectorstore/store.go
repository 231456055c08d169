package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/phuslu/log"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/domain"
)

const (
	// DefaultBatchSize bounds peak memory while embedding large corpora.
	DefaultBatchSize = 100

	indexFileName = "vector_index"
	chunkFileName = "chunks.json"
)

// ErrNotDurable reports that a mutation succeeded in memory but the
// post-batch save failed. The index stays usable for the current process; a
// restart before the next successful save would lose the appended data.
var ErrNotDurable = errors.New("vector index updated in memory but not persisted")

// Store is a flat L2 vector index with parallel chunk metadata, persisted as
// two co-located artifacts: an opaque binary vector file and an ordered JSON
// chunk file. Vectors and chunks are append-only and kept in lock-step.
type Store struct {
	mu        sync.RWMutex
	embedder  domain.Embedder
	indexPath string
	chunkPath string
	batchSize int

	dimension int
	vectors   [][]float32
	chunks    []domain.Chunk
}

// New creates an empty store persisting under dataDir. Call Load to pick up
// previously saved state.
func New(embedder domain.Embedder, dataDir string, batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{
		embedder:  embedder,
		indexPath: filepath.Join(dataDir, indexFileName),
		chunkPath: filepath.Join(dataDir, chunkFileName),
		batchSize: batchSize,
	}
}

// Load reads both persisted artifacts. A missing store leaves the index
// empty and is not an error. A corrupt or mismatched store also falls back
// to an empty index, never a partially-consistent one, but the condition is
// reported since it indicates data loss.
func (s *Store) Load() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vectors, chunks, dim, err := readArtifacts(s.indexPath, s.chunkPath)
	if err != nil {
		s.vectors = nil
		s.chunks = nil
		s.dimension = 0
		if errors.Is(err, errStoreMissing) {
			log.Info().Str("path", s.indexPath).Msg("no persisted index found, starting empty")
			return false, nil
		}
		log.Error().Err(err).Str("path", s.indexPath).Msg("corrupt index store, falling back to empty index")
		return false, err
	}
	s.vectors = vectors
	s.chunks = chunks
	s.dimension = dim
	log.Info().Int("chunks", len(chunks)).Int("dimension", dim).Msg("loaded vector index")
	return true, nil
}

// Rebuild discards current state and indexes the provided chunks from
// scratch. Embedding runs in fixed-size batches; a failing batch is skipped
// and counted rather than aborting the run. The result is persisted once at
// the end; a save failure is reported via ErrNotDurable while the in-memory
// index remains valid.
func (s *Store) Rebuild(ctx context.Context, chunks []domain.Chunk, progress domain.ProgressFunc) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vectors = nil
	s.chunks = nil
	s.dimension = 0
	return s.indexLocked(ctx, chunks, progress)
}

// Append adds chunks behind the existing entries, preserving all current
// ordinal positions. Ids continue from the current size. On an empty store
// this is equivalent to Rebuild.
func (s *Store) Append(ctx context.Context, chunks []domain.Chunk, progress domain.ProgressFunc) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.chunks) == 0 {
		log.Info().Msg("append on empty index, building from scratch")
	}
	return s.indexLocked(ctx, chunks, progress)
}

// indexLocked embeds and appends chunks batch by batch, then persists.
// Callers hold the write lock.
func (s *Store) indexLocked(ctx context.Context, chunks []domain.Chunk, progress domain.ProgressFunc) (int, error) {
	added := 0
	var embedErr error

	for start := 0; start < len(chunks); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err == nil && len(vectors) != len(batch) {
			err = fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(batch))
		}
		if err != nil {
			log.Warn().Err(err).Int("batch_start", start).Int("batch_len", len(batch)).
				Msg("embedding batch failed, skipping")
			embedErr = err
			continue
		}

		for i, vec := range vectors {
			if s.dimension == 0 {
				s.dimension = len(vec)
			} else if len(vec) != s.dimension {
				log.Warn().Int("got", len(vec)).Int("want", s.dimension).
					Msg("dropping vector with mismatched dimension")
				continue
			}
			c := batch[i]
			c.ChunkID = fmt.Sprintf("chunk_%d", len(s.chunks))
			s.vectors = append(s.vectors, vec)
			s.chunks = append(s.chunks, c)
			added++
		}

		if progress != nil {
			progress(domain.Progress{Done: end, Total: len(chunks)})
		}
	}

	if added == 0 && len(chunks) > 0 && embedErr != nil {
		return 0, fmt.Errorf("embedding failed for all batches: %w", embedErr)
	}

	if err := writeArtifacts(s.indexPath, s.chunkPath, s.dimension, s.vectors, s.chunks); err != nil {
		log.Error().Err(err).Msg("saving index failed, in-memory index remains usable")
		return added, fmt.Errorf("%w: %v", ErrNotDurable, err)
	}
	log.Info().Int("added", added).Int("total", len(s.chunks)).Msg("index persisted")
	return added, nil
}

// Search returns the k nearest stored vectors by squared Euclidean distance,
// most similar first. k is clamped to the index size and an empty index
// yields an empty result.
func (s *Store) Search(vector []float32, k int) ([]domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query vector dimension %d does not match index dimension %d", len(vector), s.dimension)
	}
	if k > len(s.vectors) {
		k = len(s.vectors)
	}
	return nearest(s.vectors, vector, k), nil
}

// ChunkAt returns the chunk at the given ordinal position.
func (s *Store) ChunkAt(ordinal int) (domain.Chunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ordinal < 0 || ordinal >= len(s.chunks) {
		return domain.Chunk{}, false
	}
	return s.chunks[ordinal], true
}

// Size returns the number of indexed chunks.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Dimension returns the embedding dimension of the stored vectors, or 0 for
// an empty index.
func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}
