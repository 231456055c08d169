package domain

import "context"

// Embedder converts text into fixed-dimension dense vectors. Implementations
// must be deterministic for a fixed model version and support batching so
// index construction can bound peak memory.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Chunker splits a cleaned document into retrievable chunks.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// VectorIndex stores embeddings plus parallel chunk metadata and supports
// nearest-neighbor search. Mutations are exclusive; reads may run
// concurrently with each other.
type VectorIndex interface {
	// Load reads the persisted index. A missing or corrupt store falls back
	// to an empty index; the flag reports whether persisted data was loaded.
	Load() (bool, error)
	// Rebuild discards any existing state, embeds the chunks in batches,
	// assigns sequential ids and persists the result. It returns the number
	// of chunks actually indexed.
	Rebuild(ctx context.Context, chunks []Chunk, progress ProgressFunc) (int, error)
	// Append embeds and adds chunks behind the existing entries. On an empty
	// index it behaves as Rebuild. Ids continue from the current size and are
	// never reused.
	Append(ctx context.Context, chunks []Chunk, progress ProgressFunc) (int, error)
	// Search returns up to k nearest neighbors by squared Euclidean distance,
	// ascending. k is clamped to the index size; an empty index returns an
	// empty result without error.
	Search(vector []float32, k int) ([]Candidate, error)
	// ChunkAt returns the chunk stored at the given ordinal position.
	ChunkAt(ordinal int) (Chunk, bool)
	Size() int
}
