package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/domain"
)

// stubEmbedder maps known texts to fixed 2D vectors so distances are easy to
// reason about. Unknown texts embed to the origin; texts listed in fail make
// the whole batch fail.
type stubEmbedder struct {
	vectors map[string][]float32
	fail    map[string]bool
	calls   int
}

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{vectors: map[string][]float32{}, fail: map[string]bool{}}
}

func (s *stubEmbedder) Name() string   { return "stub" }
func (s *stubEmbedder) Dimension() int { return 2 }

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if s.fail[t] {
			return nil, errors.New("stub embedder failure")
		}
		if v, ok := s.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{0, 0}
		}
	}
	return out, nil
}

func chunksOf(texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.Chunk{Text: t, Source: "src", Subject: "biology", Filename: "f.pdf"}
	}
	return chunks
}

func TestStore_EmptySearchReturnsNothing(t *testing.T) {
	store := New(newStubEmbedder(), t.TempDir(), 0)

	results, err := store.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, store.Size())
}

func TestStore_RebuildAssignsSequentialIDs(t *testing.T) {
	store := New(newStubEmbedder(), t.TempDir(), 2)

	added, err := store.Rebuild(context.Background(), chunksOf("a", "b", "c"), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	for i := 0; i < 3; i++ {
		chunk, ok := store.ChunkAt(i)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("chunk_%d", i), chunk.ChunkID)
	}
}

func TestStore_AppendContinuesIDsAndSize(t *testing.T) {
	store := New(newStubEmbedder(), t.TempDir(), 10)
	ctx := context.Background()

	_, err := store.Append(ctx, chunksOf("a", "b"), nil) // empty store: builds
	require.NoError(t, err)
	_, err = store.Append(ctx, chunksOf("c", "d", "e"), nil)
	require.NoError(t, err)

	assert.Equal(t, 5, store.Size())
	chunk, ok := store.ChunkAt(4)
	require.True(t, ok)
	assert.Equal(t, "chunk_4", chunk.ChunkID)
}

func TestStore_SearchOrdersByDistanceAndClampsK(t *testing.T) {
	emb := newStubEmbedder()
	emb.vectors["near"] = []float32{1, 0}
	emb.vectors["mid"] = []float32{0.5, 0.5}
	emb.vectors["far"] = []float32{0, 1}
	store := New(emb, t.TempDir(), 10)

	_, err := store.Rebuild(context.Background(), chunksOf("far", "near", "mid"), nil)
	require.NoError(t, err)

	results, err := store.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3, "k is clamped to index size")

	near, _ := store.ChunkAt(results[0].Ordinal)
	assert.Equal(t, "near", near.Text)
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)
	assert.LessOrEqual(t, results[1].Distance, results[2].Distance)
}

func TestStore_LoadRoundTripIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	emb := newStubEmbedder()
	emb.vectors["a"] = []float32{1, 0}
	emb.vectors["b"] = []float32{0, 1}

	first := New(emb, dir, 10)
	_, err := first.Rebuild(context.Background(), chunksOf("a", "b"), nil)
	require.NoError(t, err)

	second := New(emb, dir, 10)
	loaded, err := second.Load()
	require.NoError(t, err)
	require.True(t, loaded)
	require.Equal(t, 2, second.Size())

	// saving again (via an empty append) and reloading yields the same state
	_, err = second.Append(context.Background(), nil, nil)
	require.NoError(t, err)

	third := New(emb, dir, 10)
	loaded, err = third.Load()
	require.NoError(t, err)
	require.True(t, loaded)
	require.Equal(t, 2, third.Size())

	for i := 0; i < 2; i++ {
		want, _ := first.ChunkAt(i)
		got, _ := third.ChunkAt(i)
		assert.Equal(t, want, got)
	}
	res1, err := first.Search([]float32{1, 0}, 2)
	require.NoError(t, err)
	res3, err := third.Search([]float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, res1, res3)
}

func TestStore_MissingStoreLoadsEmpty(t *testing.T) {
	store := New(newStubEmbedder(), t.TempDir(), 10)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, 0, store.Size())
}

func TestStore_CorruptChunkFileFallsBackEmpty(t *testing.T) {
	dir := t.TempDir()
	emb := newStubEmbedder()
	store := New(emb, dir, 10)
	_, err := store.Rebuild(context.Background(), chunksOf("a", "b"), nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "chunks.json"), []byte("{not json"), 0o644))

	reloaded := New(emb, dir, 10)
	loaded, err := reloaded.Load()
	assert.False(t, loaded)
	assert.Error(t, err)
	assert.Equal(t, 0, reloaded.Size(), "corrupt store must not leave partial state")
}

func TestStore_SingleMissingArtifactIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	emb := newStubEmbedder()
	store := New(emb, dir, 10)
	_, err := store.Rebuild(context.Background(), chunksOf("a"), nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "chunks.json")))

	reloaded := New(emb, dir, 10)
	loaded, err := reloaded.Load()
	assert.False(t, loaded)
	assert.Error(t, err)
	assert.Equal(t, 0, reloaded.Size())
}

func TestStore_MismatchedArtifactsFallBackEmpty(t *testing.T) {
	dir := t.TempDir()
	emb := newStubEmbedder()
	store := New(emb, dir, 10)
	_, err := store.Rebuild(context.Background(), chunksOf("a", "b"), nil)
	require.NoError(t, err)

	// drop one chunk record so lengths disagree
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chunks.json"),
		[]byte(`[{"text":"a","source":"src","subject":"biology","filename":"f.pdf","chunk_id":"chunk_0"}]`), 0o644))

	reloaded := New(emb, dir, 10)
	loaded, err := reloaded.Load()
	assert.False(t, loaded)
	assert.Error(t, err)
	assert.Equal(t, 0, reloaded.Size())
}

func TestStore_FailedBatchIsSkipped(t *testing.T) {
	emb := newStubEmbedder()
	emb.fail["bad"] = true
	store := New(emb, t.TempDir(), 1) // one chunk per batch

	added, err := store.Rebuild(context.Background(), chunksOf("a", "bad", "c"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, store.Size())

	// ids stay dense over the chunks that made it in
	c1, _ := store.ChunkAt(1)
	assert.Equal(t, "chunk_1", c1.ChunkID)
	assert.Equal(t, "c", c1.Text)
}

func TestStore_AllBatchesFailingIsAnError(t *testing.T) {
	emb := newStubEmbedder()
	emb.fail["a"] = true
	store := New(emb, t.TempDir(), 10)

	added, err := store.Rebuild(context.Background(), chunksOf("a"), nil)
	assert.Error(t, err)
	assert.Equal(t, 0, added)
}

func TestStore_SaveFailureKeepsMemoryState(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// data dir nested under a regular file cannot be created
	store := New(newStubEmbedder(), filepath.Join(blocker, "data"), 10)

	added, err := store.Rebuild(context.Background(), chunksOf("a", "b"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotDurable))
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, store.Size(), "in-memory index remains usable")

	results, err := store.Search([]float32{0, 0}, 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestStore_ProgressReported(t *testing.T) {
	store := New(newStubEmbedder(), t.TempDir(), 2)

	var events []domain.Progress
	_, err := store.Rebuild(context.Background(), chunksOf("a", "b", "c", "d", "e"), func(p domain.Progress) {
		events = append(events, p)
	})
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, domain.Progress{Done: 2, Total: 5}, events[0])
	assert.Equal(t, domain.Progress{Done: 5, Total: 5}, events[2])
}
