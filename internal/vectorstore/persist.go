package vectorstore

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/domain"
)

// errStoreMissing marks the recoverable "never saved before" case, as
// opposed to corrupt or mismatched artifacts.
var errStoreMissing = errors.New("index store missing")

// vectorFile is the on-disk shape of the binary vector artifact.
type vectorFile struct {
	Dimension int
	Vectors   [][]float32
}

// readArtifacts loads the vector blob and the chunk records. Both must exist
// and agree on length; anything else is a load failure so the caller can fall
// back to a consistent empty index.
func readArtifacts(indexPath, chunkPath string) ([][]float32, []domain.Chunk, int, error) {
	_, vecErr := os.Stat(indexPath)
	_, chunkErr := os.Stat(chunkPath)
	if os.IsNotExist(vecErr) && os.IsNotExist(chunkErr) {
		return nil, nil, 0, errStoreMissing
	}
	if os.IsNotExist(vecErr) || os.IsNotExist(chunkErr) {
		return nil, nil, 0, fmt.Errorf("index artifacts incomplete: vectors=%v chunks=%v", vecErr == nil, chunkErr == nil)
	}

	f, err := os.Open(indexPath)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("open vector file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var vf vectorFile
	if err := gob.NewDecoder(f).Decode(&vf); err != nil {
		return nil, nil, 0, fmt.Errorf("decode vector file: %w", err)
	}

	data, err := os.ReadFile(chunkPath)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("read chunk file: %w", err)
	}
	var chunks []domain.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, nil, 0, fmt.Errorf("decode chunk file: %w", err)
	}

	if len(vf.Vectors) != len(chunks) {
		return nil, nil, 0, fmt.Errorf("artifact mismatch: %d vectors vs %d chunks", len(vf.Vectors), len(chunks))
	}
	for _, v := range vf.Vectors {
		if len(v) != vf.Dimension {
			return nil, nil, 0, fmt.Errorf("vector with dimension %d in index of dimension %d", len(v), vf.Dimension)
		}
	}
	return vf.Vectors, chunks, vf.Dimension, nil
}

// writeArtifacts persists both artifacts. Writes go through temp files and
// renames so a crash mid-save cannot leave a half-written artifact behind.
func writeArtifacts(indexPath, chunkPath string, dimension int, vectors [][]float32, chunks []domain.Chunk) error {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmpIndex := indexPath + ".tmp"
	f, err := os.Create(tmpIndex)
	if err != nil {
		return fmt.Errorf("create vector file: %w", err)
	}
	encErr := gob.NewEncoder(f).Encode(vectorFile{Dimension: dimension, Vectors: vectors})
	closeErr := f.Close()
	if encErr != nil {
		return fmt.Errorf("encode vector file: %w", encErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close vector file: %w", closeErr)
	}
	if err := os.Rename(tmpIndex, indexPath); err != nil {
		return fmt.Errorf("replace vector file: %w", err)
	}

	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	data, err := json.Marshal(chunks)
	if err != nil {
		return fmt.Errorf("encode chunk file: %w", err)
	}
	tmpChunks := chunkPath + ".tmp"
	if err := os.WriteFile(tmpChunks, data, 0o644); err != nil {
		return fmt.Errorf("write chunk file: %w", err)
	}
	if err := os.Rename(tmpChunks, chunkPath); err != nil {
		return fmt.Errorf("replace chunk file: %w", err)
	}
	return nil
}
