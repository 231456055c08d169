package document

import (
	"context"
	"sync"

	"github.com/phuslu/log"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/domain"
)

// LoadAll loads the given files concurrently. PDF extraction dominates
// ingestion wall time, so files are parsed on a bounded worker pool while
// results keep input order to make downstream chunk ids deterministic. A
// file that fails to load is logged and counted, never aborts the run.
func LoadAll(ctx context.Context, paths []string, workers int) ([]domain.Document, int) {
	if len(paths) == 0 {
		return nil, 0
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	loaded := make([]*domain.Document, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				doc, err := Load(paths[i])
				if err != nil {
					log.Warn().Err(err).Str("path", paths[i]).Msg("skipping document")
					continue
				}
				loaded[i] = &doc
			}
		}()
	}

	for i := range paths {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return collect(loaded)
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return collect(loaded)
}

func collect(loaded []*domain.Document) ([]domain.Document, int) {
	docs := make([]domain.Document, 0, len(loaded))
	failed := 0
	for _, d := range loaded {
		if d == nil {
			failed++
			continue
		}
		docs = append(docs, *d)
	}
	return docs, failed
}
