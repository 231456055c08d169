package service

import (
	"context"
	"errors"
	"time"

	"github.com/phuslu/log"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/config"
	"github.com/JuanNavarr0/labster-quiz-generator/internal/domain"
	"github.com/JuanNavarr0/labster-quiz-generator/internal/vectorstore"
)

// Options carries the retrieval and verification policy. Zero values fall
// back to the documented defaults; the verification thresholds in particular
// are policy constants (0.65/0.80) that define the tier boundaries.
type Options struct {
	RetrieveTopK     int
	RetrieveMinScore float64
	MaxDistance      float64
	VerifyTopK       int
	VerifyMinScore   float64
	FullConfidence   float64
}

// OptionsFromConfig maps the application config onto service options.
func OptionsFromConfig(cfg *config.AppConfig) Options {
	return Options{
		RetrieveTopK:     cfg.Retrieval.TopK,
		RetrieveMinScore: cfg.Retrieval.MinScore,
		MaxDistance:      cfg.Retrieval.MaxDistance,
		VerifyTopK:       cfg.Verification.TopK,
		VerifyMinScore:   cfg.Verification.MinConfidence,
		FullConfidence:   cfg.Verification.FullConfidence,
	}
}

func (o Options) withDefaults() Options {
	if o.RetrieveTopK <= 0 {
		o.RetrieveTopK = 5
	}
	if o.RetrieveMinScore <= 0 {
		o.RetrieveMinScore = 0.7
	}
	if o.MaxDistance <= 0 {
		o.MaxDistance = 4.0
	}
	if o.VerifyTopK <= 0 {
		o.VerifyTopK = 5
	}
	if o.VerifyMinScore <= 0 {
		o.VerifyMinScore = 0.65
	}
	if o.FullConfidence <= 0 {
		o.FullConfidence = 0.80
	}
	return o
}

// RAGService orchestrates chunking, embedding, nearest-neighbor search,
// score normalization and the verification policy. All collaborators are
// injected; the hosting application owns construction and lifecycle.
type RAGService struct {
	index    domain.VectorIndex
	embedder domain.Embedder
	chunker  domain.Chunker
	opts     Options
}

func New(index domain.VectorIndex, embedder domain.Embedder, chunker domain.Chunker, opts Options) *RAGService {
	return &RAGService{
		index:    index,
		embedder: embedder,
		chunker:  chunker,
		opts:     opts.withDefaults(),
	}
}

// Initialize loads the persisted index. Both a missing and a corrupt store
// degrade to an empty index; the service stays operational either way.
func (s *RAGService) Initialize() error {
	loaded, err := s.index.Load()
	if err != nil {
		log.Warn().Err(err).Msg("index load fell back to empty index")
		return nil
	}
	log.Info().Bool("loaded", loaded).Int("chunks", s.index.Size()).Msg("rag service initialized")
	return nil
}

// Shutdown releases the service. The index persists after every mutating
// batch, so there is nothing left to flush.
func (s *RAGService) Shutdown() error {
	log.Info().Msg("rag service shut down")
	return nil
}

// RetrieveContext embeds the query, searches the index and returns matching
// chunks with normalized similarity scores and an aggregate confidence.
// Retrieval never fails: any embedding or search error degrades to an empty
// context with confidence 0.0.
func (s *RAGService) RetrieveContext(ctx context.Context, query string, topK int, minScore float64) domain.RetrievedContext {
	if topK <= 0 {
		topK = s.opts.RetrieveTopK
	}
	if minScore < 0 {
		minScore = s.opts.RetrieveMinScore
	}

	empty := domain.RetrievedContext{OverallConfidence: 0.0}
	if s.index.Size() == 0 {
		log.Warn().Msg("no index available for retrieval")
		return empty
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("query embedding failed")
		return empty
	}
	candidates, err := s.index.Search(vector, topK)
	if err != nil {
		log.Error().Err(err).Msg("index search failed")
		return empty
	}

	var results []domain.ScoredChunk
	for _, cand := range candidates {
		score := s.normalizeScore(cand.Distance)
		if score < minScore {
			continue
		}
		chunk, ok := s.index.ChunkAt(cand.Ordinal)
		if !ok {
			continue
		}
		results = append(results, domain.ScoredChunk{Chunk: chunk, Score: score})
	}

	return domain.RetrievedContext{
		Results:           results,
		OverallConfidence: overallConfidence(results),
	}
}

// normalizeScore maps a squared L2 distance to a similarity in [0,1] via a
// clamped linear remap against the configured reference maximum.
func (s *RAGService) normalizeScore(distance float32) float64 {
	score := 1 - float64(distance)/s.opts.MaxDistance
	if score < 0 {
		return 0
	}
	return score
}

// overallConfidence is the position-weighted mean of the surviving scores.
// Weight 1/(i+1) lets top-ranked matches dominate even when several mediocre
// matches clear the threshold. No survivors means exactly 0.0.
func overallConfidence(results []domain.ScoredChunk) float64 {
	if len(results) == 0 {
		return 0.0
	}
	var weighted, weightSum float64
	for i, r := range results {
		w := 1.0 / float64(i+1)
		weighted += r.Score * w
		weightSum += w
	}
	return weighted / weightSum
}

const (
	warnLimited      = "Some content may not be fully verified due to limited reference material."
	warnInsufficient = "Cannot guarantee scientific accuracy due to insufficient reference material."
)

// VerifyScientificContent checks whether the indexed reference material
// covers a learning objective well enough to trust generated content about
// it, applying the three-tier confidence policy.
func (s *RAGService) VerifyScientificContent(ctx context.Context, objective string) domain.VerificationResult {
	rc := s.RetrieveContext(ctx, objective, s.opts.VerifyTopK, s.opts.VerifyMinScore)

	subjects := make([]string, 0, len(rc.Results))
	for _, r := range rc.Results {
		subjects = append(subjects, r.Chunk.Subject)
	}
	return s.verdict(rc.OverallConfidence, subjects)
}

// verdict applies the tier thresholds. Both bounds are inclusive: exactly
// FullConfidence is fully trusted, exactly VerifyMinScore is still verified.
func (s *RAGService) verdict(confidence float64, subjects []string) domain.VerificationResult {
	result := domain.VerificationResult{
		ConfidenceScore:  confidence,
		RelevantSubjects: subjects,
	}
	switch {
	case confidence >= s.opts.FullConfidence:
		result.IsVerified = true
	case confidence >= s.opts.VerifyMinScore:
		result.IsVerified = true
		result.WarningMessage = warnLimited
	default:
		result.IsVerified = false
		result.WarningMessage = warnInsufficient
	}
	return result
}

// Ingest chunks the documents in order and feeds them into the index, either
// rebuilding from scratch or appending behind the existing entries. A
// document that fails to chunk is skipped and counted. A post-batch save
// failure leaves the in-memory index valid but marks the report non-durable
// and is returned as vectorstore.ErrNotDurable.
func (s *RAGService) Ingest(ctx context.Context, docs []domain.Document, rebuild bool, progress domain.ProgressFunc) (*domain.IngestReport, error) {
	start := time.Now()

	var chunks []domain.Chunk
	failedDocs := 0
	for _, doc := range docs {
		docChunks, err := s.chunker.Chunk(doc)
		if err != nil {
			log.Warn().Err(err).Str("filename", doc.Filename).Msg("chunking failed, skipping document")
			failedDocs++
			continue
		}
		log.Info().Str("filename", doc.Filename).Int("chunks", len(docChunks)).Msg("document chunked")
		chunks = append(chunks, docChunks...)
	}

	var added int
	var err error
	if rebuild || s.index.Size() == 0 {
		added, err = s.index.Rebuild(ctx, chunks, progress)
	} else {
		added, err = s.index.Append(ctx, chunks, progress)
	}

	report := &domain.IngestReport{
		Documents:       len(docs) - failedDocs,
		FailedDocuments: failedDocs,
		ChunksAdded:     added,
		FailedChunks:    len(chunks) - added,
		IndexSize:       s.index.Size(),
		Durable:         err == nil,
		Elapsed:         time.Since(start),
	}
	if err != nil && !errors.Is(err, vectorstore.ErrNotDurable) {
		return report, err
	}
	return report, err
}

// Status describes the current index.
type Status struct {
	Chunks    int
	Dimension int
	Embedder  string
}

func (s *RAGService) Status() Status {
	st := Status{
		Chunks:   s.index.Size(),
		Embedder: s.embedder.Name(),
	}
	st.Dimension = s.embedder.Dimension()
	if sized, ok := s.index.(interface{ Dimension() int }); ok && sized.Dimension() > 0 {
		st.Dimension = sized.Dimension()
	}
	return st
}
