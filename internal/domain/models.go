package domain

import "time"

// Chunk is the atomic unit of retrieval: a bounded span of source text plus
// provenance and section metadata. Chunks stored in the index are parallel to
// their embedding vectors and are never reordered or deleted.
type Chunk struct {
	Text     string `json:"text"`
	Heading  string `json:"heading,omitempty"`
	Source   string `json:"source"`
	Subject  string `json:"subject"`
	Filename string `json:"filename"`
	ChunkID  string `json:"chunk_id"`
}

// Document is a cleaned source document ready for chunking, with provenance
// metadata derived from its filename.
type Document struct {
	Source   string
	Subject  string
	Filename string
	Text     string
}

// ScoredChunk pairs a retrieved chunk with its normalized similarity score.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// RetrievedContext is the transient result of one retrieval: matching chunks
// in descending similarity order plus an aggregate confidence in [0,1].
type RetrievedContext struct {
	Results           []ScoredChunk
	OverallConfidence float64
}

// VerificationResult is the tri-state coverage verdict for a learning
// objective. WarningMessage is non-empty exactly when the confidence falls
// below the full-trust threshold or no chunks matched. RelevantSubjects keeps
// ranked order and repeats; repeated subjects act as a weighting signal.
type VerificationResult struct {
	IsVerified       bool     `json:"is_verified"`
	ConfidenceScore  float64  `json:"confidence_score"`
	WarningMessage   string   `json:"warning_message,omitempty"`
	RelevantSubjects []string `json:"relevant_subjects"`
}

// Candidate is one nearest-neighbor hit: the ordinal position of the chunk in
// the index and its squared Euclidean distance from the query vector.
type Candidate struct {
	Ordinal  int
	Distance float32
}

// IngestReport summarizes one ingestion run. Durable is false when the index
// was updated in memory but the post-batch save did not succeed.
type IngestReport struct {
	Documents       int
	FailedDocuments int
	ChunksAdded     int
	FailedChunks    int
	IndexSize       int
	Durable         bool
	Elapsed         time.Duration
}

// Progress reports long-running index builds: chunks embedded so far out of
// the total scheduled for this run.
type Progress struct {
	Done  int
	Total int
}

// ProgressFunc receives progress updates during rebuild/append. May be nil.
type ProgressFunc func(Progress)
