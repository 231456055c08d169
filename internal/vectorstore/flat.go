package vectorstore

import (
	"sort"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/domain"
)

// sqDistance returns the squared Euclidean distance between two vectors of
// equal length.
func sqDistance(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// nearest scans all stored vectors and returns the k closest candidates by
// squared Euclidean distance, ascending. k must already be clamped.
func nearest(vectors [][]float32, query []float32, k int) []domain.Candidate {
	candidates := make([]domain.Candidate, len(vectors))
	for i, v := range vectors {
		candidates[i] = domain.Candidate{Ordinal: i, Distance: sqDistance(v, query)}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Ordinal < candidates[j].Ordinal
	})
	return candidates[:k]
}
