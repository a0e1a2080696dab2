// Package embedding turns text into dense vectors and computes pairwise
// similarity for the ranking engine.
//
// The Embedder interface is deliberately narrow so a stub returning known
// vectors can replace the remote client in tests.
package embedding

import (
	"context"
	"math"
)

// Embedder encodes input strings into fixed-size dense vectors. The same
// input always yields the same vector for a fixed model.
type Embedder interface {
	// Embed returns one vector per input string, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Similarity computes the cosine similarity of two vectors. The theoretical
// range is [-1,1]; negative values pass through unmodified rather than
// being clamped. A zero vector yields 0.
func Similarity(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
