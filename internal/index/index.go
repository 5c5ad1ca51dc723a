package index

import (
	"errors"

	"github.com/ppiankov/mutatrack/internal/model"
)

// ErrDimensionMismatch is returned when a vector's length does not match
// the index dimension. Callers log and skip the insert; the claim is
// still processed through the rest of the pipeline.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Match is one search hit: a stored claim and its similarity to the query
type Match struct {
	ClaimID    string
	Similarity float64
}

// Index is the similarity search contract. The flat implementation does
// exact brute-force search; an approximate (ANN) backend can replace it
// behind the same interface without changing callers.
type Index interface {
	// Insert registers a claim vector. Vectors must all share the
	// configured dimension.
	Insert(claimID string, vector []float32) error

	// Search returns up to k nearest stored vectors with similarity at or
	// above threshold, nearest first. An empty index yields no matches.
	Search(query []float32, k int, threshold float64) []Match

	// Size reports the number of indexed vectors.
	Size() int
}

// ToSimilarClaims converts matches to the wire representation
func ToSimilarClaims(matches []Match) []model.SimilarClaim {
	similar := make([]model.SimilarClaim, 0, len(matches))
	for _, m := range matches {
		similar = append(similar, model.SimilarClaim{
			ClaimID:    m.ClaimID,
			Similarity: m.Similarity,
		})
	}
	return similar
}
