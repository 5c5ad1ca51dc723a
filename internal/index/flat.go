package index

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// FlatL2 is an exact brute-force L2 index. Claim volumes are small enough
// that linear scan beats the recall tradeoffs of approximate structures;
// ids are kept in insertion order so an internal position maps straight
// back to its claim.
type FlatL2 struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
	claimIDs  []string
}

// NewFlatL2 creates an empty index for vectors of the given dimension
func NewFlatL2(dimension int) *FlatL2 {
	if dimension <= 0 {
		dimension = 384
	}
	return &FlatL2{dimension: dimension}
}

// Dimension returns the configured vector dimension
func (x *FlatL2) Dimension() int {
	return x.dimension
}

// Insert registers a claim vector in insertion order
func (x *FlatL2) Insert(claimID string, vector []float32) error {
	if len(vector) != x.dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), x.dimension)
	}

	// Copy so a caller mutating its slice cannot corrupt the index
	stored := make([]float32, len(vector))
	copy(stored, vector)

	x.mu.Lock()
	defer x.mu.Unlock()

	x.vectors = append(x.vectors, stored)
	x.claimIDs = append(x.claimIDs, claimID)
	return nil
}

// Search scans all stored vectors, converts L2 distance d to similarity
// 1/(1+d), and returns up to k hits at or above threshold, nearest first.
// The conversion is kept for compatibility with existing thresholds; it
// is meaningful only for relative ranking.
func (x *FlatL2) Search(query []float32, k int, threshold float64) []Match {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.claimIDs) == 0 || len(query) != x.dimension {
		return nil
	}

	if k > len(x.claimIDs) {
		k = len(x.claimIDs)
	}
	if k <= 0 {
		return nil
	}

	type scored struct {
		position int
		distance float64
	}

	distances := make([]scored, len(x.vectors))
	for i, v := range x.vectors {
		distances[i] = scored{position: i, distance: l2Distance(query, v)}
	}

	sort.Slice(distances, func(i, j int) bool {
		if distances[i].distance != distances[j].distance {
			return distances[i].distance < distances[j].distance
		}
		// Stable tie-break on insertion order
		return distances[i].position < distances[j].position
	})

	matches := make([]Match, 0, k)
	for _, d := range distances[:k] {
		similarity := 1 / (1 + d.distance)
		if similarity >= threshold {
			matches = append(matches, Match{
				ClaimID:    x.claimIDs[d.position],
				Similarity: similarity,
			})
		}
	}

	return matches
}

// Size reports the number of indexed vectors
func (x *FlatL2) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.claimIDs)
}

func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
