package train

import (
	"math/rand"
)

// Partition shuffles the indices 0..n-1 and splits them into batches of
// batchSize. The last batch holds the remainder and may be shorter. Every
// index appears in exactly one batch.
//
// Panics if batchSize <= 0 or n < 0.
func Partition(n, batchSize int, rng *rand.Rand) [][]int {
	if batchSize <= 0 {
		panic("train: batch size must be > 0")
	}
	perm := rng.Perm(n)

	batches := make([][]int, 0, (n+batchSize-1)/batchSize)
	for start := 0; start < n; start += batchSize {
		end := min(start+batchSize, n)
		batches = append(batches, perm[start:end])
	}
	return batches
}
