package analytics

import (
	"math/rand"
	"sort"

	"marketpulse/internal/marketdata"
	"marketpulse/pkg/contracts/domain"
)

// Scatter sample defaults.
const (
	DefaultSampleSize       = 10000
	DefaultSampleSeed int64 = 42
)

// Sample draws min(n, t.Len()) rows uniformly without replacement using a
// generator seeded with seed. Selected rows keep their original order, so
// the same table and seed always give the same output.
func Sample(t *marketdata.Table, n int, seed int64) []domain.Listing {
	indices := SampleIndices(t.Len(), n, seed)
	out := make([]domain.Listing, len(indices))
	for i, idx := range indices {
		out[i] = t.Row(idx)
	}
	return out
}

// SampleIndices picks min(n, total) distinct indices in [0, total) and
// returns them in ascending order.
func SampleIndices(total, n int, seed int64) []int {
	if n <= 0 || total <= 0 {
		return []int{}
	}
	if n > total {
		n = total
	}

	rng := rand.New(rand.NewSource(seed))
	pool := make([]int, total)
	for i := range pool {
		pool[i] = i
	}

	// Partial Fisher-Yates: the first n slots end up holding the sample.
	for i := 0; i < n; i++ {
		j := i + rng.Intn(total-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	picked := pool[:n:n]
	sort.Ints(picked)
	return picked
}
