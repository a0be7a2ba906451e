package util

import (
	"fmt"
	"math/rand"
)

// Rand is the part of *rand.Rand the simulation draws from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// IntBetween returns a uniform integer in [lo, hi], both ends included.
func IntBetween(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Sample picks k distinct values from [0, n) without replacement.
func Sample(r Rand, n, k int) ([]int, error) {
	if k < 0 || k > n {
		return nil, fmt.Errorf("sample %d from population of %d", k, n)
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + r.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k], nil
}
