// Package games holds the pure wager resolvers. Every resolver takes a
// stake and a randomness source and returns an outcome; nothing here
// touches balances or persistence.
package games

import (
	"math/rand"
	"sync"
	"time"
)

// RNG is the randomness seam. *rand.Rand satisfies it; tests use
// scripted implementations for deterministic outcomes.
type RNG interface {
	Intn(n int) int
	Float64() float64
}

type lockedRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRNG returns a time-seeded RNG safe for concurrent callers.
func NewRNG() RNG {
	return &lockedRNG{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (l *lockedRNG) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRNG) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
