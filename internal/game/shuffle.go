package game

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the random source shared by generation and sampling. Callers that
// need determinism inject their own source; NewRand gives a time-seeded one.
type Rand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRand() *Rand {
	return NewSeededRand(time.Now().UnixNano())
}

// NewSeededRand is used by tests that need reproducible draws.
func NewSeededRand(seed int64) *Rand {
	return &Rand{rnd: rand.New(rand.NewSource(seed))}
}

func (r *Rand) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// Shuffle permutes s in place with Fisher-Yates.
func Shuffle[T any](r *Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Shuffled returns a shuffled copy, leaving the input untouched.
func Shuffled[T any](r *Rand, s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	Shuffle(r, out)
	return out
}

// Sample draws up to count elements uniformly without replacement. When the
// source has fewer than count elements it returns all of them; the caller
// observes the shortfall through the result length.
func Sample[T any](r *Rand, s []T, count int) []T {
	if count < 0 {
		count = 0
	}
	out := Shuffled(r, s)
	if count < len(out) {
		out = out[:count]
	}
	return out
}
