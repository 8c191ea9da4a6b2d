package battle

import (
	"math/rand"
	"sync"
)

// Rand is the randomness a State draws on for speed ties. Tests substitute
// a fixed source.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a seeded source that is safe to share between goroutines.
// A zero seed is replaced with 1.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = 1
	}
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
