package service

import (
	"math/rand"
	"sync"
)

// Rand is the source of randomness for question generation
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// lockedRand makes a *rand.Rand safe to share between user handlers
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewLockedRand returns a goroutine-safe Rand seeded with seed
func NewLockedRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}
