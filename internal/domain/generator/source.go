package generator

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source is the random stream the generator samples from.
type Source interface {
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// lockedSource serializes access to a *rand.Rand so one source can serve
// concurrent handlers.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedSource returns a goroutine-safe PCG source. A zero seed seeds
// from the current time.
func NewLockedSource(seed int64) Source {
	s1 := uint64(seed) //nolint:gosec // seed bits are reinterpreted, not truncated
	if seed == 0 {
		s1 = uint64(time.Now().UnixNano()) //nolint:gosec // wall clock is always positive here
	}
	return &lockedSource{
		rng: rand.New(rand.NewPCG(s1, s1^pcgStreamSalt)), //nolint:gosec // dummy data, not security sensitive
	}
}

// pcgStreamSalt derives the second PCG word from the seed.
const pcgStreamSalt = 0x9e3779b97f4a7c15

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

type systemClock struct {
	loc *time.Location
}

// SystemClock reads wall time in loc. A nil loc means time.Local.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time { return time.Now().In(c.loc) }
