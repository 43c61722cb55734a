package rules

import (
	"math/rand/v2"
	"sync"
)

// Source supplies every random decision the game makes: turn picks, card drops,
// steal rolls and corpus picks.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// Chance reports whether an event with probability p happens.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Uniform picks an index in [0, n) uniformly; it returns -1 when n <= 0.
func Uniform(src Source, n int) int {
	if n <= 0 {
		return -1
	}
	return src.IntN(n)
}

// seededSource wraps a PCG generator. Safe for concurrent use.
type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a deterministic source for the given seed.
func NewSeeded(seed uint64) Source {
	return &seededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Scripted replays fixed outcomes, then falls back to zero values once exhausted.
// Tests use it to force turn picks, drops and steal results.
type Scripted struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
}

// NewScripted creates a scripted source. Floats feed Float64, ints feed IntN.
func NewScripted(floats []float64, ints []int) *Scripted {
	return &Scripted{
		floats: append([]float64(nil), floats...),
		ints:   append([]int(nil), ints...),
	}
}

// PushFloats appends further Float64 outcomes.
func (s *Scripted) PushFloats(values ...float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats = append(s.floats, values...)
}

// PushInts appends further IntN outcomes.
func (s *Scripted) PushInts(values ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = append(s.ints, values...)
}

// Float64 returns the next scripted float, or 0.99 when none remain so that
// probabilistic events default to "did not happen".
func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// IntN returns the next scripted int modulo n, or 0 when none remain.
func (s *Scripted) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 || n <= 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < 0 {
		v = -v
	}
	return v % n
}
