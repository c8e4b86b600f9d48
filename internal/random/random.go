// Package random provides the uniform random source injected into game behaviours.
//
// Behaviours only ever see the Source interface so tests can substitute a
// seeded or scripted source and get deterministic outcomes.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Source is a uniform random source.
type Source interface {
	// Float64 returns a number in [0.0, 1.0).
	Float64() float64
	// Intn returns a number in [0, n). It panics if n <= 0.
	Intn(n int) int
}

// Locked is a Source safe for concurrent use across requests.
type Locked struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a concurrency-safe source seeded with seed.
func New(seed int64) *Locked {
	return &Locked{rnd: rand.New(rand.NewSource(seed))}
}

// NewFromCrypto returns a source seeded from crypto/rand.
func NewFromCrypto() (*Locked, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return New(seed), nil
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Float64()
}

func (l *Locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Intn(n)
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Chance reports whether an event with probability p happens.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// IntBetween returns a uniform integer in [min, max]. Swapped bounds are tolerated.
func IntBetween(src Source, min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + src.Intn(max-min+1)
}

// Pick returns a uniformly chosen element of items. ok is false for an empty slice.
func Pick[T any](src Source, items []T) (item T, ok bool) {
	if len(items) == 0 {
		return item, false
	}
	return items[src.Intn(len(items))], true
}

// Weighted returns the index chosen according to weights. Non-positive weights are
// never chosen; ok is false when no weight is positive.
func Weighted(src Source, weights []int) (int, bool) {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return 0, false
	}
	roll := src.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i, true
		}
		roll -= w
	}
	return len(weights) - 1, true
}

// Fixed replays a scripted sequence of values. Once exhausted it repeats the last value.
// Intn values are taken modulo n.
type Fixed struct {
	mu     sync.Mutex
	Floats []float64
	Ints   []int
	fi, ii int
}

func (f *Fixed) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Floats) == 0 {
		return 0
	}
	v := f.Floats[min(f.fi, len(f.Floats)-1)]
	f.fi++
	return v
}

func (f *Fixed) Intn(n int) int {
	if n <= 0 {
		panic("random: invalid argument to Intn")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Ints) == 0 {
		return 0
	}
	v := f.Ints[min(f.ii, len(f.Ints)-1)]
	f.ii++
	if v < 0 {
		v = -v
	}
	return v % n
}
