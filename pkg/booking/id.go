// Package booking generates booking identifiers.
package booking

import (
	"math/rand/v2"
	"sync"
)

// IDLength is the number of characters in a booking ID.
const IDLength = 6

// Alphabet is the set booking IDs are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces booking IDs.
// Implementations do not check the ledger for collisions.
type Generator interface {
	NewID() string
}

// RandomGenerator draws IDs uniformly from Alphabet.
type RandomGenerator struct{}

// NewID implements Generator.
func (RandomGenerator) NewID() string {
	b := make([]byte, IDLength)
	for i := range b {
		b[i] = Alphabet[rand.IntN(len(Alphabet))]
	}
	return string(b)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func() string

// NewID implements Generator.
func (f GeneratorFunc) NewID() string { return f() }

// Sequence replays a fixed list of IDs, cycling when exhausted.
// Useful for deterministic tests.
type Sequence struct {
	mu  sync.Mutex
	ids []string
	pos int
}

// NewSequence returns a Sequence over ids. It panics when ids is empty.
func NewSequence(ids ...string) *Sequence {
	if len(ids) == 0 {
		panic("booking: empty sequence")
	}
	return &Sequence{ids: ids}
}

// NewID implements Generator.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.ids[s.pos%len(s.ids)]
	s.pos++
	return id
}

// Valid reports whether id has the shape of a generated booking ID.
func Valid(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
