package testutil

import "sync"

// FixedIDGenerator hands out a preset sequence of identifiers.
//
// This enables deterministic store tests and golden snapshot comparison: the
// same scenario with the same FixedIDGenerator produces byte-identical rows.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu   sync.Mutex
	ids  []string
	next int
}

// NewFixedIDGenerator creates a generator that returns the given ids in
// order. NewID panics once the sequence is exhausted, which turns an
// unexpected extra allocation into a loud test failure.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// NewID returns the next identifier in the preset sequence.
//
// Implements the store's IDGenerator interface.
func (g *FixedIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.next >= len(g.ids) {
		panic("FixedIDGenerator: all ids exhausted")
	}
	id := g.ids[g.next]
	g.next++
	return id
}
