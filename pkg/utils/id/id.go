// Package id provides unique ID generation for tutor-x.
//
//	qid := id.NewULID()  // e.g., "01ARZ3NDEKTSV4RRFFQ69G5FAV", sortable by creation time
//	rid := id.NewUUID()  // e.g., "550e8400-e29b-41d4-a716-446655440000"
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator defines the interface for ID generators.
type Generator interface {
	// Generate creates a new unique ID.
	Generate() string
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func() string

// Generate calls f.
func (f GeneratorFunc) Generate() string { return f() }

// ULIDGenerator produces monotonic ULIDs; safe for concurrent use.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// ULIDOption is a functional option for ULIDGenerator.
type ULIDOption func(*ULIDGenerator)

// WithEntropy sets the random source.
func WithEntropy(r io.Reader) ULIDOption {
	return func(g *ULIDGenerator) {
		g.entropy = ulid.Monotonic(r, 0)
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) ULIDOption {
	return func(g *ULIDGenerator) {
		g.now = now
	}
}

// NewULIDGenerator creates a new ULID generator.
func NewULIDGenerator(opts ...ULIDOption) *ULIDGenerator {
	g := &ULIDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate creates a new ULID string.
func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}

var (
	defaultULID     *ULIDGenerator
	defaultULIDOnce sync.Once
)

// NewULID generates a new ULID string with the default generator.
func NewULID() string {
	defaultULIDOnce.Do(func() {
		defaultULID = NewULIDGenerator()
	})
	return defaultULID.Generate()
}

// NewUUID generates a new random (v4) UUID string.
func NewUUID() string {
	return uuid.NewString()
}

// IsULID reports whether s parses as a ULID.
func IsULID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
