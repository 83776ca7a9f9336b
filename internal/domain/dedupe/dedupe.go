// Package dedupe defines the interface for idempotency tracking of
// client-supplied event IDs.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Default bound on remembered IDs.
const defaultMaxSize = 50_000

// Deduper records seen event IDs so a retried POST cannot double-log.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if
	// not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing a retry. Used
	// when an event was marked seen but failed to be processed (e.g.
	// queue backpressure).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of remembered IDs; zero or negative
// means unbounded.
func WithMaxSize(n int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = n
	}
}

// inMemoryDeduper keeps IDs in a map plus an insertion-ordered ring so
// bounded mode can evict the oldest entry in O(1).
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string // insertion order, only used in bounded mode
	next    int      // ring write cursor
	maxSize int
	size    atomic.Int64
}

// NewInMemory creates a deduper with configuration options.
func NewInMemory(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 {
		// Evict whatever the cursor currently points at before reusing
		// the slot. Empty string marks a never-used slot.
		if old := d.ring[d.next]; old != "" {
			if _, ok := d.seen[old]; ok {
				delete(d.seen, old)
				d.size.Add(-1)
			}
		}
		d.ring[d.next] = id
		d.next = (d.next + 1) % d.maxSize
	}
	d.seen[id] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		delete(d.seen, id)
		d.size.Add(-1)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
