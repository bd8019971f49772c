package csvsource

import "sync"

// Dispatcher serializes access to a Source so that any number of
// concurrent workers each receive a distinct record. Fetching the row and
// capturing its line number happen under one lock, as a single atomic
// step; reading them separately would let two workers observe the same
// position.
type Dispatcher struct {
	mu  sync.Mutex
	src *Source
}

// NewDispatcher wraps src for shared use. The dispatcher owns the source's
// read position from this point on.
func NewDispatcher(src *Source) *Dispatcher {
	return &Dispatcher{src: src}
}

// Next returns the next record from the underlying source, or ok=false
// when the source is exhausted. Safe for arbitrary concurrent callers;
// every record is delivered to exactly one caller.
func (d *Dispatcher) Next() (Record, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.src.Next()
}
