package importer

import (
	"sync"
	"sync/atomic"
)

// Stats aggregates outcomes across all workers: atomic counters for
// processed/succeeded/failed records and the set of line numbers whose
// submission failed. All methods are safe for concurrent use.
type Stats struct {
	total   atomic.Int64
	success atomic.Int64
	errors  atomic.Int64

	mu      sync.Mutex
	rejects map[int]struct{}
}

// NewStats returns an empty Stats.
func NewStats() *Stats {
	return &Stats{rejects: make(map[int]struct{})}
}

// BeginRecord counts one dispatched record and returns the running total,
// which drives the periodic progress log.
func (s *Stats) BeginRecord() int64 {
	return s.total.Add(1)
}

// RecordSuccess counts one accepted record.
func (s *Stats) RecordSuccess() {
	s.success.Add(1)
}

// RecordFailure counts one rejected record and remembers its line number
// for the rejects file.
func (s *Stats) RecordFailure(line int) {
	s.errors.Add(1)
	s.mu.Lock()
	s.rejects[line] = struct{}{}
	s.mu.Unlock()
}

// Total returns the number of records processed so far.
func (s *Stats) Total() int64 { return s.total.Load() }

// Success returns the number of records the API accepted.
func (s *Stats) Success() int64 { return s.success.Load() }

// Errors returns the number of records whose submission failed.
func (s *Stats) Errors() int64 { return s.errors.Load() }

// RejectedLines returns a copy of the failed line-number set.
func (s *Stats) RejectedLines() map[int]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make(map[int]struct{}, len(s.rejects))
	for line := range s.rejects {
		lines[line] = struct{}{}
	}
	return lines
}
