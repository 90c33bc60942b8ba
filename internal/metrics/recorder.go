package metrics

import (
	"sync"
	"time"
)

// DefaultCapacity is how many metrics a Recorder keeps by default.
const DefaultCapacity = 1000

// Recorder stores the most recent metrics in a fixed-size ring.
// A nil *Recorder discards everything.
type Recorder struct {
	mu    sync.Mutex
	buf   []Metric
	next  int
	full  bool
	total int
}

// NewRecorder creates a recorder holding up to capacity metrics.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{buf: make([]Metric, capacity)}
}

// Record appends m, evicting the oldest metric when full.
func (r *Recorder) Record(m Metric) {
	if r == nil {
		return
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = m
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
	r.total++
}

// List returns up to limit metrics, newest first. limit <= 0 returns all.
func (r *Recorder) List(limit int) []Metric {
	if r == nil {
		return []Metric{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.next
	if r.full {
		n = len(r.buf)
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]Metric, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (r.next - 1 - i + len(r.buf)) % len(r.buf)
		out = append(out, r.buf[idx])
	}
	return out
}

// Total returns how many metrics were ever recorded, including evicted ones.
func (r *Recorder) Total() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
