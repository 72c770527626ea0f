// Package pps tracks the receiver's timepulse output wired to a GPIO line.
package pps

import (
	"sync"
	"time"
)

// Snapshot is a JSON-friendly view of the tracker.
type Snapshot struct {
	Enabled   bool   `json:"enabled"`
	Locked    bool   `json:"locked"`
	Pulses    uint64 `json:"pulses"`
	LastPulse string `json:"last_pulse,omitempty"`
	// IntervalMs is the spacing between the last two pulses.
	IntervalMs float64 `json:"interval_ms,omitempty"`
}

// Tracker counts pulses. It is safe for concurrent use: the GPIO event
// handler writes while the status API reads.
type Tracker struct {
	mu       sync.Mutex
	enabled  bool
	pulses   uint64
	last     time.Time
	interval time.Duration
	// Lost is how long without a pulse before the tracker unlocks.
	lost time.Duration
}

func NewTracker() *Tracker {
	return &Tracker{enabled: true, lost: 1500 * time.Millisecond}
}

// Pulse records a rising edge observed at now.
func (t *Tracker) Pulse(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.last.IsZero() {
		t.interval = now.Sub(t.last)
	}
	t.last = now
	t.pulses++
}

// Snapshot reports state as of now.
func (t *Tracker) Snapshot(now time.Time) Snapshot {
	if t == nil {
		return Snapshot{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{Enabled: t.enabled, Pulses: t.pulses}
	if !t.last.IsZero() {
		s.LastPulse = t.last.UTC().Format(time.RFC3339Nano)
		s.Locked = now.Sub(t.last) <= t.lost && t.pulses >= 2
	}
	if t.interval > 0 {
		s.IntervalMs = float64(t.interval) / float64(time.Millisecond)
	}
	return s
}
