// Package history keeps a time-windowed buffer of temperature samples
// with session min/peak statistics, and notifies listeners as samples
// arrive. It sits between the sample pipeline and the chart widget.
package history

import (
	"sync"
	"time"

	"github.com/itohio/chiptemp/pkg/sample"
)

// Stats are the session extremes in Kelvin, tracked since construction
// (or the last Reset), not just over the visible window.
type Stats struct {
	Min   uint16
	Peak  uint16
	Valid bool // false until the first sample arrives
}

// History maintains a FIFO buffer of samples ordered oldest first.
// Samples are removed by timestamp (time window), not by count.
type History struct {
	// Buffers
	samples []sample.Sample
	stats   Stats

	// Thread safety
	mu sync.RWMutex

	// Update callbacks receive copies of the current window and stats.
	callbacks []func(samples []sample.Sample, stats Stats)
	cbMu      sync.RWMutex

	window time.Duration

	// Set when the input channel closes, prevents further callbacks.
	shutdown bool
}

// New creates a History keeping samples for the given window.
func New(window time.Duration) *History {
	return &History{
		samples: make([]sample.Sample, 0),
		window:  window,
	}
}

// ProcessSamples consumes samples from the input channel until it
// closes. Run it on its own goroutine. When the channel closes the
// shutdown flag stops further callbacks.
func (h *History) ProcessSamples(input <-chan sample.Sample) {
	for s := range input {
		h.add(s)
	}
	h.mu.Lock()
	h.shutdown = true
	h.mu.Unlock()
}

// add appends a sample, trims the window, updates stats, and notifies.
func (h *History) add(s sample.Sample) {
	h.mu.Lock()

	h.samples = append(h.samples, s)

	// Remove samples outside time window (based on timestamp, not count)
	cutoff := s.Timestamp.Add(-h.window)
	trim := 0
	for trim < len(h.samples) && !h.samples[trim].Timestamp.After(cutoff) {
		trim++
	}
	if trim > 0 {
		h.samples = h.samples[trim:]
	}

	if !h.stats.Valid {
		h.stats = Stats{Min: s.Kelvin, Peak: s.Kelvin, Valid: true}
	} else {
		if s.Kelvin < h.stats.Min {
			h.stats.Min = s.Kelvin
		}
		if s.Kelvin > h.stats.Peak {
			h.stats.Peak = s.Kelvin
		}
	}

	shouldNotify := !h.shutdown
	h.mu.Unlock()

	if shouldNotify {
		h.notifyCallbacks()
	}
}

// Samples returns a copy of the current window, oldest first.
func (h *History) Samples() []sample.Sample {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]sample.Sample, len(h.samples))
	copy(result, h.samples)
	return result
}

// Last returns the most recent sample and whether one exists.
func (h *History) Last() (sample.Sample, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.samples) == 0 {
		return sample.Sample{}, false
	}
	return h.samples[len(h.samples)-1], true
}

// Stats returns the session min/peak.
func (h *History) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stats
}

// Reset clears the window and the session statistics.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = h.samples[:0]
	h.stats = Stats{}
}

// OnUpdate registers a callback invoked whenever a sample is added.
// The callback should copy data quickly and return as fast as possible.
func (h *History) OnUpdate(callback func(samples []sample.Sample, stats Stats)) {
	h.cbMu.Lock()
	defer h.cbMu.Unlock()
	h.callbacks = append(h.callbacks, callback)
}

// ResetShutdown resets the shutdown flag, allowing callbacks again.
// Call it before wiring a new measurement chain.
func (h *History) ResetShutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdown = false
}

// notifyCallbacks invokes all registered callbacks with copies of the
// current data, without holding the data lock during the calls.
func (h *History) notifyCallbacks() {
	h.mu.RLock()
	samplesCopy := make([]sample.Sample, len(h.samples))
	copy(samplesCopy, h.samples)
	stats := h.stats
	h.mu.RUnlock()

	h.cbMu.RLock()
	callbacks := make([]func(samples []sample.Sample, stats Stats), len(h.callbacks))
	copy(callbacks, h.callbacks)
	h.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(samplesCopy, stats)
		}
	}
}
