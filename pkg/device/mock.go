package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/chiptemp/pkg/chiptemp"
	"github.com/itohio/chiptemp/pkg/config"
)

// Mock simulates the firmware for testing and development. It fabricates
// raw readings with the real sensor's quirks - a slow ambient drift, a
// constant systematic offset, and a ±1..2 count oscillation - and runs
// them through an actual chiptemp.Tracker, so the streamed values behave
// exactly like the firmware's.
type Mock struct {
	cfg *config.MockConfig

	samples   chan RawSample
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	// Simulation state
	startTime time.Time
	tracker   *chiptemp.Tracker
}

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{
			AmbientCelsius: 24,
			OffsetCounts:   7,
			NoiseCounts:    2,
			DriftCelsius:   3,
			DriftPeriod:    5 * time.Minute,
			SampleRate:     100 * time.Millisecond,
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Mock{
		cfg:       cfg,
		samples:   make(chan RawSample, DefaultBufferSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
	// Uncalibrated, like factory-fresh firmware: the streamed Kelvin
	// still carries the systematic offset and the host has to correct
	// it with its own calibration points.
	m.tracker = chiptemp.New(chiptemp.SamplerFunc(m.rawReading))
	return m
}

// Connect simulates connecting to the device.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true
	m.startTime = time.Now()

	// Start generating samples
	go m.generateSamples()

	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false
	close(m.samples)

	return nil
}

// Samples returns the channel for reading samples.
func (m *Mock) Samples() <-chan RawSample {
	return m.samples
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// generateSamples ticks the tracker at the configured rate and emits
// one RawSample per tick.
func (m *Mock) generateSamples() {
	ticker := time.NewTicker(m.cfg.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.tracker.Tick()
			sample := RawSample{
				Timestamp: time.Now(),
				Raw:       m.tracker.RawAverage(),
				Kelvin:    m.tracker.Kelvin(),
			}
			select {
			case m.samples <- sample:
			case <-m.ctx.Done():
				return
			default:
				// Channel full, skip
			}
		}
	}
}

// rawReading fabricates one hardware acquisition.
func (m *Mock) rawReading() uint16 {
	m.mu.RLock()
	elapsed := time.Since(m.startTime)
	m.mu.RUnlock()

	// Slow ambient drift around the configured temperature.
	trueKelvin := float32(m.cfg.AmbientCelsius) + float32(chiptemp.CelsiusZeroK)
	if m.cfg.DriftPeriod > 0 {
		phase := 2 * math32.Pi * float32(elapsed.Seconds()) / float32(m.cfg.DriftPeriod.Seconds())
		trueKelvin += float32(m.cfg.DriftCelsius) * math32.Sin(phase)
	}

	// The sensor reads roughly Kelvin plus a systematic offset, with a
	// fast ±1..2 count oscillation on top.
	t := float32(elapsed.Nanoseconds()%1e9) / 1e9
	noise := (math32.Sin(2*math32.Pi*13*t) + math32.Cos(2*math32.Pi*31*t)) *
		float32(m.cfg.NoiseCounts) * 0.5

	val := trueKelvin + float32(m.cfg.OffsetCounts) + noise
	if val < 0 {
		val = 0
	} else if val > 1023 {
		val = 1023
	}
	return uint16(val)
}
