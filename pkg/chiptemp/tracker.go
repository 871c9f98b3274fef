package chiptemp

// RawSampler performs one hardware acquisition of the temperature
// sensor and returns the 10-bit reading. Implementations must complete
// in bounded time - a microsecond-order busy-wait for the conversion is
// fine, a millisecond sleep is not - so that Tick stays safe to call
// from hard-realtime loops.
type RawSampler interface {
	Sample() uint16
}

// SamplerFunc adapts a plain function to the RawSampler interface.
type SamplerFunc func() uint16

// Sample calls f.
func (f SamplerFunc) Sample() uint16 { return f() }

// Window is the number of samples in the moving average. Readings are
// valid only after Window ticks; before that the average is dragged
// toward zero by the unfilled slots.
const Window = 5

// Tracker owns a ring of the last Window raw samples and reports their
// average, optionally mapped through a two-point calibration. Construct
// with New or NewCalibrated, call Tick once per control loop iteration,
// and read RawAverage or Kelvin at any time.
//
// A Tracker is not safe for concurrent use. If readers live on another
// goroutine the caller must serialize Tick against the accessors.
type Tracker struct {
	sampler RawSampler
	cal     Calibration

	// Last raw readings. Zeroes initially - the first Window ticks
	// fill the ring properly.
	samples [Window]uint16
	next    int
}

// New returns an uncalibrated tracker: Kelvin reports RawAverage
// unchanged. As an empirical, undocumented fact the raw reading can be
// treated as Kelvin with an error of up to ±10°.
func New(sampler RawSampler) *Tracker {
	return &Tracker{sampler: sampler}
}

// NewCalibrated returns a tracker calibrated with the two points, in
// either order. It fails if the points share a hardware reading.
func NewCalibrated(sampler RawSampler, p1, p2 CalPoint) (*Tracker, error) {
	cal, err := NewCalibration(p1, p2)
	if err != nil {
		return nil, err
	}
	return &Tracker{sampler: sampler, cal: cal}, nil
}

// Tick acquires one sample and overwrites the oldest ring slot. It
// blocks no longer than the sampler's own bounded acquisition time.
func (t *Tracker) Tick() {
	t.samples[t.next] = t.sampler.Sample()
	t.next++
	if t.next == Window {
		t.next = 0
	}
}

// RawAverage returns the truncating mean of all Window slots. During
// warm-up (fewer than Window ticks since construction) unfilled slots
// count as zero and the result is biased low.
func (t *Tracker) RawAverage() uint16 {
	var sum uint32
	for _, s := range t.samples {
		sum += uint32(s)
	}
	return uint16(sum / Window)
}

// Kelvin returns the calibrated temperature for the current RawAverage.
func (t *Tracker) Kelvin() uint16 {
	return t.cal.Kelvin(t.RawAverage())
}

// Celsius returns Kelvin converted to Celsius.
func (t *Tracker) Celsius() int {
	return KelvinToCelsius(t.Kelvin())
}
