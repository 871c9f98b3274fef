//go:generate tinygo flash -target=arduino-leonardo

package main

import (
	"time"

	"github.com/itohio/chiptemp/pkg/chiptemp"
)

var (
	tracker *chiptemp.Tracker

	// Timing
	lastSample time.Time
	lastOutput time.Time
)

func main() {
	t, err := chiptemp.NewCalibrated(
		chiptemp.SamplerFunc(readTemperatureSensor),
		chiptemp.PointC(CAL_POINT1_CELSIUS, CAL_POINT1_READING),
		chiptemp.PointC(CAL_POINT2_CELSIUS, CAL_POINT2_READING),
	)
	if err != nil {
		// Broken calibration constants. Complain over serial forever
		// instead of streaming garbage temperatures.
		for {
			print("bad calibration: ")
			print(err.Error())
			print("\n")
			time.Sleep(time.Second)
		}
	}
	tracker = t

	// Initialize timing
	lastSample = time.Now()
	lastOutput = lastSample

	// Main loop
	for {
		now := time.Now()

		// Feed one acquisition into the moving average every 20ms
		if now.Sub(lastSample) >= time.Duration(SAMPLE_INTERVAL_MS)*time.Millisecond {
			tracker.Tick()
			lastSample = now
		}

		// Stream the averaged reading every 100ms
		if now.Sub(lastOutput) >= time.Duration(OUTPUT_INTERVAL_MS)*time.Millisecond {
			outputSample()
			lastOutput = now
		}

		// Small delay to prevent tight loop (but still allow precise timing)
		time.Sleep(100 * time.Microsecond)
	}
}

func outputSample() {
	// Get timestamp in unix microseconds
	now := time.Now()
	timestampMicros := now.UnixNano() / 1000 // Convert nanoseconds to microseconds

	// Output format: "unix_micros,raw,kelvin\n"
	// Example: "1234567890123,305,298\n"
	print(timestampMicros)
	print(",")
	print(tracker.RawAverage())
	print(",")
	print(tracker.Kelvin())
	print("\n")
}
