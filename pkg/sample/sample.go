package sample

import (
	"log"
	"time"

	"github.com/itohio/chiptemp/pkg/chiptemp"
	"github.com/itohio/chiptemp/pkg/device"
)

// Sample is a processed measurement with the temperature in usable units.
type Sample struct {
	Timestamp time.Time
	Raw       uint16 // averaged 10-bit hardware reading
	Kelvin    uint16 // calibrated temperature
	Celsius   int
}

// Converter is a function type that converts RawSample channel to Sample channel.
type Converter func(in <-chan device.RawSample) <-chan Sample

// NewConverter creates a converter that maps device samples to Samples.
// With a non-nil calibration the raw reading is re-mapped on the host;
// otherwise the temperature the firmware reported is passed through.
func NewConverter(cal *chiptemp.Calibration, bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan device.RawSample) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			for raw := range in {
				select {
				case out <- convertSample(raw, cal):
				case <-time.After(time.Second):
					log.Printf("Converter output channel full, dropping sample")
				}
			}
		}()

		return out
	}
}

// convertSample converts a device.RawSample to Sample.
func convertSample(raw device.RawSample, cal *chiptemp.Calibration) Sample {
	kelvin := raw.Kelvin
	if cal != nil {
		kelvin = cal.Kelvin(raw.Raw)
	}

	return Sample{
		Timestamp: raw.Timestamp,
		Raw:       raw.Raw,
		Kelvin:    kelvin,
		Celsius:   chiptemp.KelvinToCelsius(kelvin),
	}
}
