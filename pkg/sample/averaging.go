package sample

import (
	"log"
	"time"

	"github.com/itohio/chiptemp/pkg/chiptemp"
	"github.com/itohio/chiptemp/pkg/device"
)

// NewAveragingConverter creates a converter that averages a sliding
// window of raw device samples before calibration. This is a second
// smoothing stage on top of the firmware's own 5-sample ring, useful
// when the chart should show slow trends rather than count jitter.
func NewAveragingConverter(cal *chiptemp.Calibration, windowSize int, bufSize int) Converter {
	if windowSize <= 0 {
		windowSize = 1 // No averaging if invalid
	}
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan device.RawSample) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			var buffer []device.RawSample
			ticker := time.NewTicker(100 * time.Millisecond) // Output rate
			defer ticker.Stop()

			for {
				select {
				case raw, ok := <-in:
					if !ok {
						// Input closed, output any remaining samples
						if len(buffer) > 0 {
							select {
							case out <- averageAndConvert(buffer, cal):
							default:
							}
						}
						return
					}

					buffer = append(buffer, raw)
					if len(buffer) > windowSize {
						buffer = buffer[1:] // Remove oldest
					}

				case <-ticker.C:
					// Output averaged sample periodically
					if len(buffer) > 0 {
						select {
						case out <- averageAndConvert(buffer, cal):
						default:
							log.Printf("Averaging converter output channel full")
						}
					}
				}
			}
		}()

		return out
	}
}

// averageAndConvert averages a slice of raw samples and converts the
// result. Uses the most recent sample's timestamp, and rounds the mean
// to nearest before calibration.
func averageAndConvert(samples []device.RawSample, cal *chiptemp.Calibration) Sample {
	if len(samples) == 0 {
		return Sample{}
	}

	var sumRaw, sumKelvin uint32
	last := samples[len(samples)-1]

	for _, s := range samples {
		sumRaw += uint32(s.Raw)
		sumKelvin += uint32(s.Kelvin)
	}

	n := uint32(len(samples))
	avg := device.RawSample{
		Timestamp: last.Timestamp,
		Raw:       uint16((sumRaw + n/2) / n), // Round to nearest
		Kelvin:    uint16((sumKelvin + n/2) / n),
	}

	return convertSample(avg, cal)
}
