package sample

import (
	"testing"
	"time"

	"github.com/itohio/chiptemp/pkg/device"
	"github.com/stretchr/testify/assert"
)

// TestConverter_GracefulShutdown tests that converter closes output channel
// when input channel is closed.
func TestConverter_GracefulShutdown(t *testing.T) {
	converter := NewConverter(nil, 10)
	input := make(chan device.RawSample, 10)
	output := converter(input)

	// Read samples in background
	received := make(chan int, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		count := 0
		for range output {
			count++
		}
		received <- count
	}()

	// Send some samples
	now := time.Now()
	numSamples := 3
	for i := 0; i < numSamples; i++ {
		input <- device.RawSample{
			Timestamp: now.Add(time.Duration(i) * time.Second),
			Raw:       300,
			Kelvin:    300,
		}
	}

	// Close input channel - this should cause converter to close output
	close(input)

	// Wait for output channel to close (reader goroutine to finish)
	select {
	case <-done:
		// Output closed as expected
	case <-time.After(2 * time.Second):
		t.Fatal("Converter did not close output channel after input closed")
	}

	assert.Equal(t, numSamples, <-received)
}

// TestAveragingConverter_GracefulShutdown tests that the averaging
// converter flushes and closes when its input closes.
func TestAveragingConverter_GracefulShutdown(t *testing.T) {
	converter := NewAveragingConverter(nil, 5, 10)
	input := make(chan device.RawSample, 10)
	output := converter(input)

	done := make(chan struct{})
	var samples []Sample
	go func() {
		defer close(done)
		for s := range output {
			samples = append(samples, s)
		}
	}()

	input <- device.RawSample{Timestamp: time.Now(), Raw: 300, Kelvin: 300}
	close(input)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Averaging converter did not close output channel after input closed")
	}

	// The pending sample was flushed on shutdown
	assert.NotEmpty(t, samples)
}
