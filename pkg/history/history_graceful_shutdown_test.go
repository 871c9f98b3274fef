package history

import (
	"sync"
	"testing"
	"time"

	"github.com/itohio/chiptemp/pkg/sample"
	"github.com/stretchr/testify/assert"
)

// TestHistory_GracefulShutdown_NoCallbacksAfterClose tests that history stops
// sending callbacks after the input channel is closed.
func TestHistory_GracefulShutdown_NoCallbacksAfterClose(t *testing.T) {
	h := New(10 * time.Second)

	callbackCount := 0
	callbackMu := &sync.Mutex{}
	h.OnUpdate(func(samples []sample.Sample, stats Stats) {
		callbackMu.Lock()
		callbackCount++
		callbackMu.Unlock()
	})

	// Create input channel and send some samples
	input := make(chan sample.Sample, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ProcessSamples(input)
	}()

	now := time.Now()
	for i := 0; i < 3; i++ {
		input <- tempSample(now.Add(time.Duration(i)*time.Second), uint16(295+i))
	}

	time.Sleep(100 * time.Millisecond)
	callbackMu.Lock()
	initialCount := callbackCount
	callbackMu.Unlock()

	// Close the channel and wait for ProcessSamples to finish
	close(input)
	select {
	case <-done:
		// Shutdown flag should now be set
	case <-time.After(2 * time.Second):
		t.Fatal("ProcessSamples did not finish within timeout")
	}

	// Adding directly after shutdown must not trigger callbacks
	h.add(tempSample(time.Now(), 300))

	callbackMu.Lock()
	finalCount := callbackCount
	callbackMu.Unlock()
	assert.Equal(t, initialCount, finalCount, "No callbacks should be sent after channel closes")
}

// TestHistory_ResetShutdown tests that ResetShutdown allows callbacks again.
func TestHistory_ResetShutdown(t *testing.T) {
	h := New(10 * time.Second)

	callbackCount := 0
	callbackMu := &sync.Mutex{}
	h.OnUpdate(func(samples []sample.Sample, stats Stats) {
		callbackMu.Lock()
		callbackCount++
		callbackMu.Unlock()
	})

	// First chain - send and close
	input1 := make(chan sample.Sample, 10)
	done1 := make(chan struct{})
	go func() {
		defer close(done1)
		h.ProcessSamples(input1)
	}()

	input1 <- tempSample(time.Now(), 297)
	time.Sleep(50 * time.Millisecond)

	close(input1)
	select {
	case <-done1:
		// ProcessSamples finished - shutdown flag should now be set
	case <-time.After(2 * time.Second):
		t.Fatal("First ProcessSamples did not finish within timeout")
	}

	callbackMu.Lock()
	count1 := callbackCount
	callbackMu.Unlock()

	h.ResetShutdown()

	// Second chain - should work again
	input2 := make(chan sample.Sample, 10)
	done2 := make(chan struct{})
	go func() {
		defer close(done2)
		h.ProcessSamples(input2)
	}()

	input2 <- tempSample(time.Now(), 298)
	time.Sleep(50 * time.Millisecond)

	close(input2)
	select {
	case <-done2:
		// ProcessSamples finished
	case <-time.After(2 * time.Second):
		t.Fatal("Second ProcessSamples did not finish within timeout")
	}

	callbackMu.Lock()
	count2 := callbackCount
	callbackMu.Unlock()

	assert.Greater(t, count2, count1, "Callbacks should resume after ResetShutdown")
}
