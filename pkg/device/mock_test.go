package device

import (
	"testing"
	"time"

	"github.com/itohio/chiptemp/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestNewMock(t *testing.T) {
	cfg := &config.MockConfig{
		AmbientCelsius: 20,
		OffsetCounts:   10,
		NoiseCounts:    1,
		DriftCelsius:   2,
		DriftPeriod:    time.Minute,
		SampleRate:     50 * time.Millisecond,
	}

	dev := NewMock(cfg)
	assert.NotNil(t, dev)
	assert.Equal(t, cfg, dev.cfg)
	assert.NotNil(t, dev.samples)
	assert.NotNil(t, dev.tracker)
	assert.False(t, dev.IsConnected())
}

func TestNewMock_NilConfig(t *testing.T) {
	dev := NewMock(nil)
	assert.NotNil(t, dev)
	assert.NotNil(t, dev.cfg)
	assert.Equal(t, float64(24), dev.cfg.AmbientCelsius)
	assert.Equal(t, 7, dev.cfg.OffsetCounts)
	assert.Equal(t, float64(2), dev.cfg.NoiseCounts)
	assert.Equal(t, float64(3), dev.cfg.DriftCelsius)
	assert.Equal(t, 5*time.Minute, dev.cfg.DriftPeriod)
	assert.Equal(t, 100*time.Millisecond, dev.cfg.SampleRate)
}

func TestMock_IsConnected(t *testing.T) {
	dev := NewMock(nil)
	assert.False(t, dev.IsConnected())
}

func TestMock_Connect_AlreadyConnected(t *testing.T) {
	dev := NewMock(nil)

	err := dev.Connect()
	assert.NoError(t, err)
	defer dev.Close()

	err = dev.Connect()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already connected")
}

func TestMock_Close_NotConnected(t *testing.T) {
	dev := NewMock(nil)

	err := dev.Close()
	assert.NoError(t, err) // Should not error when not connected
}

func TestMock_Close_Connected(t *testing.T) {
	dev := NewMock(nil)

	err := dev.Connect()
	assert.NoError(t, err)
	assert.True(t, dev.IsConnected())

	err = dev.Close()
	assert.NoError(t, err)
	assert.False(t, dev.IsConnected())
}

func TestMock_rawReading_Range(t *testing.T) {
	dev := NewMock(&config.MockConfig{
		AmbientCelsius: 24,
		OffsetCounts:   7,
		NoiseCounts:    2,
		DriftCelsius:   3,
		DriftPeriod:    5 * time.Minute,
		SampleRate:     time.Millisecond,
	})
	dev.startTime = time.Now()

	// 24C ambient reads roughly 297K plus the 7 count offset, with a
	// few counts of oscillation and drift on either side.
	for i := 0; i < 100; i++ {
		raw := dev.rawReading()
		assert.GreaterOrEqual(t, raw, uint16(290))
		assert.LessOrEqual(t, raw, uint16(318))
	}
}

func TestMock_rawReading_Clamping(t *testing.T) {
	// An absurd negative ambient must clamp to zero, an absurd hot one
	// to the 10-bit ceiling.
	cold := NewMock(&config.MockConfig{AmbientCelsius: -5000})
	cold.startTime = time.Now()
	assert.Equal(t, uint16(0), cold.rawReading())

	hot := NewMock(&config.MockConfig{AmbientCelsius: 5000})
	hot.startTime = time.Now()
	assert.Equal(t, uint16(1023), hot.rawReading())
}

func TestMock_StreamsSamples(t *testing.T) {
	dev := NewMock(&config.MockConfig{
		AmbientCelsius: 24,
		OffsetCounts:   7,
		NoiseCounts:    1,
		DriftPeriod:    5 * time.Minute,
		SampleRate:     5 * time.Millisecond,
	})

	err := dev.Connect()
	assert.NoError(t, err)
	defer dev.Close()

	select {
	case s := <-dev.Samples():
		assert.False(t, s.Timestamp.IsZero())
		assert.LessOrEqual(t, s.Raw, uint16(1023))
		// Uncalibrated firmware streams the raw average as Kelvin.
		assert.Equal(t, s.Raw, s.Kelvin)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for mock sample")
	}
}
