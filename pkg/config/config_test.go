package config

import (
	"os"
	"testing"
	"time"

	"github.com/itohio/chiptemp/pkg/chiptemp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "COM3", cfg.Serial.Port)
	assert.False(t, cfg.Calibration.Enabled)
	assert.Equal(t, uint16(282), cfg.Calibration.Point1.Reading)
	assert.Equal(t, uint16(317), cfg.Calibration.Point2.Reading)
	assert.Equal(t, float64(60), cfg.Display.WindowSeconds)
	assert.Equal(t, 0, cfg.Display.AverageSamples)
	assert.Equal(t, 1000, cfg.Display.MaxChartPoints)
	assert.Equal(t, 100*time.Millisecond, cfg.Mock.SampleRate)
	assert.Equal(t, 5*time.Minute, cfg.Mock.DriftPeriod)
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "COM3", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyACM0"

calibration:
  enabled: true
  point1:
    temp: 0
    unit: "C"
    reading: 278
  point2:
    temp: 373
    unit: "K"
    reading: 381

display:
  window_seconds: 30
  average_samples: 5
  max_chart_points: 500

mock:
  ambient_celsius: 21
  offset_counts: -4
  noise_counts: 1.5
  drift_celsius: 2
  drift_period: 2m
  sample_rate: 50ms
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.True(t, cfg.Calibration.Enabled)
	assert.Equal(t, uint16(278), cfg.Calibration.Point1.Reading)
	assert.Equal(t, "K", cfg.Calibration.Point2.Unit)
	assert.Equal(t, float64(30), cfg.Display.WindowSeconds)
	assert.Equal(t, 5, cfg.Display.AverageSamples)
	assert.Equal(t, 500, cfg.Display.MaxChartPoints)
	assert.Equal(t, float64(21), cfg.Mock.AmbientCelsius)
	assert.Equal(t, -4, cfg.Mock.OffsetCounts)
	assert.Equal(t, 2*time.Minute, cfg.Mock.DriftPeriod)
	assert.Equal(t, 50*time.Millisecond, cfg.Mock.SampleRate)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyACM0"
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// Should use defaults for missing fields
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, uint16(282), cfg.Calibration.Point1.Reading) // default
	assert.Equal(t, float64(60), cfg.Display.WindowSeconds)      // default
	assert.Equal(t, 100*time.Millisecond, cfg.Mock.SampleRate)   // default
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Display.WindowSeconds = 15

	tmpfile, err := os.CreateTemp("", "test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	err = cfg.Save(tmpfile.Name())
	require.NoError(t, err)

	// Load it back and verify
	loaded, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", loaded.Serial.Port)
	assert.Equal(t, float64(15), loaded.Display.WindowSeconds)
}

func TestCalibrationConfig_Points(t *testing.T) {
	tests := []struct {
		name    string
		cal     CalibrationConfig
		want1   chiptemp.CalPoint
		want2   chiptemp.CalPoint
		wantErr bool
	}{
		{
			name: "celsius points",
			cal: CalibrationConfig{
				Point1: PointConfig{Temp: 0, Unit: "C", Reading: 282},
				Point2: PointConfig{Temp: 37, Unit: "C", Reading: 317},
			},
			want1: chiptemp.PointK(273, 282),
			want2: chiptemp.PointK(310, 317),
		},
		{
			name: "mixed units",
			cal: CalibrationConfig{
				Point1: PointConfig{Temp: 32, Unit: "F", Reading: 280},
				Point2: PointConfig{Temp: 373, Unit: "K", Reading: 380},
			},
			want1: chiptemp.PointK(273, 280),
			want2: chiptemp.PointK(373, 380),
		},
		{
			name: "empty unit defaults to kelvin",
			cal: CalibrationConfig{
				Point1: PointConfig{Temp: 273, Reading: 280},
				Point2: PointConfig{Temp: 373, Reading: 380},
			},
			want1: chiptemp.PointK(273, 280),
			want2: chiptemp.PointK(373, 380),
		},
		{
			name: "unknown unit",
			cal: CalibrationConfig{
				Point1: PointConfig{Temp: 0, Unit: "R", Reading: 280},
				Point2: PointConfig{Temp: 100, Unit: "C", Reading: 380},
			},
			wantErr: true,
		},
		{
			name: "negative kelvin",
			cal: CalibrationConfig{
				Point1: PointConfig{Temp: -5, Unit: "K", Reading: 280},
				Point2: PointConfig{Temp: 100, Unit: "C", Reading: 380},
			},
			wantErr: true,
		},
		{
			name: "shared hardware reading",
			cal: CalibrationConfig{
				Point1: PointConfig{Temp: 0, Unit: "C", Reading: 300},
				Point2: PointConfig{Temp: 100, Unit: "C", Reading: 300},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p1, p2, err := tt.cal.Points()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want1, p1)
				assert.Equal(t, tt.want2, p2)
			}
		})
	}
}
