package config

import (
	"fmt"
	"os"
	"time"

	"github.com/itohio/chiptemp/pkg/chiptemp"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Display     DisplayConfig     `yaml:"display"`
	Mock        MockConfig        `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
}

// CalibrationConfig holds the host-side calibration. When disabled the
// application trusts the temperature the firmware streams; when enabled
// the raw readings are re-mapped through these two points instead.
type CalibrationConfig struct {
	Enabled bool        `yaml:"enabled"`
	Point1  PointConfig `yaml:"point1"`
	Point2  PointConfig `yaml:"point2"`
}

// PointConfig is one calibration point: a reference temperature in the
// given unit (K, C or F) and the raw reading observed at it.
type PointConfig struct {
	Temp    int    `yaml:"temp"`
	Unit    string `yaml:"unit"`
	Reading uint16 `yaml:"reading"`
}

// DisplayConfig contains chart and averaging parameters.
type DisplayConfig struct {
	WindowSeconds  float64 `yaml:"window_seconds"`
	AverageSamples int     `yaml:"average_samples"` // Number of samples to average (0 = disabled, default)
	MaxChartPoints int     `yaml:"max_chart_points"`
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	AmbientCelsius float64       `yaml:"ambient_celsius"` // Simulated ambient temperature (°C)
	OffsetCounts   int           `yaml:"offset_counts"`   // Systematic sensor error (counts)
	NoiseCounts    float64       `yaml:"noise_counts"`    // Oscillation amplitude (counts)
	DriftCelsius   float64       `yaml:"drift_celsius"`   // Slow ambient drift amplitude (°C)
	DriftPeriod    time.Duration `yaml:"drift_period"`    // Period of the ambient drift
	SampleRate     time.Duration `yaml:"sample_rate"`     // Sample rate
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
		},
		Calibration: CalibrationConfig{
			Enabled: false,
			// Placeholder two-point calibration: ice water and body
			// temperature of a typical uncalibrated chip.
			Point1: PointConfig{Temp: 0, Unit: "C", Reading: 282},
			Point2: PointConfig{Temp: 37, Unit: "C", Reading: 317},
		},
		Display: DisplayConfig{
			WindowSeconds:  60,
			AverageSamples: 0, // No extra averaging by default
			MaxChartPoints: 1000,
		},
		Mock: MockConfig{
			AmbientCelsius: 24,
			OffsetCounts:   7,
			NoiseCounts:    2,
			DriftCelsius:   3,
			DriftPeriod:    5 * time.Minute,
			SampleRate:     100 * time.Millisecond, // 10 samples per second
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Points translates the configured calibration into chiptemp calibration
// points. It fails for an unknown unit or for points that share a raw
// reading, so a broken calibration is caught at load time rather than at
// the first converted sample.
func (c *CalibrationConfig) Points() (chiptemp.CalPoint, chiptemp.CalPoint, error) {
	p1, err := c.Point1.point()
	if err != nil {
		return chiptemp.CalPoint{}, chiptemp.CalPoint{}, fmt.Errorf("point1: %w", err)
	}
	p2, err := c.Point2.point()
	if err != nil {
		return chiptemp.CalPoint{}, chiptemp.CalPoint{}, fmt.Errorf("point2: %w", err)
	}
	if _, err := chiptemp.NewCalibration(p1, p2); err != nil {
		return chiptemp.CalPoint{}, chiptemp.CalPoint{}, err
	}
	return p1, p2, nil
}

func (p *PointConfig) point() (chiptemp.CalPoint, error) {
	switch p.Unit {
	case "K", "k", "":
		if p.Temp < 0 {
			return chiptemp.CalPoint{}, fmt.Errorf("negative Kelvin temperature %d", p.Temp)
		}
		return chiptemp.PointK(uint16(p.Temp), p.Reading), nil
	case "C", "c":
		return chiptemp.PointC(p.Temp, p.Reading), nil
	case "F", "f":
		return chiptemp.PointF(p.Temp, p.Reading), nil
	default:
		return chiptemp.CalPoint{}, fmt.Errorf("unknown temperature unit %q", p.Unit)
	}
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}

	if c.Calibration.Point1.Reading == 0 && c.Calibration.Point2.Reading == 0 {
		c.Calibration.Point1 = def.Calibration.Point1
		c.Calibration.Point2 = def.Calibration.Point2
	}

	if c.Display.WindowSeconds == 0 {
		c.Display.WindowSeconds = def.Display.WindowSeconds
	}
	if c.Display.MaxChartPoints == 0 {
		c.Display.MaxChartPoints = def.Display.MaxChartPoints
	}

	if c.Mock.AmbientCelsius == 0 {
		c.Mock.AmbientCelsius = def.Mock.AmbientCelsius
	}
	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
	if c.Mock.DriftPeriod == 0 {
		c.Mock.DriftPeriod = def.Mock.DriftPeriod
	}
}
