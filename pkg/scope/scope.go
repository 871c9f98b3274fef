package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/chiptemp/pkg/config"
	"github.com/itohio/chiptemp/pkg/history"
	"github.com/itohio/chiptemp/pkg/sample"
)

// ScopeWidget is a custom Fyne widget that draws a strip chart of chip
// temperature over time, with session min/peak readouts.
type ScopeWidget struct {
	widget.BaseWidget

	cfg *config.Config

	// Data (protected by mu)
	mu      sync.RWMutex
	samples []sample.Sample
	stats   history.Stats

	// Display buffer (reused for downsampling)
	displaySamples []sample.Sample

	// Auto-scaling, in degrees Celsius
	yMin, yMax float64
	xMin, xMax time.Time

	// Display settings
	maxDisplayPoints int
}

// New creates a new ScopeWidget instance.
func New(cfg *config.Config) *ScopeWidget {
	maxPoints := cfg.Display.MaxChartPoints
	if maxPoints <= 0 {
		maxPoints = 1000
	}
	s := &ScopeWidget{
		cfg:              cfg,
		samples:          make([]sample.Sample, 0),
		displaySamples:   make([]sample.Sample, 0, maxPoints),
		maxDisplayPoints: maxPoints,
	}
	s.ExtendBaseWidget(s)
	// Trigger initial refresh to display empty scope
	s.Refresh()
	return s
}

// UpdateData updates the widget with new measurement data.
// This should be called from the history callback using fyne.Do().
func (s *ScopeWidget) UpdateData(samples []sample.Sample, stats history.Stats) {
	s.mu.Lock()

	// Downsample for display (reuse buffer)
	s.displaySamples = sample.Downsample(s.displaySamples, samples, s.maxDisplayPoints)

	// Store full data
	s.samples = samples
	s.stats = stats

	// Calculate auto-scaling
	s.updateAutoScale()

	s.mu.Unlock()

	// Refresh the widget (must be outside lock to avoid potential deadlock)
	s.Refresh()
}

// updateAutoScale calculates the axis ranges from current data.
func (s *ScopeWidget) updateAutoScale() {
	if len(s.displaySamples) == 0 {
		s.yMin = 0.0
		s.yMax = 50.0
		s.xMin = time.Now()
		s.xMax = time.Now().Add(10 * time.Second)
		return
	}

	// Find min/max temperature
	s.yMin = float64(s.displaySamples[0].Celsius)
	s.yMax = float64(s.displaySamples[0].Celsius)
	for _, smp := range s.displaySamples {
		c := float64(smp.Celsius)
		if c < s.yMin {
			s.yMin = c
		}
		if c > s.yMax {
			s.yMax = c
		}
	}

	// Add 10% margin. Readings hold within a couple of counts at steady
	// ambient, so keep at least a few degrees of range.
	range_ := s.yMax - s.yMin
	if range_ < 4.0 {
		range_ = 4.0
	}
	margin := range_ * 0.1
	mid := (s.yMin + s.yMax) / 2
	s.yMin = mid - range_/2 - margin
	s.yMax = mid + range_/2 + margin

	// Time range
	s.xMin = s.displaySamples[0].Timestamp
	s.xMax = s.displaySamples[len(s.displaySamples)-1].Timestamp
	// Ensure minimum window
	if s.xMax.Sub(s.xMin) < time.Duration(s.cfg.Display.WindowSeconds)*time.Second {
		s.xMax = s.xMin.Add(time.Duration(s.cfg.Display.WindowSeconds) * time.Second)
	}
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &scopeRenderer{
		scope:    s,
		grid:     grid,
		objects:  []fyne.CanvasObject{grid},
		lastSize: fyne.Size{Width: 0, Height: 0},
	}
}
