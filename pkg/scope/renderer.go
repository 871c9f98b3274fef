package scope

import (
	"image/color"
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/chiptemp/pkg/chiptemp"
	"github.com/itohio/chiptemp/pkg/history"
	"github.com/itohio/chiptemp/pkg/sample"
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	// Background
	grid *canvas.Rectangle

	// Temperature trace
	sampleLine *canvas.Line

	// Session min/peak readout
	statsLabel *canvas.Text

	// Grid lines
	gridLines []*canvas.Line
	gridTexts []*canvas.Text

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	// Background fills entire widget
	r.grid.Resize(size)

	// Check if size changed
	if r.lastSize.Width != size.Width || r.lastSize.Height != size.Height {
		r.lastSize = size
		// Size changed, trigger widget refresh to redraw with new dimensions
		// Use BaseWidget.Refresh() to properly trigger Fyne's refresh cycle
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh updates the widget display.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	samples := r.scope.displaySamples
	stats := r.scope.stats
	yMin := r.scope.yMin
	yMax := r.scope.yMax
	xMin := r.scope.xMin
	xMax := r.scope.xMax
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	// Clear old objects (but keep grid)
	r.objects = []fyne.CanvasObject{r.grid}
	r.gridLines = r.gridLines[:0]
	r.gridTexts = r.gridTexts[:0]
	r.statsLabel = nil

	// Calculate margins
	marginLeft := float32(60.0)
	marginRight := float32(20.0)
	marginTop := float32(20.0)
	marginBottom := float32(40.0)

	plotWidth := size.Width - marginLeft - marginRight
	plotHeight := size.Height - marginTop - marginBottom
	plotX := marginLeft
	plotY := marginTop

	// Draw grid
	r.drawGrid(plotX, plotY, plotWidth, plotHeight, yMin, yMax, xMin, xMax)

	// Draw temperature trace (orange line)
	if len(samples) > 1 {
		r.drawSampleLine(plotX, plotY, plotWidth, plotHeight, samples, yMin, yMax, xMin, xMax)
	}

	// Draw session min/peak readout
	if stats.Valid {
		r.drawStats(plotX, plotY, stats)
	}
}

// drawGrid draws the strip-chart grid with axis labels.
func (r *scopeRenderer) drawGrid(plotX, plotY, plotWidth, plotHeight float32, yMin, yMax float64, xMin, xMax time.Time) {
	// Horizontal grid lines (temperature)
	numHLines := 8
	for i := 0; i < numHLines+1; i++ {
		y := plotY + float32(i)*plotHeight/float32(numHLines)
		line := canvas.NewLine(color.RGBA{R: 40, G: 40, B: 40, A: 255})
		line.Position1 = fyne.NewPos(plotX, y)
		line.Position2 = fyne.NewPos(plotX+plotWidth, y)
		line.StrokeWidth = 1
		r.gridLines = append(r.gridLines, line)
		r.objects = append(r.objects, line)

		// Y-axis label
		value := yMax - float64(i)*(yMax-yMin)/float64(numHLines)
		text := canvas.NewText(formatTemp(value), color.RGBA{R: 150, G: 150, B: 150, A: 255})
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(plotX-5, y-6))
		r.gridTexts = append(r.gridTexts, text)
		r.objects = append(r.objects, text)
	}

	// Vertical grid lines (time)
	numVLines := 10
	for i := 0; i < numVLines+1; i++ {
		x := plotX + float32(i)*plotWidth/float32(numVLines)
		line := canvas.NewLine(color.RGBA{R: 40, G: 40, B: 40, A: 255})
		line.Position1 = fyne.NewPos(x, plotY)
		line.Position2 = fyne.NewPos(x, plotY+plotHeight)
		line.StrokeWidth = 1
		r.gridLines = append(r.gridLines, line)
		r.objects = append(r.objects, line)

		// X-axis label
		timeOffset := float64(i) * xMax.Sub(xMin).Seconds() / float64(numVLines)
		timeVal := xMin.Add(time.Duration(timeOffset * float64(time.Second)))
		text := canvas.NewText(formatTime(timeVal.Sub(xMin)), color.RGBA{R: 150, G: 150, B: 150, A: 255})
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, plotY+plotHeight+5))
		r.gridTexts = append(r.gridTexts, text)
		r.objects = append(r.objects, text)
	}
}

// drawSampleLine draws the temperature curve (orange).
func (r *scopeRenderer) drawSampleLine(plotX, plotY, plotWidth, plotHeight float32, samples []sample.Sample, yMin, yMax float64, xMin, xMax time.Time) {
	if len(samples) < 2 {
		return
	}

	points := make([]fyne.Position, 0, len(samples))
	for _, s := range samples {
		x := plotX + float32(s.Timestamp.Sub(xMin).Seconds()/xMax.Sub(xMin).Seconds())*plotWidth
		y := plotY + plotHeight - float32((float64(s.Celsius)-yMin)/(yMax-yMin))*plotHeight
		points = append(points, fyne.NewPos(x, y))
	}

	// Draw connected line segments
	for i := 0; i < len(points)-1; i++ {
		line := canvas.NewLine(color.RGBA{R: 255, G: 165, B: 0, A: 255}) // Orange
		line.Position1 = points[i]
		line.Position2 = points[i+1]
		line.StrokeWidth = 1.5
		r.objects = append(r.objects, line)
	}
}

// drawStats draws the session min/peak readout in the top-left corner.
func (r *scopeRenderer) drawStats(plotX, plotY float32, stats history.Stats) {
	minC := chiptemp.KelvinToCelsius(stats.Min)
	peakC := chiptemp.KelvinToCelsius(stats.Peak)
	label := "min " + formatTemp(float64(minC)) + "  peak " + formatTemp(float64(peakC))

	text := canvas.NewText(label, color.RGBA{R: 200, G: 200, B: 200, A: 255}) // Light gray
	text.TextSize = 11
	text.Alignment = fyne.TextAlignLeading
	text.Move(fyne.NewPos(plotX+10, plotY+10))
	r.statsLabel = text
	r.objects = append(r.objects, text)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {
	// Cleanup handled by Fyne
}

// Helper functions for formatting

func formatTemp(c float64) string {
	return formatFloat(c, 0) + "°C"
}

func formatTime(d time.Duration) string {
	if d < time.Second {
		return formatFloat(d.Seconds(), 2) + "s"
	}
	return formatFloat(d.Seconds(), 1) + "s"
}

func formatFloat(v float64, decimals int) string {
	str := ""
	if v < 0 {
		str = "-"
		v = -v
	}
	intPart := int64(v)
	str += formatInt(intPart)
	if decimals > 0 {
		frac := v - float64(intPart)
		fracStr := formatInt(int64(math.Round(frac * math.Pow(10, float64(decimals)))))
		// Pad with zeros
		for len(fracStr) < decimals {
			fracStr = "0" + fracStr
		}
		str += "." + fracStr
	}
	return str
}

func formatInt(v int64) string {
	if v == 0 {
		return "0"
	}
	str := ""
	neg := v < 0
	if neg {
		v = -v
	}
	for v > 0 {
		str = string(rune('0'+v%10)) + str
		v /= 10
	}
	if neg {
		str = "-" + str
	}
	return str
}
