package chiptemp

import "fmt"

// CalPoint is one calibration point of the temperature sensor: the
// temperature measured by an external master thermometer, paired with
// the raw hardware reading observed at that temperature.
type CalPoint struct {
	TempK     uint16 // reference temperature, Kelvin
	HWReading uint16 // raw reading at TempK
}

// PointK builds a calibration point from a Kelvin reference temperature.
func PointK(tempK, hwReading uint16) CalPoint {
	return CalPoint{TempK: tempK, HWReading: hwReading}
}

// PointC builds a calibration point from a Celsius reference temperature.
func PointC(tempC int, hwReading uint16) CalPoint {
	return CalPoint{TempK: CelsiusToKelvin(tempC), HWReading: hwReading}
}

// PointF builds a calibration point from a Fahrenheit reference temperature.
func PointF(tempF int, hwReading uint16) CalPoint {
	return CalPoint{TempK: FahrenheitToKelvin(tempF), HWReading: hwReading}
}

// Calibration maps raw hardware readings to Kelvin by linear
// interpolation between two calibration points. Build one with
// NewCalibration; the zero value is the identity mapping, which reports
// the raw reading unchanged.
type Calibration struct {
	p1, p2 CalPoint
}

// NewCalibration builds a calibration from two points. The points may be
// supplied in either order; the interpolation is sign-correct both ways
// because numerator and denominator flip together.
//
// Points with equal hardware readings describe a vertical line and are
// rejected here so that Kelvin never divides by zero.
func NewCalibration(p1, p2 CalPoint) (Calibration, error) {
	if p1.HWReading == p2.HWReading {
		return Calibration{}, fmt.Errorf("calibration points share hardware reading %d", p1.HWReading)
	}
	if p1.HWReading > p2.HWReading {
		// Store the lower reading first. The truncating division
		// rounds toward the anchor point, so without a fixed anchor
		// the two argument orders could differ by one degree.
		p1, p2 = p2, p1
	}
	return Calibration{p1: p1, p2: p2}, nil
}

// Kelvin maps a raw reading to Kelvin. Intermediate math is int32 so the
// cross-multiplication of reading and temperature differences cannot
// overflow the 16-bit value range.
func (c Calibration) Kelvin(raw uint16) uint16 {
	if c.p1.HWReading == c.p2.HWReading {
		// Identity (zero value). NewCalibration never produces this.
		return raw
	}
	num := (int32(raw) - int32(c.p1.HWReading)) * (int32(c.p2.TempK) - int32(c.p1.TempK))
	den := int32(c.p2.HWReading) - int32(c.p1.HWReading)
	return uint16(num/den + int32(c.p1.TempK))
}
