// Package chiptemp reads the on-chip temperature sensor of the MCU itself.
//
// The sensor delivers a 10-bit reading that is linear with the die
// temperature but carries a large initial tolerance (about ±10°) and
// oscillates by ±1..2 counts between acquisitions. This package smooths
// the oscillation with a fixed 5-sample moving average and maps the
// averaged reading to Kelvin through a two-point linear calibration.
//
// Everything is integer arithmetic. The package has no dependencies
// beyond the standard library so it compiles for 8-bit AVR targets
// under TinyGo as well as for the host.
//
// The tracker is single-threaded by contract: one goroutine owns it and
// calls Tick on its own cadence, the way an embedded control loop would.
package chiptemp

// Kelvin temperatures are kept in uint16 to match the bit width of the
// hardware readings.

const (
	// CelsiusZeroK is 0°C in Kelvin. The fraction is ignored - the
	// sensor is not accurate enough for it to matter.
	CelsiusZeroK = 273

	// FahrenheitZeroC is 0°C expressed in Fahrenheit.
	FahrenheitZeroC = 32
)

// KelvinToCelsius converts an absolute temperature to Celsius.
func KelvinToCelsius(kelvin uint16) int {
	return int(kelvin) - CelsiusZeroK
}

// CelsiusToKelvin converts a Celsius temperature to Kelvin.
func CelsiusToKelvin(celsius int) uint16 {
	return uint16(celsius + CelsiusZeroK)
}

// CelsiusToFahrenheit converts a Celsius temperature to Fahrenheit,
// truncating toward zero.
func CelsiusToFahrenheit(celsius int) int {
	return celsius*9/5 + FahrenheitZeroC
}

// FahrenheitToCelsius converts a Fahrenheit temperature to Celsius,
// truncating toward zero.
func FahrenheitToCelsius(fahrenheit int) int {
	return (fahrenheit - FahrenheitZeroC) * 5 / 9
}

// KelvinToFahrenheit converts an absolute temperature to Fahrenheit.
func KelvinToFahrenheit(kelvin uint16) int {
	return CelsiusToFahrenheit(KelvinToCelsius(kelvin))
}

// FahrenheitToKelvin converts a Fahrenheit temperature to Kelvin.
func FahrenheitToKelvin(fahrenheit int) uint16 {
	return CelsiusToKelvin(FahrenheitToCelsius(fahrenheit))
}
