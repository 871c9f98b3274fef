//go:build avr && atmega32u4

package main

import "device/avr"

// readTemperatureSensor performs one acquisition of the on-chip
// temperature sensor.
//
// The sensor sits on ADC channel 100111 against the internal 2.56V
// reference. The first conversion after switching channel and reference
// is unreliable, so it is discarded; after a short settle the second
// conversion is the one reported. ADCL must be read before ADCH.
func readTemperatureSensor() uint16 {
	// Internal 2.56V reference, channel low bits 00111
	avr.ADMUX.Set(avr.ADMUX_REFS1 | avr.ADMUX_REFS0 | 0x07)
	// MUX5 selects the upper half of the channel map
	avr.ADCSRB.SetBits(avr.ADCSRB_MUX5)
	// The runtime may have left the ADC disabled
	avr.ADCSRA.SetBits(avr.ADCSRA_ADEN)

	// Throwaway conversion while the reference settles
	runConversion()
	_ = avr.ADCL.Get()
	_ = avr.ADCH.Get()

	// ~2us settle
	for i := 0; i < 32; i++ {
		avr.Asm("nop")
	}

	// The conversion that counts
	runConversion()
	low := uint16(avr.ADCL.Get()) // reading ADCL locks ADCH until it is read too
	high := uint16(avr.ADCH.Get())
	return high<<8 | low
}

func runConversion() {
	avr.ADCSRA.SetBits(avr.ADCSRA_ADSC)
	for avr.ADCSRA.HasBits(avr.ADCSRA_ADSC) {
	}
}
