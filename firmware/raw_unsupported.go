//go:build avr && !atmega32u4

package main

// The on-chip temperature sensor only exists on the ATmega32U4. Refuse
// to build for other AVR chips rather than stream some random channel.
var _ = onChipTemperatureSensorRequiresATmega32U4
