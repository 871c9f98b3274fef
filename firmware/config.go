package main

const (
	// Sampling configuration
	SAMPLE_INTERVAL_MS = 20  // One tracker tick every 20ms fills the 5-slot window in 100ms
	OUTPUT_INTERVAL_MS = 100 // Stream one averaged line every 100ms (10 lines/sec)

	// Factory calibration of this particular chip, measured against ice
	// water and body temperature. The sensor reads roughly Kelvin with a
	// per-chip offset of up to ten degrees or so.
	CAL_POINT1_CELSIUS = 0
	CAL_POINT1_READING = 282
	CAL_POINT2_CELSIUS = 37
	CAL_POINT2_READING = 317

	// Serial configuration
	// Format "unix_micros,raw,kelvin\n"
	// Example: "1234567890123456,305,298\n" = ~25 bytes max per line
	// 10 outputs/sec * 25 bytes/line = 250 bytes/sec
	// UART 8N1: 10 bits/byte = 2,500 baud minimum. 115200 provides huge headroom.
	UART_BAUD_RATE = 115200
)
