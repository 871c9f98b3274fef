package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    RawSample
		wantErr bool
	}{
		{
			name: "valid line - typical room temperature",
			line: "1234567890123,297,297",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Raw:       297,
				Kelvin:    297,
			},
			wantErr: false,
		},
		{
			name: "valid line - calibrated kelvin differs from raw",
			line: "1234567890123,305,298",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Raw:       305,
				Kelvin:    298,
			},
			wantErr: false,
		},
		{
			name: "valid line - max ADC value",
			line: "1234567890123,1023,1023",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Raw:       1023,
				Kelvin:    1023,
			},
			wantErr: false,
		},
		{
			name: "valid line - calibration pushes kelvin past raw range",
			line: "1234567890123,1023,1050",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Raw:       1023,
				Kelvin:    1050,
			},
			wantErr: false,
		},
		{
			name:    "invalid - wrong number of fields",
			line:    "1234567890123,297",
			wantErr: true,
		},
		{
			name:    "invalid - too many fields",
			line:    "1234567890123,297,298,extra",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric timestamp",
			line:    "abc,297,298",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric raw reading",
			line:    "1234567890123,abc,298",
			wantErr: true,
		},
		{
			name:    "invalid - raw reading out of range",
			line:    "1234567890123,1024,298",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric temperature",
			line:    "1234567890123,297,abc",
			wantErr: true,
		},
		{
			name:    "invalid - negative raw reading",
			line:    "1234567890123,-5,298",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want.Timestamp.UnixNano(), got.Timestamp.UnixNano())
				assert.Equal(t, tt.want.Raw, got.Raw)
				assert.Equal(t, tt.want.Kelvin, got.Kelvin)
			}
		})
	}
}

func TestNew(t *testing.T) {
	dev := New("COM3", 115200, 100)
	assert.NotNil(t, dev)
	assert.Equal(t, "COM3", dev.port)
	assert.Equal(t, 115200, dev.baudRate)
	assert.Equal(t, 100, dev.bufSize)
	assert.NotNil(t, dev.samples)
	assert.False(t, dev.IsConnected())
}

func TestNew_Defaults(t *testing.T) {
	dev := New("COM3", 0, 0)
	assert.NotNil(t, dev)
	assert.Equal(t, DefaultBaudRate, dev.baudRate)
	assert.Equal(t, DefaultBufferSize, dev.bufSize)
}

func TestSerial_IsConnected(t *testing.T) {
	dev := New("COM3", 115200, 100)
	assert.False(t, dev.IsConnected())
}

func TestSerial_Close_NotConnected(t *testing.T) {
	dev := New("COM3", 115200, 100)
	assert.NoError(t, dev.Close())
}
