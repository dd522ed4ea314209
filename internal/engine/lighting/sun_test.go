package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float32
		x, y, z  float32
	}{
		{"horizon facing +Z", 0, 0, 0, 0, 1},
		{"horizon facing +X", 90, 0, 1, 0, 0},
		{"zenith", 123, 90, 0, 1, 0},
		{"behind", 180, 0, 0, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := SunDirection(tt.lon, tt.lat)
			assert.InDelta(t, tt.x, d.X, 1e-6)
			assert.InDelta(t, tt.y, d.Y, 1e-6)
			assert.InDelta(t, tt.z, d.Z, 1e-6)
			assert.InDelta(t, 1, d.Length(), 1e-6)
		})
	}
}

func TestSunPosition(t *testing.T) {
	p := SunPosition(45, 30, 10)
	assert.InDelta(t, 10, p.Length(), 1e-5)
	assert.InDelta(t, 5, p.Y, 1e-5)
	assert.InDelta(t, p.X, p.Z, 1e-5)
}
