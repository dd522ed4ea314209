package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFPSMeter(t *testing.T) {
	var m fpsMeter

	for i := 0; i < 63; i++ {
		_, ok := m.add(1.0 / 64)
		assert.False(t, ok, "frame %d", i)
	}
	fps, ok := m.add(1.0 / 64)
	assert.True(t, ok)
	assert.InDelta(t, 64, fps, 1e-9)

	// A long stall reports on its own and resets the window.
	fps, ok = m.add(2)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, fps, 1e-9)

	_, ok = m.add(0.5)
	assert.False(t, ok)
}

func TestFPSTitle(t *testing.T) {
	assert.Equal(t, "FlatShadow - 60 fps", fpsTitle("FlatShadow", 59.7))
}
