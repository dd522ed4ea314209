package game

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/flatshadow/internal/config"
)

func TestOrbitAtRest(t *testing.T) {
	o := NewOrbit(config.Default().Scene)

	p := o.Position()
	assert.InDelta(t, 0, p.X, 1e-6)
	assert.InDelta(t, 2.9, p.Y, 1e-6)
	assert.InDelta(t, -1, p.Z, 1e-6)
}

func TestOrbitAdvance(t *testing.T) {
	o := NewOrbit(config.Default().Scene)

	// Horizontal runs at 0.5 rad/s, vertical at 1.5 rad/s.
	o.Advance(math32.Pi)

	assert.InDelta(t, math32.Pi/2, o.Horizontal, 1e-5)
	assert.InDelta(t, 1.5*math32.Pi, o.Vertical, 1e-5)
	assert.InDelta(t, math32.Pi, o.Spin, 1e-5)

	p := o.Position()
	assert.InDelta(t, 4, p.X, 1e-5)
	assert.InDelta(t, 0.9, p.Y, 1e-5)
}

func TestOrbitWraps(t *testing.T) {
	o := NewOrbit(config.Default().Scene)

	for i := 0; i < 10000; i++ {
		o.Advance(1.0 / 60)
		for _, a := range []float32{o.Horizontal, o.Vertical, o.Spin} {
			if a < 0 || a >= twoPi {
				t.Fatalf("angle %v escaped [0, 2π) at step %d", a, i)
			}
		}
	}

	o.Advance(100)
	assert.Less(t, o.Vertical, float32(twoPi))
}

func TestOrbitTransform(t *testing.T) {
	o := NewOrbit(config.Default().Scene)
	o.Advance(0.7)

	m := o.Transform()
	assert.Equal(t, o.Position(), m.Translation())
	assert.True(t, m.IsFinite())
}
