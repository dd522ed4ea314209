package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestIsKeyPressed(t *testing.T) {
	in := New()
	in.events = append(in.events,
		Event{Type: EventWindowResize, Width: 640, Height: 480},
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_F12},
	)

	assert.True(t, in.IsKeyPressed(sdl.SCANCODE_F12))
	assert.False(t, in.IsKeyPressed(sdl.SCANCODE_ESCAPE))
	// A resize carries no key.
	assert.False(t, in.IsKeyPressed(0))
}

func TestLastResizeKeepsFinal(t *testing.T) {
	in := New()
	_, _, ok := in.LastResize()
	assert.False(t, ok)

	in.events = append(in.events,
		Event{Type: EventWindowResize, Width: 640, Height: 480},
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_F12},
		Event{Type: EventWindowResize, Width: 800, Height: 600},
	)
	w, h, ok := in.LastResize()
	assert.True(t, ok)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}
