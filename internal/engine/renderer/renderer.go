// Package renderer draws the scene's meshes and their flattened shadows with
// OpenGL. Everything is unlit and single coloured.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/flatshadow/internal/engine/debug"
	"github.com/Faultbox/flatshadow/internal/engine/scene"
	"github.com/Faultbox/flatshadow/internal/engine/shader"
	"github.com/Faultbox/flatshadow/internal/logger"
	"github.com/Faultbox/flatshadow/pkg/math"
)

// ShadowOpacity is the alpha of the black shadow overlay.
const ShadowOpacity = 0.6

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background uint32 // 0xRRGGBB

	// Capture saves frames requested with RequestScreenshot. Nil disables it.
	Capture *debug.ScreenshotCapture
}

// DefaultBackground is the sky colour.
const DefaultBackground = 0x0096ff

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	program *shader.Program
	mvpLoc  int32
	colLoc  int32

	// One streaming buffer pair reused by every draw.
	vao uint32
	vbo uint32
	ebo uint32

	screenshotPending bool
}

const vertexShaderSource = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uMVP;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
}
`

const fragmentShaderSource = `
#version 410 core

uniform vec4 uColor;

out vec4 FragColor;

void main() {
	FragColor = uColor;
}
`

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	bg := RGBA(cfg.Background, 1)
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])

	var err error
	r.program, err = shader.CompileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	if r.mvpLoc, err = r.program.Uniform("uMVP"); err != nil {
		r.Close()
		return nil, err
	}
	if r.colLoc, err = r.program.Uniform("uColor"); err != nil {
		r.Close()
		return nil, err
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BindVertexArray(0)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Render draws every opaque mesh, then blends the shadows over them. The
// stencil keeps overlapping shadow triangles from darkening a pixel twice.
func (r *Renderer) Render(viewProj math.Mat4, draws []scene.Draw) error {
	gl.ClearStencil(0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)

	r.program.Use()
	gl.BindVertexArray(r.vao)
	defer gl.BindVertexArray(0)

	for _, d := range draws {
		if !d.Shadow {
			r.draw(viewProj, d, RGBA(d.Color, 1))
		}
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	gl.Enable(gl.STENCIL_TEST)
	gl.StencilFunc(gl.EQUAL, 0, 0xff)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.INCR)

	shadowColor := [4]float32{0, 0, 0, ShadowOpacity}
	for _, d := range draws {
		if d.Shadow {
			r.draw(viewProj, d, shadowColor)
		}
	}

	gl.Disable(gl.STENCIL_TEST)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}

	if r.screenshotPending {
		r.screenshotPending = false
		r.saveScreenshot()
	}
	return nil
}

// RequestScreenshot captures the next rendered frame.
func (r *Renderer) RequestScreenshot() {
	if r.config.Capture == nil {
		r.log.Warn("screenshots disabled")
		return
	}
	r.screenshotPending = true
}

// saveScreenshot reads back the back buffer. A failed capture is logged and
// never fails the frame.
func (r *Renderer) saveScreenshot() {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	path, err := r.config.Capture.CaptureFromPixels(pixels, w, h)
	if err != nil {
		r.log.Error("screenshot failed", zap.Error(err))
		return
	}
	r.log.Info("screenshot saved", zap.String("path", path))
}

// draw uploads a mesh into the streaming buffers and draws it. Meshes are
// small and the skinned one changes every frame, so nothing is cached.
func (r *Renderer) draw(viewProj math.Mat4, d scene.Draw, color [4]float32) {
	m := d.Mesh
	if m == nil || len(m.Positions) == 0 || len(m.Indices) == 0 {
		return
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Positions)*int(unsafe.Sizeof(m.Positions[0])), unsafe.Pointer(&m.Positions[0]), gl.STREAM_DRAW)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STREAM_DRAW)

	mvp := viewProj.Mul(d.Model)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, mvp.Ptr())
	gl.Uniform4f(r.colLoc, color[0], color[1], color[2], color[3])

	gl.DrawElements(gl.TRIANGLES, int32(len(m.Indices)), gl.UNSIGNED_INT, nil)
}

// RGBA expands a 0xRRGGBB colour.
func RGBA(hex uint32, alpha float32) [4]float32 {
	return [4]float32{
		float32(hex>>16&0xff) / 255,
		float32(hex>>8&0xff) / 255,
		float32(hex&0xff) / 255,
		alpha,
	}
}
