// Package config handles demo configuration loading and management.
package config

import "math"

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Scene    SceneConfig    `yaml:"scene"`
	Skin     SkinConfig     `yaml:"skin"`
	Run      RunConfig      `yaml:"run"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"` // tick rate when no window drives the loop

	ScreenshotDir    string `yaml:"screenshot_dir"`
	ScreenshotFormat string `yaml:"screenshot_format"` // png or bmp
}

// ShadowConfig describes the receiving plane and the light.
type ShadowConfig struct {
	Plane       PlaneConfig `yaml:"plane"`
	GroundLevel float32     `yaml:"ground_level"` // height of the visible ground surface
	Light       LightConfig `yaml:"light"`
}

// PlaneConfig is the plane normal·p + constant = 0.
type PlaneConfig struct {
	Normal   [3]float32 `yaml:"normal,flow"`
	Constant float32    `yaml:"constant"`
}

// LightConfig is a homogeneous light. W near 0 is sunlight, 1 a point light.
// When Sun is set it replaces X, Y and Z.
type LightConfig struct {
	X   float32    `yaml:"x"`
	Y   float32    `yaml:"y"`
	Z   float32    `yaml:"z"`
	W   float32    `yaml:"w"`
	Sun *SunConfig `yaml:"sun,omitempty"`
}

// SunConfig places the light by compass angles in degrees.
type SunConfig struct {
	Longitude float32 `yaml:"longitude"` // about Y, 0 faces +Z
	Latitude  float32 `yaml:"latitude"`  // elevation above the horizon
	Distance  float32 `yaml:"distance"`
}

// SceneConfig drives the orbiting cube.
type SceneConfig struct {
	CubeSize        float32 `yaml:"cube_size"`
	CubeZ           float32 `yaml:"cube_z"`
	OrbitRadius     float32 `yaml:"orbit_radius"`
	BobAmplitude    float32 `yaml:"bob_amplitude"`
	BobHeight       float32 `yaml:"bob_height"`
	HorizontalSpeed float32 `yaml:"horizontal_speed"` // radians per second
	VerticalSpeed   float32 `yaml:"vertical_speed"`   // radians per second
	SpinSpeed       float32 `yaml:"spin_speed"`       // radians per second on X and Y
}

// SkinConfig shapes the skinned cylinder and its bone chain.
type SkinConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Segments       int     `yaml:"segments"`
	Height         float32 `yaml:"height"`
	Radius         float32 `yaml:"radius"`
	RadialSegments int     `yaml:"radial_segments"`
	HeightSegments int     `yaml:"height_segments"`
	ThetaStart     float32 `yaml:"theta_start"`  // radians, where the arc begins
	ThetaLength    float32 `yaml:"theta_length"` // radians, 2π for a closed tube
	RootBend       float32 `yaml:"root_bend"`  // radians about X
	JointBend      float32 `yaml:"joint_bend"` // radians about X
}

// RunConfig selects how the loop is driven.
type RunConfig struct {
	Headless bool    `yaml:"headless"`
	Realtime bool    `yaml:"realtime"` // pace headless frames by the wall clock at fps_limit
	Frames   int     `yaml:"frames"`   // headless frame count
	Step     float64 `yaml:"step"`     // headless seconds per frame, unless realtime
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:    1280,
			Height:   720,
			VSync:    true,
			FPSLimit: 60,

			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
		},
		Shadow: ShadowConfig{
			Plane: PlaneConfig{
				Normal:   [3]float32{0, 1, 0},
				Constant: 0.01,
			},
			GroundLevel: -0.02,
			Light:       LightConfig{X: 5, Y: 7, Z: -1, W: 0.001},
		},
		Scene: SceneConfig{
			CubeSize:        1,
			CubeZ:           -1,
			OrbitRadius:     4,
			BobAmplitude:    2,
			BobHeight:       2.9,
			HorizontalSpeed: 0.5,
			VerticalSpeed:   1.5,
			SpinSpeed:       1,
		},
		Skin: SkinConfig{
			Enabled:        true,
			Segments:       4,
			Height:         5,
			Radius:         5,
			RadialSegments: 5,
			HeightSegments: 15,
			ThetaStart:     0,
			ThetaLength:    2 * math.Pi,
			RootBend:       -0.1,
			JointBend:      0.2,
		},
		Run: RunConfig{
			Frames: 600,
			Step:   1.0 / 60.0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
