// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/blockwalk/internal/engine/camera"
	"github.com/Faultbox/blockwalk/internal/engine/debug"
	"github.com/Faultbox/blockwalk/internal/engine/input"
	"github.com/Faultbox/blockwalk/internal/engine/rig"
	"github.com/Faultbox/blockwalk/internal/engine/scene"
	"github.com/Faultbox/blockwalk/internal/engine/terrain"
	"github.com/Faultbox/blockwalk/internal/logger"
)

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig        `yaml:"window"`
	Assets     AssetsConfig        `yaml:"assets"`
	Camera     camera.Config       `yaml:"camera"`
	Character  CharacterConfig     `yaml:"character"`
	Terrain    TerrainConfig       `yaml:"terrain"`
	Light      scene.Light         `yaml:"light"`
	Keys       map[string][]string `yaml:"keys"`
	Screenshot ScreenshotConfig    `yaml:"screenshot"`
	Logging    logger.Config       `yaml:"logging"`
}

// WindowConfig holds display and projection settings.
type WindowConfig struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FOV        float32    `yaml:"fov"` // vertical, degrees
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	ClearColor [4]float32 `yaml:"clear_color"`
}

// AssetsConfig locates models, textures and optional shader overrides.
type AssetsConfig struct {
	Root           string `yaml:"root"`
	VertexShader   string `yaml:"vertex_shader"`
	FragmentShader string `yaml:"fragment_shader"`
}

// CharacterConfig places and animates the character.
type CharacterConfig struct {
	Model    string         `yaml:"model"`
	Position [3]float32     `yaml:"position"`
	Skeleton map[string]int `yaml:"skeleton"` // part name -> mesh index; empty uses file order
	Rig      rig.Config     `yaml:"rig"`
}

// TerrainConfig drives the procedural ground.
type TerrainConfig struct {
	TileModel string                `yaml:"tile_model"`
	Seed      int64                 `yaml:"seed"`
	Field     terrain.FieldConfig   `yaml:"field"`
	Grid      terrain.BuilderConfig `yaml:"grid"`
}

// ScreenshotConfig holds frame capture settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Format string `yaml:"format"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "blockwalk",
			Width:      400,
			Height:     400,
			Fullscreen: false,
			VSync:      true,
			FOV:        45,
			Near:       1,
			Far:        100,
			ClearColor: [4]float32{0, 0, 0, 1},
		},
		Assets: AssetsConfig{
			Root: "assets",
		},
		Camera: camera.DefaultConfig(),
		Character: CharacterConfig{
			Model:    "models/steve.obj",
			Position: [3]float32{0.5, -4, 0},
			Rig:      rig.DefaultConfig(),
		},
		Terrain: TerrainConfig{
			TileModel: "models/grass_block.obj",
			Seed:      0,
			Field:     terrain.DefaultFieldConfig(),
			Grid:      terrain.DefaultBuilderConfig(),
		},
		Light: scene.DefaultLight(),
		Keys:  input.DefaultKeys(),
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Prefix: "blockwalk",
			Format: debug.FormatWebP,
		},
		Logging: logger.DefaultConfig(),
	}
}

// Validate reports settings the viewer cannot start with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.Near <= 0 || c.Window.Far <= c.Window.Near {
		return fmt.Errorf("invalid depth range near=%v far=%v", c.Window.Near, c.Window.Far)
	}
	if c.Character.Model == "" {
		return fmt.Errorf("character model path is empty")
	}
	if c.Terrain.TileModel == "" {
		return fmt.Errorf("terrain tile model path is empty")
	}
	if _, err := input.ParseBindings(c.Keys); err != nil {
		return fmt.Errorf("keys: %w", err)
	}
	if _, err := rig.ParseSkeleton(c.Character.Skeleton); err != nil {
		return fmt.Errorf("character skeleton: %w", err)
	}
	switch c.Screenshot.Format {
	case debug.FormatWebP, debug.FormatPNG:
	default:
		return fmt.Errorf("unknown screenshot format %q", c.Screenshot.Format)
	}
	return nil
}
