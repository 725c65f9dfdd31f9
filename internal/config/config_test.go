package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func parseTestFlags(t *testing.T, args ...string) *flagValues {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := newFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return f
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 400 || cfg.Window.Height != 400 {
		t.Errorf("expected 400x400 window, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.FOV != 45 || cfg.Window.Near != 1 || cfg.Window.Far != 100 {
		t.Errorf("unexpected projection %v/%v/%v", cfg.Window.FOV, cfg.Window.Near, cfg.Window.Far)
	}
	if cfg.Character.Position != [3]float32{0.5, -4, 0} {
		t.Errorf("unexpected character position %v", cfg.Character.Position)
	}
	if cfg.Character.Rig.IdleFrames != 300 {
		t.Errorf("expected 300 idle frames, got %d", cfg.Character.Rig.IdleFrames)
	}
	if cfg.Terrain.Grid.Width != 64 || cfg.Terrain.Grid.Depth != 64 {
		t.Errorf("expected 64x64 terrain, got %dx%d", cfg.Terrain.Grid.Width, cfg.Terrain.Grid.Depth)
	}
	if cfg.Terrain.Field.Bias != -6 {
		t.Errorf("expected bias -6, got %v", cfg.Terrain.Field.Bias)
	}
	if cfg.Light.Ambient[0] != 0.3 {
		t.Errorf("expected ambient 0.3, got %v", cfg.Light.Ambient[0])
	}
	if cfg.Camera.FollowDistance != 15 {
		t.Errorf("expected follow distance 15, got %v", cfg.Camera.FollowDistance)
	}
	if cfg.Screenshot.Format != "webp" {
		t.Errorf("expected webp screenshots, got %s", cfg.Screenshot.Format)
	}
	if cfg.Logging.Level != "info" || !cfg.Logging.Console {
		t.Errorf("unexpected logging defaults %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)

	yamlContent := `
window:
  width: 1024
  height: 768
  fullscreen: true
character:
  model: models/robot.gltf
  position: [1, 2, 3]
  skeleton:
    head: 5
    body: 4
    left_leg: 3
    left_arm: 2
    right_arm: 1
    right_leg: 0
  rig:
    idle_frames: 120
terrain:
  seed: 42
  field:
    amplitude: 16
  grid:
    width: 8
light:
  position: [0, 10, 0]
keys:
  forward: ["I"]
logging:
  level: debug
  file:
    path: blockwalk.log
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1024 || cfg.Window.Height != 768 || !cfg.Window.Fullscreen {
		t.Errorf("unexpected window %+v", cfg.Window)
	}
	// Unset fields keep their defaults.
	if cfg.Window.FOV != 45 {
		t.Errorf("expected default fov 45, got %v", cfg.Window.FOV)
	}
	if cfg.Character.Model != "models/robot.gltf" {
		t.Errorf("unexpected character model %s", cfg.Character.Model)
	}
	if cfg.Character.Position != [3]float32{1, 2, 3} {
		t.Errorf("unexpected position %v", cfg.Character.Position)
	}
	if cfg.Character.Skeleton["left_leg"] != 3 {
		t.Errorf("unexpected skeleton %v", cfg.Character.Skeleton)
	}
	if cfg.Character.Rig.IdleFrames != 120 || cfg.Character.Rig.Step != 0.25 {
		t.Errorf("unexpected rig %+v", cfg.Character.Rig)
	}
	if cfg.Terrain.Seed != 42 || cfg.Terrain.Field.Amplitude != 16 || cfg.Terrain.Field.Bias != -6 {
		t.Errorf("unexpected terrain %+v", cfg.Terrain)
	}
	if cfg.Terrain.Grid.Width != 8 || cfg.Terrain.Grid.Depth != 64 {
		t.Errorf("unexpected grid %+v", cfg.Terrain.Grid)
	}
	if cfg.Light.Position[1] != 10 || cfg.Light.Diffuse[0] != 0.7 {
		t.Errorf("unexpected light %+v", cfg.Light)
	}
	// Key maps merge per action.
	if got := cfg.Keys["forward"]; len(got) != 1 || got[0] != "I" {
		t.Errorf("unexpected forward keys %v", got)
	}
	if len(cfg.Keys["quit"]) == 0 {
		t.Error("expected default quit keys to survive the merge")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.File.Path != "blockwalk.log" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/blockwalk.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"bad depth range", func(c *Config) { c.Window.Far = c.Window.Near }},
		{"no character", func(c *Config) { c.Character.Model = "" }},
		{"no tile", func(c *Config) { c.Terrain.TileModel = "" }},
		{"unknown action", func(c *Config) { c.Keys["jump"] = []string{"Space"} }},
		{"duplicate key", func(c *Config) { c.Keys["quit"] = []string{"W"} }},
		{"unknown part", func(c *Config) { c.Character.Skeleton = map[string]int{"tail": 0} }},
		{"screenshot format", func(c *Config) { c.Screenshot.Format = "gif" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := Default()
	applyFlags(cfg, parseTestFlags(t, "-debug", "-fullscreen", "-width", "800", "-height", "600", "-assets", "/data"))

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen")
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Assets.Root != "/data" {
		t.Errorf("expected asset root /data, got %s", cfg.Assets.Root)
	}

	// No flags leave the config untouched.
	cfg = Default()
	applyFlags(cfg, parseTestFlags(t))
	if cfg.Window.Width != 400 || cfg.Assets.Root != "assets" || cfg.Logging.Level != "info" {
		t.Errorf("expected defaults, got %+v", cfg.Window)
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 1920\n  height: 1080\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	// File overrides defaults, flags override the file.
	cfg, err := load(parseTestFlags(t, "-config", configPath, "-width", "640"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Window.Width != 640 {
		t.Errorf("expected flag width 640, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 1080 {
		t.Errorf("expected file height 1080, got %d", cfg.Window.Height)
	}

	if _, err := load(parseTestFlags(t, "-config", filepath.Join(t.TempDir(), "missing.yaml"))); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Terrain.Seed = 7
	cfg.Keys["forward"] = []string{"I"}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Terrain.Seed != 7 || loaded.Keys["forward"][0] != "I" {
		t.Errorf("round trip lost values: seed %d keys %v", loaded.Terrain.Seed, loaded.Keys["forward"])
	}
	if loaded.Light != cfg.Light {
		t.Errorf("round trip changed light: %+v", loaded.Light)
	}
}
