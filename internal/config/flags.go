package config

import "flag"

type flagValues struct {
	config     string
	debug      bool
	fullscreen bool
	width      int
	height     int
	assets     string
}

func newFlags(fs *flag.FlagSet) *flagValues {
	f := &flagValues{}
	fs.StringVar(&f.config, "config", "", "Path to config file")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.width, "width", 0, "Window width")
	fs.IntVar(&f.height, "height", 0, "Window height")
	fs.StringVar(&f.assets, "assets", "", "Asset root directory")
	return f
}

var commandLine = newFlags(flag.CommandLine)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return commandLine.config
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *flagValues) {
	if f.debug {
		cfg.Logging.Level = "debug"
	}
	if f.fullscreen {
		cfg.Window.Fullscreen = true
	}
	if f.width > 0 {
		cfg.Window.Width = f.width
	}
	if f.height > 0 {
		cfg.Window.Height = f.height
	}
	if f.assets != "" {
		cfg.Assets.Root = f.assets
	}
}
