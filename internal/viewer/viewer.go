// Package viewer runs the window and render loop around a world.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/blockwalk/internal/assets"
	"github.com/Faultbox/blockwalk/internal/config"
	"github.com/Faultbox/blockwalk/internal/engine/debug"
	"github.com/Faultbox/blockwalk/internal/engine/input"
	"github.com/Faultbox/blockwalk/internal/engine/renderer"
	"github.com/Faultbox/blockwalk/internal/engine/window"
	"github.com/Faultbox/blockwalk/internal/logger"
	"github.com/Faultbox/blockwalk/internal/world"
)

// Viewer owns the window, the GL renderer and the world.
type Viewer struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Controller
	world    *world.World
	shots    *debug.ScreenshotCapture
	loader   *assets.Loader
	events   []input.Event
	log      *zap.Logger
}

// New opens the window, creates the renderer and builds the world.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:    cfg,
		events: make([]input.Event, 0, 32),
		log:    logger.Named("viewer"),
	}

	bindings, err := input.ParseBindings(cfg.Keys)
	if err != nil {
		return nil, fmt.Errorf("key bindings: %w", err)
	}
	v.input = input.NewController(bindings)

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context; size it to the drawable for high-DPI.
	dw, dh := v.window.Drawable()
	v.renderer, err = renderer.New(renderer.Config{
		Width:          dw,
		Height:         dh,
		ClearColor:     cfg.Window.ClearColor,
		VertexShader:   cfg.Assets.VertexShader,
		FragmentShader: cfg.Assets.FragmentShader,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.loader = assets.NewLoader(cfg.Assets.Root)
	v.world, err = world.Build(cfg, v.loader)
	if err != nil {
		v.Close()
		return nil, err
	}

	v.shots = debug.NewScreenshotCapture(cfg.Screenshot.Dir, cfg.Screenshot.Prefix, cfg.Screenshot.Format)

	_, _, textures := v.loader.CacheStats()
	v.log.Info("viewer initialized",
		zap.String("assets", cfg.Assets.Root),
		zap.Int("textures", textures),
	)
	return v, nil
}

// Run loops until the window closes or a quit key is pressed.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")

	for v.running {
		v.events = v.window.PollEvents(v.events[:0])
		res := v.world.HandleFrame(v.input.Process(v.events))
		if res.Quit {
			v.running = false
			break
		}
		if res.Resized {
			v.renderer.Resize(v.window.Drawable())
		}

		v.renderer.Clear()
		v.world.Scene.Render(v.renderer)

		if res.Screenshot {
			v.screenshot()
		}

		v.window.SwapBuffers()

		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			fps := float64(frameCount) / elapsed.Seconds()
			v.window.SetTitle(fmt.Sprintf("%s - %.0f fps", v.cfg.Window.Title, fps))
			v.log.Debug("fps",
				zap.Float64("fps", fps),
				zap.Int("draw_calls", v.renderer.DrawCalls()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// screenshot captures the back buffer before it is swapped.
func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases GPU resources and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
		v.renderer = nil
	}
	if v.window != nil {
		v.window.Close()
		v.window = nil
	}
}
