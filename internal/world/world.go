// Package world builds the scene from configuration and advances it one
// input frame at a time.
package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/blockwalk/internal/config"
	"github.com/Faultbox/blockwalk/internal/engine/camera"
	"github.com/Faultbox/blockwalk/internal/engine/input"
	"github.com/Faultbox/blockwalk/internal/engine/model"
	"github.com/Faultbox/blockwalk/internal/engine/rig"
	"github.com/Faultbox/blockwalk/internal/engine/scene"
	"github.com/Faultbox/blockwalk/internal/engine/terrain"
	"github.com/Faultbox/blockwalk/internal/logger"
)

// World is everything the frame loop updates: the scene, the character rig
// and the follow camera. It has no GPU or window state.
type World struct {
	Scene     *scene.Scene
	Character *model.Model
	Rig       *rig.Rig
	Camera    *camera.Controller
	Tiles     []*model.Model

	fovY, near, far float32

	// Character transform the camera last followed.
	followed mgl32.Mat4

	log *zap.Logger
}

// FrameResult tells the loop what the frame asked for beyond world updates.
type FrameResult struct {
	Quit       bool
	Screenshot bool
	Resized    bool
	Width      int
	Height     int
}

var commands = map[input.Action]rig.Command{
	input.ActionForward:   rig.CmdForward,
	input.ActionBackward:  rig.CmdBackward,
	input.ActionTurnLeft:  rig.CmdTurnLeft,
	input.ActionTurnRight: rig.CmdTurnRight,
	input.ActionRise:      rig.CmdRise,
	input.ActionSink:      rig.CmdSink,
}

// Build loads the character and the ground tile through src, lays out
// the terrain and places the camera behind the character's head. The
// character is model 0 and the tiles follow it.
func Build(cfg *config.Config, src model.MeshSource) (*World, error) {
	w := &World{
		Scene: scene.New(),
		fovY:  cfg.Window.FOV,
		near:  cfg.Window.Near,
		far:   cfg.Window.Far,
		log:   logger.Named("world"),
	}
	w.resize(cfg.Window.Width, cfg.Window.Height)
	w.Scene.SetLight(cfg.Light)

	var err error
	w.Character, err = w.Scene.AddModelFile(src, cfg.Character.Model)
	if err != nil {
		return nil, fmt.Errorf("character: %w", err)
	}
	p := cfg.Character.Position
	w.Character.SetTransform(mgl32.Translate3D(p[0], p[1], p[2]))

	skel, err := rig.ParseSkeleton(cfg.Character.Skeleton)
	if err != nil {
		return nil, err
	}
	w.Rig, err = rig.New(w.Character, skel, cfg.Character.Rig)
	if err != nil {
		return nil, fmt.Errorf("character rig: %w", err)
	}

	tile, err := w.Scene.AddModelFile(src, cfg.Terrain.TileModel)
	if err != nil {
		return nil, fmt.Errorf("terrain tile: %w", err)
	}
	field, err := terrain.NewField(terrain.OpenSimplex(cfg.Terrain.Seed), cfg.Terrain.Field)
	if err != nil {
		return nil, err
	}
	// Flatten the ground under the character, wherever it was placed.
	grid := cfg.Terrain.Grid
	grid.SpawnX, grid.SpawnY = grid.CellAt(p[0], p[2])
	builder, err := terrain.NewBuilder(field, grid)
	if err != nil {
		return nil, err
	}
	w.Tiles = builder.Populate(w.Scene, tile)

	w.Camera = camera.New(cfg.Camera)
	w.follow()

	w.log.Info("world built",
		zap.Int("models", w.Scene.Len()),
		zap.Int("tiles", len(w.Tiles)),
		zap.Int64("seed", cfg.Terrain.Seed),
	)
	return w, nil
}

// HandleFrame applies one frame of input, advances the rig by one tick and
// refreshes the camera. Commands run in the order their keys arrived.
func (w *World) HandleFrame(f *input.Frame) FrameResult {
	var res FrameResult
	res.Quit = f.Quit

	for _, a := range f.Actions {
		if a == input.ActionScreenshot {
			res.Screenshot = true
			continue
		}
		if cmd, ok := commands[a]; ok {
			w.Rig.Apply(cmd)
			w.log.Debug("command", zap.Stringer("cmd", cmd), zap.Stringer("facing", w.Rig.Facing()))
		}
	}

	if f.Resized && f.Width > 0 && f.Height > 0 {
		w.resize(f.Width, f.Height)
		res.Resized = true
		res.Width, res.Height = f.Width, f.Height
	}

	cam := w.Camera
	viewChanged := false
	if f.DragStarted {
		cam.Press(f.PressX, f.PressY)
	}
	if cam.Update(f.MouseX, f.MouseY) {
		viewChanged = true
	}
	if f.DragEnded {
		cam.Release()
	}

	zoomed := f.Wheel != 0
	if zoomed {
		cam.HandleZoom(f.Wheel)
	}

	w.Rig.Tick()

	// Idle head turns change the pose but not where the body stands, so
	// they keep any orbit the user dragged into the view.
	if w.Rig.TakePoseChanged() && w.Character.Transform() != w.followed || zoomed {
		w.follow()
		viewChanged = false
	}
	if viewChanged {
		cam.Apply(w.Scene)
	}
	return res
}

func (w *World) follow() {
	w.followed = w.Character.Transform()
	w.Camera.Follow(w.Rig.Pivot(rig.Head), w.followed)
	w.Camera.Apply(w.Scene)
}

func (w *World) resize(width, height int) {
	w.Scene.SetPerspective(w.fovY, float32(width)/float32(height), w.near, w.far)
}
