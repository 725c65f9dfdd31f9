package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/blockwalk/internal/config"
	"github.com/Faultbox/blockwalk/internal/engine/input"
	"github.com/Faultbox/blockwalk/internal/engine/mesh"
	"github.com/Faultbox/blockwalk/internal/engine/mesh/meshtest"
	"github.com/Faultbox/blockwalk/internal/engine/rig"
	"github.com/Faultbox/blockwalk/internal/engine/scene"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Character.Model = "steve.obj"
	cfg.Terrain.TileModel = "tile.obj"
	cfg.Terrain.Grid.Width = 4
	cfg.Terrain.Grid.Depth = 3
	cfg.Character.Rig.IdleFrames = 3
	return cfg
}

func testSource() *meshtest.Source {
	return &meshtest.Source{Models: map[string]func() []*mesh.Mesh{
		"steve.obj": meshtest.Character,
		"tile.obj":  func() []*mesh.Mesh { return []*mesh.Mesh{meshtest.UnitCube()} },
	}}
}

func near(a, b float32) bool {
	return mgl32.Abs(a-b) <= 1e-4
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.Truef(t, want.ApproxFuncEqual(got, near), "want %v, got %v", want, got)
}

func TestBuild(t *testing.T) {
	src := testSource()
	w, err := Build(testConfig(), src)
	require.NoError(t, err)

	assert.Equal(t, []string{"steve.obj", "tile.obj"}, src.Loads)
	assert.Equal(t, 1+4*3, w.Scene.Len())
	assert.Same(t, w.Character, w.Scene.ModelAt(0))
	assert.Len(t, w.Tiles, 12)
	assert.Same(t, w.Tiles[0], w.Scene.ModelAt(1))
	assert.Equal(t, mgl32.Translate3D(0.5, -4, 0), w.Character.Transform())

	// The spawn cell is flat ground.
	assert.Equal(t, mgl32.Ident4(), w.Tiles[0].Transform())
	assert.InDelta(t, 2, w.Tiles[1].Transform().Col(3)[0], 1e-6)

	// Head pivot (0, 4, 0) moved by the spawn offset, camera 15 units behind.
	view := w.Scene.View()
	assertVecNear(t, mgl32.Vec3{-14.5, 0, 0}, view.Eye)
	assertVecNear(t, mgl32.Vec3{0.5, 0, 0}, view.At)

	kind, proj := w.Scene.Projection()
	assert.Equal(t, scene.Perspective, kind)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(45), 1, 1, 100), proj)
	assert.Equal(t, scene.DefaultLight(), w.Scene.Light())
}

func TestBuildFlattensGroundUnderCharacter(t *testing.T) {
	cfg := testConfig()
	cfg.Character.Position = [3]float32{6.2, -4, 4}
	// Keep every other cell well below ground level.
	cfg.Terrain.Field.Bias = -100
	w, err := Build(cfg, testSource())
	require.NoError(t, err)

	// Tiles are in row order over a 4×3 grid; the character stands on cell (3, 2).
	tileAt := func(x, y int) mgl32.Mat4 { return w.Tiles[y*4+x].Transform() }
	for _, c := range [][2]int{{3, 2}, {2, 1}, {3, 1}, {2, 2}} {
		assert.Zerof(t, tileAt(c[0], c[1]).Col(3)[1], "cell %v", c)
	}
	assert.NotZero(t, tileAt(0, 0).Col(3)[1])
}

func TestBuildRendersEveryMesh(t *testing.T) {
	w, err := Build(testConfig(), testSource())
	require.NoError(t, err)

	rec := &meshtest.Recorder{}
	for i := 0; i < w.Scene.Len(); i++ {
		w.Scene.ModelAt(i).Render(rec)
	}
	assert.Len(t, rec.Draws, 6+12)
}

func TestBuildErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Character.Model = "missing.obj"
	_, err := Build(cfg, testSource())
	assert.Error(t, err)

	src := testSource()
	src.Models["steve.obj"] = func() []*mesh.Mesh { return meshtest.Character()[:5] }
	_, err = Build(testConfig(), src)
	assert.ErrorIs(t, err, rig.ErrInvalidSkeleton)

	cfg = testConfig()
	cfg.Terrain.Field.Amplitude = 0
	_, err = Build(cfg, testSource())
	assert.Error(t, err)
}

func TestBuildCustomSkeleton(t *testing.T) {
	src := testSource()
	src.Models["steve.obj"] = func() []*mesh.Mesh {
		parts := meshtest.Character()
		parts[0], parts[1] = parts[1], parts[0]
		return parts
	}
	cfg := testConfig()
	cfg.Character.Skeleton = map[string]int{
		"head": 1, "body": 0, "left_leg": 2, "left_arm": 3, "right_arm": 4, "right_leg": 5,
	}

	w, err := Build(cfg, src)
	require.NoError(t, err)
	assertVecNear(t, mgl32.Vec3{0, 4, 0}, w.Rig.Pivot(rig.Head))
}

func TestHandleFrameForward(t *testing.T) {
	w, err := Build(testConfig(), testSource())
	require.NoError(t, err)
	eye := w.Scene.View().Eye

	res := w.HandleFrame(&input.Frame{Actions: []input.Action{input.ActionForward}})
	assert.False(t, res.Quit)

	assert.Equal(t, mgl32.Translate3D(0.75, -4, 0), w.Character.Transform())
	assert.Equal(t, rig.Forward, w.Rig.Facing())
	assert.Equal(t, 1, w.Rig.StationaryFrames())
	assertVecNear(t, eye.Add(mgl32.Vec3{0.25, 0, 0}), w.Scene.View().Eye)
}

func TestHandleFrameBackwardTurnsOnce(t *testing.T) {
	w, err := Build(testConfig(), testSource())
	require.NoError(t, err)

	back := &input.Frame{Actions: []input.Action{input.ActionBackward}}
	w.HandleFrame(back)
	assert.Equal(t, rig.Backward, w.Rig.Facing())
	once := w.Character.Transform()

	w.HandleFrame(back)
	// Second step continues in the same direction without turning again.
	delta := w.Character.Transform().Col(3).Vec3().Sub(once.Col(3).Vec3())
	assertVecNear(t, mgl32.Vec3{-0.25, 0, 0}, delta)
}

func TestHandleFrameFlags(t *testing.T) {
	w, err := Build(testConfig(), testSource())
	require.NoError(t, err)

	res := w.HandleFrame(&input.Frame{
		Quit:    true,
		Actions: []input.Action{input.ActionScreenshot},
		Resized: true,
		Width:   800,
		Height:  400,
	})
	assert.True(t, res.Quit)
	assert.True(t, res.Screenshot)
	assert.True(t, res.Resized)
	assert.Equal(t, 800, res.Width)

	_, proj := w.Scene.Projection()
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(45), 2, 1, 100), proj)
}

func TestDragOrbitSurvivesIdle(t *testing.T) {
	w, err := Build(testConfig(), testSource())
	require.NoError(t, err)
	followEye := w.Scene.View().Eye

	w.HandleFrame(&input.Frame{DragStarted: true, PressX: 100, PressY: 100, MouseX: 200, MouseY: 100})
	orbited := w.Scene.View().Eye
	assert.False(t, orbited.ApproxFuncEqual(followEye, near))
	assert.Equal(t, w.Camera.Eye, orbited)

	w.HandleFrame(&input.Frame{DragEnded: true, MouseX: 200, MouseY: 100})
	settled := w.Scene.View().Eye
	for i := 0; i < 5; i++ {
		w.HandleFrame(&input.Frame{MouseX: 200, MouseY: 100})
	}
	require.True(t, w.Rig.Idling())
	assert.Equal(t, settled, w.Scene.View().Eye)

	// Moving snaps the camera back behind the character.
	w.HandleFrame(&input.Frame{Actions: []input.Action{input.ActionTurnLeft}})
	at := w.Scene.View().At
	assert.InDelta(t, 15, w.Scene.View().Eye.Sub(at).Len(), 1e-3)
}

func TestZoomRefollows(t *testing.T) {
	w, err := Build(testConfig(), testSource())
	require.NoError(t, err)

	w.HandleFrame(&input.Frame{Wheel: 1})
	view := w.Scene.View()
	assert.InDelta(t, 13.5, view.Eye.Sub(view.At).Len(), 1e-3)
}
