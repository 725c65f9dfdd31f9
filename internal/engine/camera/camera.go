// Package camera provides the follow camera that tracks the character and
// can be orbited with a mouse drag.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Config holds camera defaults.
type Config struct {
	FollowDistance  float32 `yaml:"follow_distance"`
	MinDistance     float32 `yaml:"min_distance"`
	MaxDistance     float32 `yaml:"max_distance"`
	DragSpeed       float32 `yaml:"drag_speed"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
}

// DefaultConfig returns a camera 15 units behind the head.
func DefaultConfig() Config {
	return Config{
		FollowDistance:  15,
		MinDistance:     5,
		MaxDistance:     60,
		DragSpeed:       45,
		ZoomSensitivity: 0.1,
	}
}

// ViewSetter receives the camera placement.
type ViewSetter interface {
	SetView(eye, at, up mgl32.Vec3)
}

// Controller owns the camera state.
type Controller struct {
	Eye mgl32.Vec3
	At  mgl32.Vec3
	Up  mgl32.Vec3

	// Follow
	Distance    float32
	MinDistance float32
	MaxDistance float32

	// Sensitivity
	DragSpeed       float32 // degrees per 1000 pixels of drag, per frame
	ZoomSensitivity float32

	// Drag state
	dragging     bool
	lastX, lastY int32
}

// New creates a controller looking down -Z from +Z.
func New(cfg Config) *Controller {
	return &Controller{
		Eye:             mgl32.Vec3{0, 0, cfg.FollowDistance},
		Up:              mgl32.Vec3{0, 1, 0},
		Distance:        cfg.FollowDistance,
		MinDistance:     cfg.MinDistance,
		MaxDistance:     cfg.MaxDistance,
		DragSpeed:       cfg.DragSpeed,
		ZoomSensitivity: cfg.ZoomSensitivity,
	}
}

// Follow places the camera Distance units behind the head pivot of a model
// walking along its local +X, looking at the head.
func (c *Controller) Follow(headPivot mgl32.Vec3, modelTransform mgl32.Mat4) {
	r := modelTransform.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	eye := headPivot.Sub(mgl32.Vec3{0, 0, c.Distance})
	c.Eye = mgl32.TransformCoordinate(eye, r)
	c.At = mgl32.TransformCoordinate(headPivot, r)
}

// Press starts a drag at the cursor position.
func (c *Controller) Press(x, y int32) {
	c.dragging = true
	c.lastX, c.lastY = x, y
}

// Release ends the drag.
func (c *Controller) Release() {
	c.dragging = false
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// Update orbits the camera for one frame while dragging. The rotation grows
// with the cursor's distance from where the drag started. It reports whether
// the view changed.
func (c *Controller) Update(x, y int32) bool {
	if !c.dragging {
		return false
	}
	dx := float32(x - c.lastX)
	dy := float32(c.lastY - y)
	if dx == 0 && dy == 0 {
		return false
	}

	yaw := c.DragSpeed * math32.Abs(dx) / 1000
	if dx < 0 {
		yaw = -yaw
	}
	roll := c.DragSpeed * math32.Abs(dy) / 1000
	if dy > 0 {
		roll = -roll
	}

	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(yaw)).Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(roll)))
	c.Eye = mgl32.TransformCoordinate(c.Eye, rot)
	c.At = mgl32.TransformCoordinate(c.At, rot)
	c.Up = mgl32.TransformNormal(c.Up, rot)
	return true
}

// HandleZoom changes the follow distance based on scroll wheel delta.
func (c *Controller) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Apply writes the view into dst.
func (c *Controller) Apply(dst ViewSetter) {
	dst.SetView(c.Eye, c.At, c.Up)
}
