// Package rig animates a multi-part character model: a walk gait on the
// limbs, an idle gait on the head, and rigid moves and turns of the whole
// model.
package rig

import (
	"fmt"
	"maps"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/blockwalk/internal/engine/model"
)

const twoPi = 2 * math.Pi

// phaseEpsilon snaps phases that land just short of 2π back to zero.
const phaseEpsilon = 1e-6

// Config holds gait and movement parameters. Angles are in degrees.
type Config struct {
	WalkIncrement float64 `yaml:"walk_increment"`
	WalkAmplitude float32 `yaml:"walk_amplitude"`
	IdleIncrement float64 `yaml:"idle_increment"`
	IdleAmplitude float32 `yaml:"idle_amplitude"`
	IdleFrames    int     `yaml:"idle_frames"`
	Step          float32 `yaml:"step"`
	TurnDegrees   float32 `yaml:"turn_degrees"`
}

// DefaultConfig returns the stock gait: 10° walk steps swinging limbs ±60°,
// a 1° idle step turning the head ±45° after 300 still frames.
func DefaultConfig() Config {
	return Config{
		WalkIncrement: 10,
		WalkAmplitude: 60,
		IdleIncrement: 1,
		IdleAmplitude: 45,
		IdleFrames:    300,
		Step:          0.25,
		TurnDegrees:   20,
	}
}

func (c Config) validate() error {
	if c.WalkIncrement <= 0 || c.IdleIncrement <= 0 {
		return fmt.Errorf("rig: phase increments must be positive (walk %v, idle %v)", c.WalkIncrement, c.IdleIncrement)
	}
	if c.IdleFrames <= 0 {
		return fmt.Errorf("rig: idle frames must be positive, got %d", c.IdleFrames)
	}
	return nil
}

// Rig drives one character model.
type Rig struct {
	model *model.Model
	cfg   Config
	skel  Skeleton

	// Pivots are the top-center of each part's mesh, in model space.
	pivots [NumParts]mgl32.Vec3

	// Gait state
	theta      float64
	headTheta  float64
	stationary int
	facing     Facing

	poseChanged bool
}

// New validates the skeleton against m and captures the part pivots.
func New(m *model.Model, skel Skeleton, cfg Config) (*Rig, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := skel.Validate(m); err != nil {
		return nil, fmt.Errorf("rig %s: %w", m.Name, err)
	}

	r := &Rig{
		model:       m,
		cfg:         cfg,
		skel:        maps.Clone(skel),
		facing:      Forward,
		poseChanged: true,
	}
	for p := Part(0); p < NumParts; p++ {
		r.pivots[p] = m.MeshAt(skel[p]).TopCenter()
	}
	return r, nil
}

// Model returns the driven model.
func (r *Rig) Model() *model.Model { return r.model }

// Pivot returns the rotation pivot of a body part.
func (r *Rig) Pivot(p Part) mgl32.Vec3 { return r.pivots[p] }

// Facing returns the current facing.
func (r *Rig) Facing() Facing { return r.facing }

// WalkPhase returns the walk phase in radians, in [0, 2π).
func (r *Rig) WalkPhase() float64 { return r.theta }

// IdlePhase returns the head phase in radians, in [0, 2π).
func (r *Rig) IdlePhase() float64 { return r.headTheta }

// StationaryFrames returns the number of ticks since the last command.
func (r *Rig) StationaryFrames() int { return r.stationary }

// Idling reports whether the idle gait is active.
func (r *Rig) Idling() bool { return r.stationary >= r.cfg.IdleFrames }

// TakePoseChanged reports whether the pose changed since the last call and
// clears the flag.
func (r *Rig) TakePoseChanged() bool {
	changed := r.poseChanged
	r.poseChanged = false
	return changed
}

// Tick advances one frame. Once IdleFrames ticks pass without a command the
// idle gait runs every tick.
func (r *Rig) Tick() {
	r.stationary++
	if r.Idling() {
		r.Idle()
	}
}

// Apply runs a logical command. It reports false for CmdNone and unknown commands.
func (r *Rig) Apply(cmd Command) bool {
	switch cmd {
	case CmdForward:
		r.Move(Forward)
	case CmdBackward:
		r.Move(Backward)
	case CmdTurnLeft:
		r.Rotate(false, r.cfg.TurnDegrees)
	case CmdTurnRight:
		r.Rotate(true, r.cfg.TurnDegrees)
	case CmdRise:
		r.MoveVertical(true)
	case CmdSink:
		r.MoveVertical(false)
	default:
		return false
	}
	return true
}

// Move steps the character in dir. A change of direction first turns the
// model around by 180° counter-clockwise.
func (r *Rig) Move(dir Facing) {
	if dir != r.facing {
		r.Rotate(false, 180)
		r.facing = dir
	}
	r.Walk()
	r.MoveForward()
}

// Walk advances the walk phase and swings the limbs about Z around their pivots.
// Legs and arms on the same side swing in opposition.
func (r *Rig) Walk() {
	r.wake()
	r.theta = wrapPhase(r.theta + degToRad(r.cfg.WalkIncrement))

	angle := mgl32.DegToRad(r.cfg.WalkAmplitude) * math32.Sin(float32(r.theta))
	r.swing(LeftLeg, angle)
	r.swing(RightLeg, -angle)
	r.swing(LeftArm, -angle)
	r.swing(RightArm, angle)
	r.poseChanged = true
}

// Idle advances the head phase and turns the head about Y around its pivot.
func (r *Rig) Idle() {
	r.headTheta = wrapPhase(r.headTheta + degToRad(r.cfg.IdleIncrement))

	angle := mgl32.DegToRad(r.cfg.IdleAmplitude) * math32.Sin(float32(r.headTheta))
	r.setPartRotation(Head, mgl32.HomogRotate3DY(angle))
	r.poseChanged = true
}

// Rotate turns the whole model about Y around the body pivot.
// Clockwise is the positive angle.
func (r *Rig) Rotate(clockwise bool, degrees float32) {
	r.wake()
	angle := mgl32.DegToRad(degrees)
	if !clockwise {
		angle = -angle
	}
	r.model.SetTransform(r.model.Transform().Mul4(aboutPivot(r.pivots[Body], mgl32.HomogRotate3DY(angle))))
	r.poseChanged = true
}

// MoveForward translates the model one step along its local +X.
func (r *Rig) MoveForward() {
	r.wake()
	r.model.SetTransform(r.model.Transform().Mul4(mgl32.Translate3D(r.cfg.Step, 0, 0)))
	r.poseChanged = true
}

// MoveVertical translates the model one step up or down.
func (r *Rig) MoveVertical(up bool) {
	r.wake()
	dy := r.cfg.Step
	if !up {
		dy = -dy
	}
	r.model.SetTransform(r.model.Transform().Mul4(mgl32.Translate3D(0, dy, 0)))
	r.poseChanged = true
}

// wake resets the stationary counter. Leaving the idle gait puts the head
// back to rest.
func (r *Rig) wake() {
	if r.Idling() {
		r.headTheta = 0
		r.model.MeshAt(r.skel[Head]).SetLocalTransform(mgl32.Ident4())
	}
	r.stationary = 0
}

func (r *Rig) swing(p Part, angle float32) {
	r.setPartRotation(p, mgl32.HomogRotate3DZ(angle))
}

func (r *Rig) setPartRotation(p Part, rot mgl32.Mat4) {
	r.model.MeshAt(r.skel[p]).SetLocalTransform(aboutPivot(r.pivots[p], rot))
}

// aboutPivot returns T(pivot)·rot·T(-pivot).
func aboutPivot(pivot mgl32.Vec3, rot mgl32.Mat4) mgl32.Mat4 {
	return mgl32.Translate3D(pivot[0], pivot[1], pivot[2]).
		Mul4(rot).
		Mul4(mgl32.Translate3D(-pivot[0], -pivot[1], -pivot[2]))
}

func wrapPhase(p float64) float64 {
	p = math.Mod(p, twoPi)
	if p < 0 {
		p += twoPi
	}
	if twoPi-p < phaseEpsilon {
		p = 0
	}
	return p
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
