package input

import (
	"github.com/Faultbox/raydemo/internal/engine/camera"
	"github.com/Faultbox/raydemo/pkg/math"
)

// Controls maps held keys and mouse motion onto camera motion.
//
//	drag          orbit about the focus
//	wheel         zoom
//	W/S A/D Q/E   translate forward/back, left/right, down/up
//	arrows        pitch and yaw in place
//	Z/X           roll
type Controls struct {
	MoveSpeed   float64 // world units per second
	RotateSpeed float64 // radians per second
}

// DefaultControls returns the default control speeds.
func DefaultControls() Controls {
	return Controls{MoveSpeed: 2, RotateSpeed: 1.5}
}

// Apply moves cam according to this frame's input over dt seconds.
func (c Controls) Apply(s *State, cam *camera.Camera, dt float64) {
	if dx, dy := s.Drag(); dx != 0 || dy != 0 {
		cam.HandleDrag(dx, dy)
	}
	if w := s.Wheel(); w != 0 {
		cam.HandleZoom(w)
	}

	var move math.Vec3
	axis := func(pos, neg Key) float64 {
		v := 0.0
		if s.Held(pos) {
			v++
		}
		if s.Held(neg) {
			v--
		}
		return v
	}
	move.X = axis(KeyD, KeyA)
	move.Y = axis(KeyE, KeyQ)
	// Local +Z points back toward the viewer.
	move.Z = axis(KeyS, KeyW)
	if move.LengthSqr() > 0 {
		cam.Translate(move.Normalize().Scale(c.MoveSpeed * dt))
	}

	step := c.RotateSpeed * dt
	if p := axis(KeyUp, KeyDown); p != 0 {
		cam.Pitch(p * step)
	}
	if y := axis(KeyLeft, KeyRight); y != 0 {
		cam.Yaw(y * step)
	}
	if r := axis(KeyZ, KeyX); r != 0 {
		cam.Roll(r * step)
	}
}
