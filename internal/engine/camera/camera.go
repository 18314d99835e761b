// Package camera provides a quaternion camera with free and orbit transforms.
package camera

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/raydemo/pkg/math"
)

// ErrInvalidArgument reports a malformed clip range, field of view,
// viewport or focus distance.
var ErrInvalidArgument = errors.New("invalid camera argument")

// Camera holds a rigid transform plus projection parameters.
//
// In the local frame X is right, Y is up and +Z is the direction axis,
// which points from the focus point back toward the eye. The camera looks
// along -Direction().
type Camera struct {
	position    math.Vec3
	orientation math.Quat
	focusDist   float64

	fovY   float64 // radians
	aspect float64
	near   float64
	far    float64

	// Input sensitivities used by the Handle* helpers.
	DragSensitivity float64
	ZoomSensitivity float64
	MinFocusDist    float64
}

// Params describes a camera at load time.
type Params struct {
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3
	FOVDeg   float64
	Aspect   float64
	Near     float64
	Far      float64
}

// DefaultParams looks at the origin from +Z.
func DefaultParams() Params {
	return Params{
		Position: math.Vec3{X: 0, Y: 0, Z: 3},
		Up:       math.UnitY,
		FOVDeg:   60,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      100,
	}
}

// New builds a camera from p, validating every projection parameter.
func New(p Params) (*Camera, error) {
	c := &Camera{
		position:        p.Position,
		orientation:     math.QuatIdentity(),
		focusDist:       1,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		MinFocusDist:    0.05,
	}
	if err := c.SetFOV(p.FOVDeg); err != nil {
		return nil, err
	}
	if p.Aspect <= 0 || gomath.IsNaN(p.Aspect) {
		return nil, fmt.Errorf("aspect %g: %w", p.Aspect, ErrInvalidArgument)
	}
	c.aspect = p.Aspect
	if err := c.SetClip(p.Near, p.Far); err != nil {
		return nil, err
	}
	if err := c.LookAt(p.Target, p.Up); err != nil {
		return nil, err
	}
	return c, nil
}

// LookAt orients the camera toward target with the given up hint and sets
// the focus distance to the distance from the eye to target.
func (c *Camera) LookAt(target, up math.Vec3) error {
	back := c.position.Sub(target)
	d := back.Length()
	if d < 1e-12 {
		return fmt.Errorf("look-at target coincides with position: %w", ErrInvalidArgument)
	}
	back = back.Scale(1 / d)
	right := up.Cross(back)
	if right.Length() < 1e-12 {
		return fmt.Errorf("up %v parallel to view direction: %w", up, ErrInvalidArgument)
	}
	right = right.Normalize()
	trueUp := back.Cross(right)

	c.orientation = math.QuatFromBasis(right, trueUp, back).Normalize()
	c.focusDist = d
	return nil
}

// Translate moves the camera by v expressed in its local frame.
func (c *Camera) Translate(v math.Vec3) {
	c.position = c.position.Add(c.orientation.Rotate(v))
}

// Rotate turns the camera by r radians about axis given in its local frame.
func (c *Camera) Rotate(axis math.Vec3, r float64) {
	world := c.orientation.Rotate(axis)
	c.orientation = math.QuatFromAxisAngle(world, r).Mul(c.orientation).Normalize()
}

// Pitch rotates about the local X axis.
func (c *Camera) Pitch(r float64) { c.Rotate(math.UnitX, r) }

// Yaw rotates about the local Y axis.
func (c *Camera) Yaw(r float64) { c.Rotate(math.UnitY, r) }

// Roll rotates about the local Z axis.
func (c *Camera) Roll(r float64) { c.Rotate(math.UnitZ, r) }

// RotateAboutFocus orbits the camera around Focus() by r radians about a
// local axis. The distance to the focus point stays FocusDistance().
func (c *Camera) RotateAboutFocus(axis math.Vec3, r float64) {
	focus := c.Focus()
	c.Rotate(axis, r)
	c.position = focus.Add(c.Direction().Scale(c.focusDist))
}

// PitchAboutFocus orbits about the local X axis.
func (c *Camera) PitchAboutFocus(r float64) { c.RotateAboutFocus(math.UnitX, r) }

// YawAboutFocus orbits about the local Y axis.
func (c *Camera) YawAboutFocus(r float64) { c.RotateAboutFocus(math.UnitY, r) }

// HandleDrag orbits the camera from a mouse drag delta in pixels.
func (c *Camera) HandleDrag(dx, dy float64) {
	c.YawAboutFocus(-dx * c.DragSensitivity)
	c.PitchAboutFocus(-dy * c.DragSensitivity)
}

// HandleZoom moves the eye toward the focus point from a scroll delta,
// keeping the focus fixed.
func (c *Camera) HandleZoom(delta float64) {
	focus := c.Focus()
	d := c.focusDist - delta*c.focusDist*c.ZoomSensitivity
	if d < c.MinFocusDist {
		d = c.MinFocusDist
	}
	c.focusDist = d
	c.position = focus.Add(c.Direction().Scale(d))
}

// Frame points the camera at center from far enough away to fit a sphere
// of the given radius, keeping the current orientation.
func (c *Camera) Frame(center math.Vec3, radius float64) {
	d := radius / gomath.Sin(c.fovY/2)
	if d < c.MinFocusDist {
		d = c.MinFocusDist
	}
	c.focusDist = d
	c.position = center.Add(c.Direction().Scale(d))
}

// Position returns the eye position.
func (c *Camera) Position() math.Vec3 { return c.position }

// Orientation returns the unit rotation from local to world space.
func (c *Camera) Orientation() math.Quat { return c.orientation }

// Direction returns the local +Z axis in world space.
func (c *Camera) Direction() math.Vec3 { return c.orientation.Rotate(math.UnitZ) }

// Forward returns the viewing direction, -Direction().
func (c *Camera) Forward() math.Vec3 { return c.Direction().Negate() }

// Up returns the local +Y axis in world space.
func (c *Camera) Up() math.Vec3 { return c.orientation.Rotate(math.UnitY) }

// Right returns the local +X axis in world space.
func (c *Camera) Right() math.Vec3 { return c.orientation.Rotate(math.UnitX) }

// Focus returns the orbit point position - FocusDistance()*Direction().
func (c *Camera) Focus() math.Vec3 {
	return c.position.Sub(c.Direction().Scale(c.focusDist))
}

// FocusDistance returns the orbit radius.
func (c *Camera) FocusDistance() float64 { return c.focusDist }

// SetFocusDistance changes the orbit radius without moving the eye.
func (c *Camera) SetFocusDistance(d float64) error {
	if !(d > 0) {
		return fmt.Errorf("focus distance %g: %w", d, ErrInvalidArgument)
	}
	c.focusDist = d
	return nil
}

// FOV returns the vertical field of view in radians.
func (c *Camera) FOV() float64 { return c.fovY }

// FOVDegrees returns the vertical field of view in degrees.
func (c *Camera) FOVDegrees() float64 { return c.fovY * 180 / gomath.Pi }

// SetFOV sets the vertical field of view in degrees, within (0, 180).
func (c *Camera) SetFOV(deg float64) error {
	if !(deg > 0 && deg < 180) {
		return fmt.Errorf("field of view %g deg: %w", deg, ErrInvalidArgument)
	}
	c.fovY = deg * gomath.Pi / 180
	return nil
}

// Aspect returns width/height.
func (c *Camera) Aspect() float64 { return c.aspect }

// SetViewport updates the aspect ratio from framebuffer dimensions.
func (c *Camera) SetViewport(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("viewport %dx%d: %w", width, height, ErrInvalidArgument)
	}
	c.aspect = float64(width) / float64(height)
	return nil
}

// Clip returns the near and far clip distances.
func (c *Camera) Clip() (near, far float64) { return c.near, c.far }

// SetClip sets the clip distances; requires 0 < near < far.
func (c *Camera) SetClip(near, far float64) error {
	if err := validClip(near, far); err != nil {
		return err
	}
	c.near, c.far = near, far
	return nil
}

func validClip(near, far float64) error {
	if !(near > 0) || !(far > near) {
		return fmt.Errorf("clip range [%g, %g]: %w", near, far, ErrInvalidArgument)
	}
	return nil
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() math.Mat4 {
	return c.orientation.Conjugate().ToMat4().Mul(math.Translate(c.position.Negate()))
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() (math.Mat4, error) {
	if err := validClip(c.near, c.far); err != nil {
		return math.Mat4{}, err
	}
	return math.Perspective(c.fovY, c.aspect, c.near, c.far), nil
}

// Ray returns the primary ray through normalized screen coordinates u, v in
// [-1, 1] (u right, v up). The direction is unit length.
func (c *Camera) Ray(u, v float64) (origin, dir math.Vec3) {
	h := gomath.Tan(c.fovY / 2)
	dir = c.Forward().
		Add(c.Right().Scale(u * h * c.aspect)).
		Add(c.Up().Scale(v * h)).
		Normalize()
	return c.position, dir
}
