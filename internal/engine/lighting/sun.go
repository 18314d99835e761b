// Package lighting provides the light sources a scene can hold.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/raydemo/pkg/math"
)

// DirectionalLight is an infinitely distant light. Direction points from
// the surface toward the light.
type DirectionalLight struct {
	Direction math.Vec3
	Color     [3]float32
	Intensity float32
}

// SunDirection converts an azimuth around Y (0-360) and an elevation above
// the horizon (0-90), both in degrees, to a unit direction toward the sun.
func SunDirection(azimuth, elevation float64) math.Vec3 {
	lon := azimuth * gomath.Pi / 180
	lat := elevation * gomath.Pi / 180
	return math.Vec3{
		X: gomath.Cos(lat) * gomath.Sin(lon),
		Y: gomath.Sin(lat),
		Z: gomath.Cos(lat) * gomath.Cos(lon),
	}
}

// NewSun builds a white directional light from azimuth and elevation.
func NewSun(azimuth, elevation float64, intensity float32) DirectionalLight {
	return DirectionalLight{
		Direction: SunDirection(azimuth, elevation),
		Color:     [3]float32{1, 1, 1},
		Intensity: intensity,
	}
}
