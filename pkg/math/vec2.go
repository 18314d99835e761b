// Package math provides the vector, quaternion and matrix algebra shared by
// the scene, camera and mesh packages.
//
// All types use float64 so repeated camera rotations stay accurate; vertex
// data headed for the GPU is converted with the F32 helpers.
package math

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float64 {
	return v.Sub(other).Length()
}

// F32 returns the vector as a float32 array for GPU upload.
func (v Vec2) F32() [2]float32 {
	return [2]float32{float32(v.X), float32(v.Y)}
}
