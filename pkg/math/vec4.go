package math

// Vec4 is a 4-component vector.
type Vec4 struct {
	X, Y, Z, W float64
}

// Vec3 drops the W component.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Add returns v + other.
func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{v.X + other.X, v.Y + other.Y, v.Z + other.Z, v.W + other.W}
}

// Scale returns v * scalar.
func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Dot returns the dot product.
func (v Vec4) Dot(other Vec4) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z + v.W*other.W
}

// F32 returns the vector as a float32 array for GPU upload.
func (v Vec4) F32() [4]float32 {
	return [4]float32{float32(v.X), float32(v.Y), float32(v.Z), float32(v.W)}
}
