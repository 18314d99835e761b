package math

import "math"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// The axis is normalized here; angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	s, c := math.Sincos(angle / 2)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: c,
	}
}

// QuatFromBasis builds the rotation that maps the canonical axes onto the
// given orthonormal right/up/back vectors.
func QuatFromBasis(right, up, back Vec3) Quat {
	m := Mat3{
		right.X, right.Y, right.Z,
		up.X, up.Y, up.Z,
		back.X, back.Y, back.Z,
	}
	return QuatFromMat3(m)
}

// QuatFromMat3 converts a pure rotation matrix to a quaternion.
func QuatFromMat3(m Mat3) Quat {
	// m.At(row, col)
	m00, m11, m22 := m.At(0, 0), m.At(1, 1), m.At(2, 2)
	trace := m00 + m11 + m22

	var q Quat
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q.W = 0.25 / s
		q.X = (m.At(2, 1) - m.At(1, 2)) * s
		q.Y = (m.At(0, 2) - m.At(2, 0)) * s
		q.Z = (m.At(1, 0) - m.At(0, 1)) * s
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q.W = (m.At(2, 1) - m.At(1, 2)) / s
		q.X = 0.25 * s
		q.Y = (m.At(0, 1) + m.At(1, 0)) / s
		q.Z = (m.At(0, 2) + m.At(2, 0)) / s
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q.W = (m.At(0, 2) - m.At(2, 0)) / s
		q.X = (m.At(0, 1) + m.At(1, 0)) / s
		q.Y = 0.25 * s
		q.Z = (m.At(1, 2) + m.At(2, 1)) / s
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q.W = (m.At(1, 0) - m.At(0, 1)) / s
		q.X = (m.At(0, 2) + m.At(2, 0)) / s
		q.Y = (m.At(1, 2) + m.At(2, 1)) / s
		q.Z = 0.25 * s
	}
	return q.Normalize()
}

// Length returns the quaternion norm.
func (q Quat) Length() float64 {
	return math.Sqrt(q.Dot(q))
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := q.Length()
	if length < 1e-12 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Conjugate returns the conjugate (the inverse for unit quaternions).
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float64 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul multiplies two quaternions (combines rotations).
// The result applies other first, then q.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate applies the rotation to a vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// ToMat3 converts the quaternion to a 3x3 rotation matrix.
func (q Quat) ToMat3() Mat3 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw),
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw),
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy),
	}
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	return q.ToMat3().Mat4()
}
