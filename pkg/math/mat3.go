package math

// Mat3 is a 3x3 matrix in column-major order.
type Mat3 [9]float64

// Identity3 returns a 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// At returns the element at row, col.
func (m Mat3) At(row, col int) float64 {
	return m[col*3+row]
}

// Mul multiplies this matrix by another (m * other).
func (m Mat3) Mul(other Mat3) Mat3 {
	var result Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			result[col*3+row] =
				m[0*3+row]*other[col*3+0] +
					m[1*3+row]*other[col*3+1] +
					m[2*3+row]*other[col*3+2]
		}
	}
	return result
}

// MulVec3 multiplies the matrix by a column vector.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant.
func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[7]*m[5]) -
		m[3]*(m[1]*m[8]-m[7]*m[2]) +
		m[6]*(m[1]*m[5]-m[4]*m[2])
}

// Inverse returns the inverse and false if the matrix is singular.
func (m Mat3) Inverse() (Mat3, bool) {
	det := m.Determinant()
	if det == 0 {
		return Identity3(), false
	}
	inv := 1 / det
	return Mat3{
		(m[4]*m[8] - m[7]*m[5]) * inv,
		(m[7]*m[2] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[4]*m[2]) * inv,
		(m[6]*m[5] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[6]*m[2]) * inv,
		(m[3]*m[2] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[6]*m[4]) * inv,
		(m[6]*m[1] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[3]*m[1]) * inv,
	}, true
}

// Mat4 embeds the matrix in the upper-left corner of an identity Mat4.
func (m Mat3) Mat4() Mat4 {
	return Mat4{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
		0, 0, 0, 1,
	}
}

// Float32 converts the matrix for uniform upload.
func (m Mat3) Float32() [9]float32 {
	var out [9]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// NormalMatrix returns the inverse transpose of the upper 3x3 of model,
// used to transform normals.
func NormalMatrix(model Mat4) Mat3 {
	inv, ok := model.Mat3().Inverse()
	if !ok {
		return Identity3()
	}
	return inv.Transpose()
}
