package mesh

import (
	gomath "math"

	"github.com/Faultbox/raydemo/pkg/math"
)

// IntersectFace returns the distance along dir at which the ray from origin
// crosses the triangle (Moller-Trumbore). Both faces of the triangle count.
func IntersectFace(origin, dir math.Vec3, f *Face) (float64, bool) {
	const eps = 1e-12
	e1 := f.Positions[1].Sub(f.Positions[0])
	e2 := f.Positions[2].Sub(f.Positions[0])
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if gomath.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det
	s := origin.Sub(f.Positions[0])
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
