package mesh

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/raydemo/pkg/math"
)

// Sphere is an analytic sphere that can be tessellated into faces.
type Sphere struct {
	Center math.Vec3
	Radius float64
}

// Faces tessellates the sphere into a UV grid of stacks x slices quads.
// Pole rows emit a single triangle per quad. Tangents are filled.
func (s Sphere) Faces(stacks, slices int) ([]Face, error) {
	if stacks < 2 || slices < 3 {
		return nil, fmt.Errorf("sphere %dx%d: need at least 2 stacks and 3 slices: %w", stacks, slices, ErrDegenerateGeometry)
	}
	if s.Radius <= 0 {
		return nil, fmt.Errorf("sphere radius %g: %w", s.Radius, ErrDegenerateGeometry)
	}

	point := func(i, j int) (math.Vec3, math.Vec3, math.Vec2) {
		u := float64(j) / float64(slices)
		v := float64(i) / float64(stacks)
		theta := u * 2 * gomath.Pi
		phi := v * gomath.Pi
		sinPhi, cosPhi := gomath.Sincos(phi)
		sinTheta, cosTheta := gomath.Sincos(theta)
		n := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: -sinPhi * sinTheta}
		return s.Center.Add(n.Scale(s.Radius)), n, math.Vec2{X: u, Y: 1 - v}
	}

	faces := make([]Face, 0, 2*stacks*slices)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			p00, n00, t00 := point(i, j)
			p01, n01, t01 := point(i, j+1)
			p10, n10, t10 := point(i+1, j)
			p11, n11, t11 := point(i+1, j+1)

			if i != 0 {
				faces = append(faces, Face{
					Positions: [3]math.Vec3{p00, p10, p01},
					Normals:   [3]math.Vec3{n00, n10, n01},
					TexCoords: [3]math.Vec2{t00, t10, t01},
				})
			}
			if i != stacks-1 {
				faces = append(faces, Face{
					Positions: [3]math.Vec3{p01, p10, p11},
					Normals:   [3]math.Vec3{n01, n10, n11},
					TexCoords: [3]math.Vec2{t01, t10, t11},
				})
			}
		}
	}
	GenerateTangents(faces)
	return faces, nil
}

// Intersect returns the nearest non-negative distance along dir at which the
// ray from origin hits the sphere. dir need not be unit length.
func (s Sphere) Intersect(origin, dir math.Vec3) (float64, bool) {
	oc := origin.Sub(s.Center)
	a := dir.Dot(dir)
	if a == 0 {
		return 0, false
	}
	b := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	sq := gomath.Sqrt(disc)
	t := (-b - sq) / a
	if t < 0 {
		t = (-b + sq) / a
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
