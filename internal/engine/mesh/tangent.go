package mesh

import (
	"errors"
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/raydemo/internal/logger"
	"github.com/Faultbox/raydemo/pkg/math"
)

// ErrDegenerateGeometry reports a triangle whose UV mapping (or normal)
// leaves the tangent direction undefined.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// uvEpsilon bounds |det| of the 2x2 UV system below which it is singular.
const uvEpsilon = 1e-12

// ComputeTangents returns per-vertex tangents for one triangle using
// Lengyel's method: solve the edge/UV-delta system for the s and t
// directions, Gram-Schmidt s against each vertex normal, and store the sign
// of dot(cross(n, s), t) as handedness in W.
func ComputeTangents(positions [3]math.Vec3, normals [3]math.Vec3, uvs [3]math.Vec2) ([3]math.Vec4, error) {
	var out [3]math.Vec4

	e1 := positions[1].Sub(positions[0])
	e2 := positions[2].Sub(positions[0])

	d1 := uvs[1].Sub(uvs[0])
	d2 := uvs[2].Sub(uvs[0])
	s1, t1 := d1.X, d1.Y
	s2, t2 := d2.X, d2.Y

	det := s1*t2 - s2*t1
	if gomath.Abs(det) < uvEpsilon {
		return out, fmt.Errorf("uv determinant %g: %w", det, ErrDegenerateGeometry)
	}
	r := 1.0 / det

	sdir := e1.Scale(t2).Sub(e2.Scale(t1)).Scale(r)
	tdir := e2.Scale(s1).Sub(e1.Scale(s2)).Scale(r)

	for i, n := range normals {
		t := sdir.Sub(n.Scale(n.Dot(sdir)))
		l := t.Length()
		if l < uvEpsilon || gomath.IsNaN(l) || gomath.IsInf(l, 0) {
			return out, fmt.Errorf("vertex %d: tangent parallel to normal: %w", i, ErrDegenerateGeometry)
		}
		t = t.Scale(1 / l)

		w := 1.0
		if n.Cross(sdir).Dot(tdir) < 0 {
			w = -1.0
		}
		out[i] = math.Vec4{X: t.X, Y: t.Y, Z: t.Z, W: w}
	}
	return out, nil
}

// ComputeTangents fills f.Tangents.
func (f *Face) ComputeTangents() error {
	t, err := ComputeTangents(f.Positions, f.Normals, f.TexCoords)
	if err != nil {
		return err
	}
	f.Tangents = t
	return nil
}

// DefaultTangent returns a unit tangent perpendicular to n with positive
// handedness, starting from the X axis (or Y when n is close to X).
func DefaultTangent(n math.Vec3) math.Vec4 {
	seed := math.UnitX
	if gomath.Abs(n.Normalize().X) > 0.9 {
		seed = math.UnitY
	}
	t := seed.Sub(n.Scale(n.Dot(seed))).Normalize()
	if t.LengthSqr() == 0 {
		t = seed
	}
	return math.Vec4{X: t.X, Y: t.Y, Z: t.Z, W: 1}
}

// GenerateTangents computes tangents for every face in place. A face with a
// degenerate UV mapping gets DefaultTangent at each vertex instead of
// failing the whole mesh. Returns the number of such faces.
func GenerateTangents(faces []Face) int {
	degenerate := 0
	for i := range faces {
		if err := faces[i].ComputeTangents(); err != nil {
			degenerate++
			for v := range faces[i].Tangents {
				faces[i].Tangents[v] = DefaultTangent(faces[i].Normals[v])
			}
			logger.Warn("tangent fallback", zap.Int("face", i), zap.Error(err))
		}
	}
	return degenerate
}
