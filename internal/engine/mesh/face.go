// Package mesh assembles static triangle geometry into device buffers.
package mesh

import (
	"github.com/Faultbox/raydemo/pkg/math"
)

// Face is one triangle during mesh assembly. Tangents carry the
// bitangent handedness (+1 or -1) in W.
type Face struct {
	Positions [3]math.Vec3
	Normals   [3]math.Vec3
	TexCoords [3]math.Vec2
	Tangents  [3]math.Vec4
}

// FlatFace builds a face whose three normals are the geometric normal of
// the triangle (counter-clockwise winding).
func FlatFace(p0, p1, p2 math.Vec3, uv0, uv1, uv2 math.Vec2) Face {
	n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	return Face{
		Positions: [3]math.Vec3{p0, p1, p2},
		Normals:   [3]math.Vec3{n, n, n},
		TexCoords: [3]math.Vec2{uv0, uv1, uv2},
	}
}
