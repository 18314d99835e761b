package mesh

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/raydemo/pkg/math"
)

var unitTriangle = [3]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}

var upNormals = [3]math.Vec3{math.UnitZ, math.UnitZ, math.UnitZ}

func TestComputeTangentsUnitTriangle(t *testing.T) {
	uvs := [3]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}

	tangents, err := ComputeTangents(unitTriangle, upNormals, uvs)
	if err != nil {
		t.Fatalf("ComputeTangents: %v", err)
	}
	for i, tan := range tangents {
		v := tan.Vec3()
		if gomath.Abs(v.Length()-1) > 1e-9 {
			t.Errorf("tangent %d length = %v, want 1", i, v.Length())
		}
		if d := gomath.Abs(v.Dot(upNormals[i])); d >= 1e-6 {
			t.Errorf("tangent %d dot normal = %v", i, d)
		}
		if tan.W != 1 {
			t.Errorf("tangent %d handedness = %v, want 1", i, tan.W)
		}
		if gomath.Abs(v.X-1) > 1e-9 {
			t.Errorf("tangent %d = %+v, want +X", i, v)
		}
	}
}

func TestComputeTangentsMirroredUV(t *testing.T) {
	uvs := [3]math.Vec2{{X: 0, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}}

	tangents, err := ComputeTangents(unitTriangle, upNormals, uvs)
	if err != nil {
		t.Fatalf("ComputeTangents: %v", err)
	}
	for i, tan := range tangents {
		if tan.W != -1 {
			t.Errorf("tangent %d handedness = %v, want -1", i, tan.W)
		}
		if gomath.Abs(tan.X+1) > 1e-9 {
			t.Errorf("tangent %d = %+v, want -X", i, tan)
		}
	}
}

func TestComputeTangentsOrthogonalizesAgainstTiltedNormals(t *testing.T) {
	uvs := [3]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	tilted := math.Vec3{X: 1, Y: 0, Z: 1}.Normalize()
	normals := [3]math.Vec3{tilted, math.UnitZ, math.Vec3{X: 0, Y: 1, Z: 1}.Normalize()}

	tangents, err := ComputeTangents(unitTriangle, normals, uvs)
	if err != nil {
		t.Fatalf("ComputeTangents: %v", err)
	}
	for i, tan := range tangents {
		v := tan.Vec3()
		if gomath.Abs(v.Length()-1) > 1e-9 {
			t.Errorf("tangent %d length = %v", i, v.Length())
		}
		if d := gomath.Abs(v.Dot(normals[i])); d >= 1e-6 {
			t.Errorf("tangent %d dot normal = %v", i, d)
		}
	}
}

func TestComputeTangentsDegenerateUV(t *testing.T) {
	cases := map[string][3]math.Vec2{
		"coincident": {{X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}},
		"collinear":  {{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}},
	}
	for name, uvs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ComputeTangents(unitTriangle, upNormals, uvs)
			if !errors.Is(err, ErrDegenerateGeometry) {
				t.Errorf("err = %v, want ErrDegenerateGeometry", err)
			}
		})
	}
}

func TestComputeTangentsNormalAlongS(t *testing.T) {
	uvs := [3]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	normals := [3]math.Vec3{math.UnitX, math.UnitX, math.UnitX}

	if _, err := ComputeTangents(unitTriangle, normals, uvs); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("err = %v, want ErrDegenerateGeometry", err)
	}
}

func TestGenerateTangentsFallback(t *testing.T) {
	good := FlatFace(unitTriangle[0], unitTriangle[1], unitTriangle[2],
		math.Vec2{X: 0, Y: 0}, math.Vec2{X: 1, Y: 0}, math.Vec2{X: 0, Y: 1})
	bad := FlatFace(unitTriangle[0], unitTriangle[1], unitTriangle[2],
		math.Vec2{}, math.Vec2{}, math.Vec2{})
	faces := []Face{good, bad}

	if n := GenerateTangents(faces); n != 1 {
		t.Fatalf("degenerate count = %d, want 1", n)
	}
	for i, f := range faces {
		for v, tan := range f.Tangents {
			vec := tan.Vec3()
			if gomath.Abs(vec.Length()-1) > 1e-9 {
				t.Errorf("face %d vertex %d tangent length = %v", i, v, vec.Length())
			}
			if d := gomath.Abs(vec.Dot(f.Normals[v])); d >= 1e-6 {
				t.Errorf("face %d vertex %d dot normal = %v", i, v, d)
			}
			if tan.W != 1 {
				t.Errorf("face %d vertex %d handedness = %v", i, v, tan.W)
			}
		}
	}
}

func TestDefaultTangentAlongX(t *testing.T) {
	tan := DefaultTangent(math.UnitX)
	v := tan.Vec3()
	if gomath.Abs(v.Dot(math.UnitX)) > 1e-9 || gomath.Abs(v.Length()-1) > 1e-9 {
		t.Errorf("DefaultTangent(+X) = %+v", tan)
	}
}
