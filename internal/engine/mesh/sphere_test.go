package mesh

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/raydemo/pkg/math"
)

func TestSphereFaces(t *testing.T) {
	s := Sphere{Center: math.Vec3{X: 1, Y: 2, Z: 3}, Radius: 2}
	const stacks, slices = 6, 8

	faces, err := s.Faces(stacks, slices)
	if err != nil {
		t.Fatalf("Faces: %v", err)
	}
	if want := 2*stacks*slices - 2*slices; len(faces) != want {
		t.Fatalf("len(faces) = %d, want %d", len(faces), want)
	}

	for i, f := range faces {
		geo := f.Positions[1].Sub(f.Positions[0]).Cross(f.Positions[2].Sub(f.Positions[0]))
		centroid := f.Positions[0].Add(f.Positions[1]).Add(f.Positions[2]).Scale(1.0 / 3)
		if geo.Dot(centroid.Sub(s.Center)) <= 0 {
			t.Errorf("face %d winds inward", i)
		}
		for v := 0; v < 3; v++ {
			if d := f.Positions[v].Distance(s.Center); gomath.Abs(d-s.Radius) > 1e-9 {
				t.Errorf("face %d vertex %d distance = %v", i, v, d)
			}
			tan := f.Tangents[v].Vec3()
			if gomath.Abs(tan.Length()-1) > 1e-6 {
				t.Errorf("face %d vertex %d tangent length = %v", i, v, tan.Length())
			}
			if d := gomath.Abs(tan.Dot(f.Normals[v])); d >= 1e-6 {
				t.Errorf("face %d vertex %d tangent dot normal = %v", i, v, d)
			}
		}
	}
}

func TestSphereFacesInvalid(t *testing.T) {
	if _, err := (Sphere{Radius: 1}).Faces(1, 8); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("stacks=1: err = %v", err)
	}
	if _, err := (Sphere{Radius: 0}).Faces(4, 8); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("radius=0: err = %v", err)
	}
}

func TestSphereIntersect(t *testing.T) {
	s := Sphere{Radius: 1}
	tests := []struct {
		name   string
		origin math.Vec3
		dir    math.Vec3
		want   float64
		hit    bool
	}{
		{"front", math.Vec3{Z: 5}, math.Vec3{Z: -1}, 4, true},
		{"unnormalized", math.Vec3{Z: 5}, math.Vec3{Z: -2}, 2, true},
		{"inside", math.Vec3{}, math.Vec3{X: 1}, 1, true},
		{"behind", math.Vec3{Z: 5}, math.Vec3{Z: 1}, 0, false},
		{"miss", math.Vec3{X: 2, Z: 5}, math.Vec3{Z: -1}, 0, false},
		{"zero dir", math.Vec3{Z: 5}, math.Vec3{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := s.Intersect(tt.origin, tt.dir)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && gomath.Abs(got-tt.want) > 1e-9 {
				t.Errorf("t = %v, want %v", got, tt.want)
			}
		})
	}
}
