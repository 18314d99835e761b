package water

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/raydemo/pkg/math"
)

func TestHeightWithoutSources(t *testing.T) {
	for _, pos := range []math.Vec2{{}, {X: 0.5, Y: -0.25}, {X: -1, Y: 1}} {
		for _, tm := range []float64{0, 1.5, 100} {
			if h := Height(nil, pos, tm); h != 0 {
				t.Errorf("Height(%v, %v) = %v, want 0", pos, tm, h)
			}
		}
	}
}

func TestHeightSingleSource(t *testing.T) {
	w := WavePoint{Source: math.Vec2{X: 0.2, Y: 0.1}, Falloff: 2, Coefficient: 0.5, TimeRate: 3, Period: 7}
	pos := math.Vec2{X: -0.4, Y: 0.9}
	tm := 1.25

	r := pos.Distance(w.Source)
	want := 0.5 * gomath.Exp(-2*r) * gomath.Sin(7*r+3*tm)
	if got := Height([]WavePoint{w}, pos, tm); gomath.Abs(got-want) > 1e-12 {
		t.Errorf("Height = %v, want %v", got, want)
	}

	// Contributions are additive.
	if got := Height([]WavePoint{w, w}, pos, tm); gomath.Abs(got-2*want) > 1e-12 {
		t.Errorf("Height(two sources) = %v, want %v", got, 2*want)
	}
}

func TestNewSurfaceInvalidResolution(t *testing.T) {
	for _, res := range [][2]int{{0, 4}, {4, 0}, {-1, 2}} {
		if _, err := NewSurface(res[0], res[1], nil); !errors.Is(err, ErrInvalidResolution) {
			t.Errorf("NewSurface(%d, %d): err = %v", res[0], res[1], err)
		}
	}
}

func TestSurfaceBoundsAndTopology(t *testing.T) {
	s, err := NewSurface(4, 4, []WavePoint{{Falloff: 1, Coefficient: 0.1, TimeRate: 1, Period: 4}})
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	s.Update(2.5)

	pos := s.Positions()
	if len(pos) != 25 {
		t.Fatalf("len(positions) = %d, want 25", len(pos))
	}
	for i, p := range pos {
		if p[0] < -1 || p[0] > 1 || p[2] < -1 || p[2] > 1 {
			t.Errorf("vertex %d = %v outside [-1,1]", i, p)
		}
	}
	if pos[0][0] != -1 || pos[0][2] != -1 || pos[24][0] != 1 || pos[24][2] != 1 {
		t.Errorf("corners = %v, %v", pos[0], pos[24])
	}

	idx := s.Indices()
	if len(idx) != 4*4*6 {
		t.Fatalf("len(indices) = %d, want 96", len(idx))
	}
	for i, v := range idx {
		if v >= 25 {
			t.Errorf("index %d = %d out of range", i, v)
		}
	}
}

func TestSurfaceFlatNormals(t *testing.T) {
	s, err := NewSurface(4, 3, nil)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	s.Update(10)

	for i, p := range s.Positions() {
		if p[1] != 0 {
			t.Errorf("vertex %d height = %v, want 0", i, p[1])
		}
	}

	normals := s.Normals()
	for j := 1; j < 3; j++ {
		for i := 1; i < 4; i++ {
			n := normals[j*5+i]
			if gomath.Abs(float64(n[0])) > 1e-6 || gomath.Abs(float64(n[1]-1)) > 1e-6 || gomath.Abs(float64(n[2])) > 1e-6 {
				t.Errorf("interior normal (%d,%d) = %v, want +Y", i, j, n)
			}
		}
	}
	for i, n := range normals {
		l := gomath.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))
		if gomath.Abs(l-1) > 1e-6 {
			t.Errorf("normal %d length = %v", i, l)
		}
	}

	// Corner (0,0) sees one in-grid triangle and five boundary ones.
	want := [3]float32{0, 1, 5}
	l := float32(gomath.Sqrt(26))
	got := normals[0]
	for k := range got {
		if gomath.Abs(float64(got[k]-want[k]/l)) > 1e-6 {
			t.Fatalf("corner normal = %v, want %v", got, [3]float32{0, 1 / l, 5 / l})
		}
	}
}

func TestSurfaceTriangleWindingFacesUp(t *testing.T) {
	s, err := NewSurface(2, 2, nil)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	pos, idx := s.Positions(), s.Indices()
	for i := 0; i < len(idx); i += 3 {
		n := cross(sub(pos[idx[i+1]], pos[idx[i]]), sub(pos[idx[i+2]], pos[idx[i]]))
		if n[1] <= 0 {
			t.Errorf("triangle %d normal = %v, want +Y", i/3, n)
		}
	}
}

func TestSurfaceDeterministic(t *testing.T) {
	waves := []WavePoint{
		{Source: math.Vec2{X: -0.5}, Falloff: 1, Coefficient: 0.2, TimeRate: 2, Period: 6},
		{Source: math.Vec2{X: 0.5, Y: 0.5}, Falloff: 3, Coefficient: 0.1, TimeRate: -1, Period: 9},
	}
	a, _ := NewSurface(6, 6, waves)
	b, _ := NewSurface(6, 6, waves)
	a.Update(1)
	a.Update(3)
	b.Update(3)

	for i := range a.Positions() {
		if a.Positions()[i] != b.Positions()[i] || a.Normals()[i] != b.Normals()[i] {
			t.Fatalf("vertex %d differs between surfaces", i)
		}
	}
}
