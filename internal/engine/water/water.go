// Package water generates an animated height-field surface from a set of
// radial wave sources.
package water

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/raydemo/pkg/math"
)

// ErrInvalidResolution is returned for a grid with fewer than one cell per axis.
var ErrInvalidResolution = errors.New("invalid water resolution")

// WavePoint is a radial wave source on the XZ plane.
type WavePoint struct {
	Source      math.Vec2
	Falloff     float64
	Coefficient float64
	TimeRate    float64
	Period      float64
}

// Amplitude returns the contribution of this source at distance r and time t.
func (w WavePoint) Amplitude(r, t float64) float64 {
	return w.Coefficient * gomath.Exp(-w.Falloff*r) * gomath.Sin(w.Period*r+w.TimeRate*t)
}

// Height returns the surface height at pos and time t: the sum of every
// source's amplitude at its distance from pos. Zero with no sources.
func Height(waves []WavePoint, pos math.Vec2, t float64) float64 {
	h := 0.0
	for _, w := range waves {
		h += w.Amplitude(pos.Distance(w.Source), t)
	}
	return h
}

// DefaultBoundaryNormal is the contribution of a neighbor triangle that falls
// outside the grid.
var DefaultBoundaryNormal = [3]float32{0, 0, 1}

// Surface is a (resx+1) x (resz+1) vertex grid spanning [-1,1] on X and Z.
// Vertex (i, j) lives at index j*(resx+1)+i.
type Surface struct {
	Waves []WavePoint

	// BoundaryNormal replaces the face normal of a missing neighbor
	// triangle at the grid edge.
	BoundaryNormal [3]float32

	resx, resz int
	positions  [][3]float32
	normals    [][3]float32
	indices    []uint32
}

// NewSurface allocates the grid and its fixed triangulation.
func NewSurface(resx, resz int, waves []WavePoint) (*Surface, error) {
	if resx < 1 || resz < 1 {
		return nil, fmt.Errorf("%dx%d: %w", resx, resz, ErrInvalidResolution)
	}
	n := (resx + 1) * (resz + 1)
	s := &Surface{
		Waves:          waves,
		BoundaryNormal: DefaultBoundaryNormal,
		resx:           resx,
		resz:           resz,
		positions:      make([][3]float32, n),
		normals:        make([][3]float32, n),
		indices:        make([]uint32, 0, resx*resz*6),
	}

	for j := 0; j < resz; j++ {
		for i := 0; i < resx; i++ {
			v00 := uint32(s.index(i, j))
			v10 := uint32(s.index(i+1, j))
			v01 := uint32(s.index(i, j+1))
			v11 := uint32(s.index(i+1, j+1))
			s.indices = append(s.indices, v00, v01, v10, v10, v01, v11)
		}
	}
	s.Update(0)
	return s, nil
}

// Resolution returns the cell counts along X and Z.
func (s *Surface) Resolution() (int, int) {
	return s.resx, s.resz
}

// Height evaluates the surface at pos for time t.
func (s *Surface) Height(pos math.Vec2, t float64) float64 {
	return Height(s.Waves, pos, t)
}

// Update recomputes every vertex height and normal for time t.
func (s *Surface) Update(t float64) {
	for j := 0; j <= s.resz; j++ {
		z := -1 + 2*float64(j)/float64(s.resz)
		for i := 0; i <= s.resx; i++ {
			x := -1 + 2*float64(i)/float64(s.resx)
			y := s.Height(math.Vec2{X: x, Y: z}, t)
			s.positions[s.index(i, j)] = [3]float32{float32(x), float32(y), float32(z)}
		}
	}
	for j := 0; j <= s.resz; j++ {
		for i := 0; i <= s.resx; i++ {
			s.normals[s.index(i, j)] = s.vertexNormal(i, j)
		}
	}
}

// Positions returns the vertex positions. The slice is reused by Update.
func (s *Surface) Positions() [][3]float32 { return s.positions }

// Normals returns the vertex normals. The slice is reused by Update.
func (s *Surface) Normals() [][3]float32 { return s.normals }

// Indices returns the triangle list, six indices per cell.
func (s *Surface) Indices() []uint32 { return s.indices }

func (s *Surface) index(i, j int) int {
	return j*(s.resx+1) + i
}

func (s *Surface) inside(i, j int) bool {
	return i >= 0 && i <= s.resx && j >= 0 && j <= s.resz
}

// hexNeighbors lists the six grid neighbors sharing a triangle with a vertex,
// in winding order.
var hexNeighbors = [6][2]int{
	{1, 0}, {0, 1}, {-1, 1}, {-1, 0}, {0, -1}, {1, -1},
}

// vertexNormal averages the face normals of the six fan triangles around
// (i, j) and normalizes the result.
func (s *Surface) vertexNormal(i, j int) [3]float32 {
	c := s.positions[s.index(i, j)]
	var sum [3]float32
	for k := range hexNeighbors {
		a := hexNeighbors[k]
		b := hexNeighbors[(k+1)%len(hexNeighbors)]
		ai, aj := i+a[0], j+a[1]
		bi, bj := i+b[0], j+b[1]

		n := s.BoundaryNormal
		if s.inside(ai, aj) && s.inside(bi, bj) {
			n = faceNormal(c, s.positions[s.index(ai, aj)], s.positions[s.index(bi, bj)])
		}
		sum[0] += n[0]
		sum[1] += n[1]
		sum[2] += n[2]
	}
	return normalize(scale(sum, 1.0/6))
}

// faceNormal returns the unit normal of the fan triangle (c, a, b), oriented
// so a flat surface faces +Y.
func faceNormal(c, a, b [3]float32) [3]float32 {
	return normalize(cross(sub(b, c), sub(a, c)))
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func scale(a [3]float32, s float32) [3]float32 {
	return [3]float32{a[0] * s, a[1] * s, a[2] * s}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(a [3]float32) [3]float32 {
	l := math32.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
	if l < 1e-12 {
		return a
	}
	return scale(a, 1/l)
}
