package mesh

import (
	"errors"
	"testing"

	"github.com/Faultbox/raydemo/internal/engine/buffer"
	"github.com/Faultbox/raydemo/internal/engine/gpu"
	"github.com/Faultbox/raydemo/pkg/math"
)

func quadFaces() []Face {
	p := []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}}
	uv := []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	faces := []Face{
		FlatFace(p[0], p[1], p[2], uv[0], uv[1], uv[2]),
		FlatFace(p[0], p[2], p[3], uv[0], uv[2], uv[3]),
	}
	GenerateTangents(faces)
	return faces
}

func TestTriangleSoupCreate(t *testing.T) {
	dev := gpu.NewMemoryDevice()
	soup := NewTriangleSoup(dev)
	faces := quadFaces()

	if err := soup.Create(faces); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if soup.FaceCount() != 2 {
		t.Errorf("FaceCount = %d, want 2", soup.FaceCount())
	}
	if soup.Normals.Count() != 6 || soup.Tangents.Count() != 6 || soup.TexCoords.Count() != 6 {
		t.Errorf("attribute counts = %d/%d/%d, want 6", soup.Normals.Count(), soup.Tangents.Count(), soup.TexCoords.Count())
	}

	pos := soup.Positions.Mirror()
	for i, f := range faces {
		for v := 0; v < 3; v++ {
			if pos[3*i+v] != f.Positions[v].F32() {
				t.Errorf("position[%d] = %v, want %v", 3*i+v, pos[3*i+v], f.Positions[v].F32())
			}
			if got := soup.Tangents.Mirror()[3*i+v]; got != f.Tangents[v].F32() {
				t.Errorf("tangent[%d] = %v, want %v", 3*i+v, got, f.Tangents[v].F32())
			}
			if got := soup.TexCoords.Mirror()[3*i+v]; got != f.TexCoords[v].F32() {
				t.Errorf("texcoord[%d] = %v, want %v", 3*i+v, got, f.TexCoords[v].F32())
			}
		}
	}

	if u, ok := dev.BufferUsage(soup.Positions.Handle()); !ok || u != gpu.StaticDraw {
		t.Errorf("usage = %v (%v), want static_draw", u, ok)
	}
	if dev.Live() != 4 {
		t.Errorf("live buffers = %d, want 4", dev.Live())
	}

	// Device copy matches the mirror after the map/unmap cycle.
	view, err := soup.Positions.Map(true)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if view[4] != faces[1].Positions[1].F32() {
		t.Errorf("device position[4] = %v, want %v", view[4], faces[1].Positions[1].F32())
	}
	if err := soup.Positions.Unmap(); err != nil {
		t.Fatalf("Unmap: %v", err)
	}
}

func TestTriangleSoupCreateWhileMapped(t *testing.T) {
	dev := gpu.NewMemoryDevice()
	soup := NewTriangleSoup(dev)
	if err := soup.Create(quadFaces()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := soup.Normals.Map(false); err != nil {
		t.Fatalf("Map: %v", err)
	}

	err := soup.Create(quadFaces()[:1])
	if !errors.Is(err, buffer.ErrInvalidState) {
		t.Fatalf("Create while mapped: err = %v, want ErrInvalidState", err)
	}
	if soup.Positions.Count() != 6 {
		t.Errorf("positions count = %d, want untouched 6", soup.Positions.Count())
	}

	if err := soup.Normals.Unmap(); err != nil {
		t.Fatalf("Unmap: %v", err)
	}
	if err := soup.Create(quadFaces()[:1]); err != nil {
		t.Fatalf("Create after unmap: %v", err)
	}
	if soup.FaceCount() != 1 {
		t.Errorf("FaceCount = %d, want 1", soup.FaceCount())
	}
	if dev.Live() != 4 {
		t.Errorf("live buffers = %d, want 4 after recreate", dev.Live())
	}
}

func TestTriangleSoupDestroy(t *testing.T) {
	dev := gpu.NewMemoryDevice()
	soup := NewTriangleSoup(dev)
	if err := soup.Create(quadFaces()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := soup.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if dev.Live() != 0 {
		t.Errorf("live buffers = %d, want 0", dev.Live())
	}
	if err := soup.Create(quadFaces()); !errors.Is(err, buffer.ErrInvalidState) {
		t.Errorf("Create after Destroy: err = %v, want ErrInvalidState", err)
	}
}
