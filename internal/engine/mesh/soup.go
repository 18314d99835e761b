package mesh

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/raydemo/internal/engine/buffer"
	"github.com/Faultbox/raydemo/internal/engine/gpu"
	"github.com/Faultbox/raydemo/internal/logger"
)

// TriangleSoup holds unindexed triangle attributes, three entries per face
// in face order.
type TriangleSoup struct {
	Positions *buffer.GeometryBuffer[[3]float32]
	Normals   *buffer.GeometryBuffer[[3]float32]
	Tangents  *buffer.GeometryBuffer[[4]float32]
	TexCoords *buffer.GeometryBuffer[[2]float32]
}

// NewTriangleSoup creates an empty soup on device.
func NewTriangleSoup(device gpu.Device) *TriangleSoup {
	return &TriangleSoup{
		Positions: buffer.New[[3]float32](device, gpu.VertexBuffer),
		Normals:   buffer.New[[3]float32](device, gpu.VertexBuffer),
		Tangents:  buffer.New[[4]float32](device, gpu.VertexBuffer),
		TexCoords: buffer.New[[2]float32](device, gpu.VertexBuffer),
	}
}

// Create rebuilds all four buffers from faces. Nothing is touched if any
// buffer is currently mapped.
func (s *TriangleSoup) Create(faces []Face) error {
	for name, st := range map[string]buffer.State{
		"positions": s.Positions.State(),
		"normals":   s.Normals.State(),
		"tangents":  s.Tangents.State(),
		"texcoords": s.TexCoords.State(),
	} {
		if st != buffer.Unmapped {
			return fmt.Errorf("%s buffer %s: %w", name, st, buffer.ErrInvalidState)
		}
	}

	n := 3 * len(faces)

	err := fill(s.Positions, n, func(dst [][3]float32) {
		for i := range faces {
			for v := 0; v < 3; v++ {
				dst[3*i+v] = faces[i].Positions[v].F32()
			}
		}
	})
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	err = fill(s.Normals, n, func(dst [][3]float32) {
		for i := range faces {
			for v := 0; v < 3; v++ {
				dst[3*i+v] = faces[i].Normals[v].F32()
			}
		}
	})
	if err != nil {
		return fmt.Errorf("normals: %w", err)
	}
	err = fill(s.Tangents, n, func(dst [][4]float32) {
		for i := range faces {
			for v := 0; v < 3; v++ {
				dst[3*i+v] = faces[i].Tangents[v].F32()
			}
		}
	})
	if err != nil {
		return fmt.Errorf("tangents: %w", err)
	}
	err = fill(s.TexCoords, n, func(dst [][2]float32) {
		for i := range faces {
			for v := 0; v < 3; v++ {
				dst[3*i+v] = faces[i].TexCoords[v].F32()
			}
		}
	})
	if err != nil {
		return fmt.Errorf("texcoords: %w", err)
	}

	logger.Debug("triangle soup assembled", zap.Int("faces", len(faces)))
	return nil
}

// fill recreates b with n zeroed elements and writes it through one map.
func fill[T buffer.Element](b *buffer.GeometryBuffer[T], n int, write func([]T)) error {
	if err := b.Create(n, nil, gpu.StaticDraw); err != nil {
		return err
	}
	view, err := b.Map(false)
	if err != nil {
		return err
	}
	write(view)
	return b.Unmap()
}

// FaceCount returns the number of triangles.
func (s *TriangleSoup) FaceCount() int {
	return s.Positions.Count() / 3
}

// Destroy releases all four buffers.
func (s *TriangleSoup) Destroy() error {
	return multierr.Combine(
		s.Positions.Destroy(),
		s.Normals.Destroy(),
		s.Tangents.Destroy(),
		s.TexCoords.Destroy(),
	)
}
