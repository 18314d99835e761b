package water

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/raydemo/internal/engine/buffer"
	"github.com/Faultbox/raydemo/internal/engine/gpu"
)

// Mesh mirrors a Surface into device buffers. Vertex attributes use a
// dynamic usage and are rewritten on every Upload.
type Mesh struct {
	Surface   *Surface
	Positions *buffer.GeometryBuffer[[3]float32]
	Normals   *buffer.GeometryBuffer[[3]float32]
	Indices   *buffer.GeometryBuffer[uint32]
}

// NewMesh creates the buffers for surface and uploads its t=0 state.
func NewMesh(device gpu.Device, surface *Surface) (*Mesh, error) {
	m := &Mesh{
		Surface:   surface,
		Positions: buffer.New[[3]float32](device, gpu.VertexBuffer),
		Normals:   buffer.New[[3]float32](device, gpu.VertexBuffer),
		Indices:   buffer.New[uint32](device, gpu.IndexBuffer),
	}
	idx := surface.Indices()
	if err := m.Indices.Create(len(idx), idx, gpu.StaticDraw); err != nil {
		return nil, fmt.Errorf("water indices: %w", err)
	}
	pos, nrm := surface.Positions(), surface.Normals()
	if err := m.Positions.Create(len(pos), pos, gpu.DynamicDraw); err != nil {
		return nil, multierr.Append(fmt.Errorf("water positions: %w", err), m.Destroy())
	}
	if err := m.Normals.Create(len(nrm), nrm, gpu.DynamicDraw); err != nil {
		return nil, multierr.Append(fmt.Errorf("water normals: %w", err), m.Destroy())
	}
	return m, nil
}

// Upload advances the surface to time t and rewrites the vertex buffers.
func (m *Mesh) Upload(t float64) error {
	m.Surface.Update(t)
	if err := m.Positions.Write(0, m.Surface.Positions()); err != nil {
		return fmt.Errorf("water positions: %w", err)
	}
	if err := m.Normals.Write(0, m.Surface.Normals()); err != nil {
		return fmt.Errorf("water normals: %w", err)
	}
	return nil
}

// IndexCount returns the number of indices to draw.
func (m *Mesh) IndexCount() int {
	return m.Indices.Count()
}

// Destroy releases the device buffers.
func (m *Mesh) Destroy() error {
	return multierr.Combine(
		m.Positions.Destroy(),
		m.Normals.Destroy(),
		m.Indices.Destroy(),
	)
}
