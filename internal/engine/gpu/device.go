// Package gpu defines the device-buffer primitive the geometry layer uploads
// into, with a host-memory backend for headless use. The OpenGL backend
// lives in gpu/opengl.
package gpu

import "fmt"

// Handle identifies a device buffer. Zero means no buffer.
type Handle uint32

// BufferKind selects the binding target of a buffer.
type BufferKind int

// Buffer kinds.
const (
	VertexBuffer BufferKind = iota
	IndexBuffer
)

// String returns the kind name.
func (k BufferKind) String() string {
	switch k {
	case VertexBuffer:
		return "vertex"
	case IndexBuffer:
		return "index"
	default:
		return fmt.Sprintf("BufferKind(%d)", int(k))
	}
}

// Usage is the allocation hint passed to the device. It never affects
// correctness.
type Usage int

// Usage hints: frequency (stream/static/dynamic) x access (draw/read/copy).
const (
	StreamDraw Usage = iota
	StreamRead
	StreamCopy
	StaticDraw
	StaticRead
	StaticCopy
	DynamicDraw
	DynamicRead
	DynamicCopy
)

var usageNames = [...]string{
	"stream_draw", "stream_read", "stream_copy",
	"static_draw", "static_read", "static_copy",
	"dynamic_draw", "dynamic_read", "dynamic_copy",
}

// String returns the snake_case name used in config and scene files.
func (u Usage) String() string {
	if u < 0 || int(u) >= len(usageNames) {
		return fmt.Sprintf("Usage(%d)", int(u))
	}
	return usageNames[u]
}

// Valid reports whether u is one of the nine defined hints.
func (u Usage) Valid() bool {
	return u >= StreamDraw && u <= DynamicCopy
}

// ParseUsage converts a name produced by Usage.String.
func ParseUsage(s string) (Usage, error) {
	for i, name := range usageNames {
		if name == s {
			return Usage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown buffer usage %q", s)
}

// Access is the mapping mode.
type Access int

// Map access modes.
const (
	ReadWrite Access = iota
	ReadOnly
)

// Device allocates, uploads, maps and binds buffers.
//
// A mapped slice is only valid until UnmapBuffer. With ReadOnly access,
// writes to the slice may be discarded.
type Device interface {
	CreateBuffer(kind BufferKind, data []byte, usage Usage) (Handle, error)
	DeleteBuffer(kind BufferKind, h Handle) error
	MapBuffer(kind BufferKind, h Handle, access Access) ([]byte, error)
	UnmapBuffer(kind BufferKind, h Handle) error
	BindBuffer(kind BufferKind, h Handle) error
}

// TextureDevice uploads and releases 2D RGBA8 textures.
type TextureDevice interface {
	CreateTexture(width, height int, rgba []byte) (Handle, error)
	DeleteTexture(h Handle) error
}

// Backend is a device that handles both buffers and textures.
type Backend interface {
	Device
	TextureDevice
}
