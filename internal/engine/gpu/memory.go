package gpu

import (
	"errors"
	"fmt"
)

// Memory device errors.
var (
	ErrUnknownBuffer = errors.New("unknown buffer handle")
	ErrBufferMapped  = errors.New("buffer is mapped")
	ErrNotMapped     = errors.New("buffer is not mapped")
	ErrUnknownTex    = errors.New("unknown texture handle")
	ErrTextureSize   = errors.New("texture size mismatch")
)

type memBuffer struct {
	kind   BufferKind
	usage  Usage
	data   []byte
	mapped bool
}

// MemoryDevice keeps buffer contents in host memory. It backs tests and
// headless runs, and reports the bookkeeping a real driver hides.
type MemoryDevice struct {
	buffers map[Handle]*memBuffer
	bound    map[BufferKind]Handle
	textures map[Handle][2]int
	next     Handle
}

// NewMemoryDevice creates an empty memory device.
func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{
		buffers:  make(map[Handle]*memBuffer),
		bound:    make(map[BufferKind]Handle),
		textures: make(map[Handle][2]int),
	}
}

// CreateBuffer allocates a buffer holding a copy of data.
func (d *MemoryDevice) CreateBuffer(kind BufferKind, data []byte, usage Usage) (Handle, error) {
	d.next++
	h := d.next
	buf := &memBuffer{kind: kind, usage: usage, data: make([]byte, len(data))}
	copy(buf.data, data)
	d.buffers[h] = buf
	return h, nil
}

// DeleteBuffer releases a buffer.
func (d *MemoryDevice) DeleteBuffer(kind BufferKind, h Handle) error {
	buf, err := d.lookup(kind, h)
	if err != nil {
		return err
	}
	if buf.mapped {
		return fmt.Errorf("delete %d: %w", h, ErrBufferMapped)
	}
	delete(d.buffers, h)
	if d.bound[kind] == h {
		d.bound[kind] = 0
	}
	return nil
}

// MapBuffer returns the buffer bytes. ReadOnly maps get a copy, so writes
// through them are dropped.
func (d *MemoryDevice) MapBuffer(kind BufferKind, h Handle, access Access) ([]byte, error) {
	buf, err := d.lookup(kind, h)
	if err != nil {
		return nil, err
	}
	if buf.mapped {
		return nil, fmt.Errorf("map %d: %w", h, ErrBufferMapped)
	}
	buf.mapped = true
	if access == ReadOnly {
		view := make([]byte, len(buf.data))
		copy(view, buf.data)
		return view, nil
	}
	return buf.data, nil
}

// UnmapBuffer ends a mapping.
func (d *MemoryDevice) UnmapBuffer(kind BufferKind, h Handle) error {
	buf, err := d.lookup(kind, h)
	if err != nil {
		return err
	}
	if !buf.mapped {
		return fmt.Errorf("unmap %d: %w", h, ErrNotMapped)
	}
	buf.mapped = false
	return nil
}

// BindBuffer records h as the active buffer for its kind.
func (d *MemoryDevice) BindBuffer(kind BufferKind, h Handle) error {
	buf, err := d.lookup(kind, h)
	if err != nil {
		return err
	}
	if buf.mapped {
		return fmt.Errorf("bind %d: %w", h, ErrBufferMapped)
	}
	d.bound[kind] = h
	return nil
}

// Bound returns the active buffer for kind, or zero.
func (d *MemoryDevice) Bound(kind BufferKind) Handle {
	return d.bound[kind]
}

// Contents returns a copy of the device-side bytes of h.
func (d *MemoryDevice) Contents(h Handle) ([]byte, bool) {
	buf, ok := d.buffers[h]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(buf.data))
	copy(out, buf.data)
	return out, true
}

// BufferUsage returns the usage hint h was allocated with.
func (d *MemoryDevice) BufferUsage(h Handle) (Usage, bool) {
	buf, ok := d.buffers[h]
	if !ok {
		return 0, false
	}
	return buf.usage, true
}

// CreateTexture records a width x height texture. rgba must hold exactly
// four bytes per texel.
func (d *MemoryDevice) CreateTexture(width, height int, rgba []byte) (Handle, error) {
	if width <= 0 || height <= 0 || len(rgba) != width*height*4 {
		return 0, fmt.Errorf("%dx%d with %d bytes: %w", width, height, len(rgba), ErrTextureSize)
	}
	d.next++
	d.textures[d.next] = [2]int{width, height}
	return d.next, nil
}

// DeleteTexture releases a texture.
func (d *MemoryDevice) DeleteTexture(h Handle) error {
	if _, ok := d.textures[h]; !ok {
		return fmt.Errorf("texture %d: %w", h, ErrUnknownTex)
	}
	delete(d.textures, h)
	return nil
}

// LiveTextures returns the number of allocated textures.
func (d *MemoryDevice) LiveTextures() int {
	return len(d.textures)
}

// Live returns the number of allocated buffers.
func (d *MemoryDevice) Live() int {
	return len(d.buffers)
}

func (d *MemoryDevice) lookup(kind BufferKind, h Handle) (*memBuffer, error) {
	buf, ok := d.buffers[h]
	if !ok {
		return nil, fmt.Errorf("%s buffer %d: %w", kind, h, ErrUnknownBuffer)
	}
	if buf.kind != kind {
		return nil, fmt.Errorf("buffer %d is a %s buffer, not %s: %w", h, buf.kind, kind, ErrUnknownBuffer)
	}
	return buf, nil
}
