// Package opengl implements the gpu device interfaces on an OpenGL 4.1
// core context.
package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/raydemo/internal/engine/gpu"
)

// Device implements gpu.Backend on the current OpenGL context.
// It must be created and used on the thread owning the context.
type Device struct {
	// zero-sized buffers cannot be mapped by GL; track them so Unmap matches
	emptyMaps map[gpu.Handle]bool
}

// NewDevice returns a device bound to the current GL context.
func NewDevice() *Device {
	return &Device{emptyMaps: make(map[gpu.Handle]bool)}
}

var _ gpu.Backend = (*Device)(nil)

// Target returns the GL binding point for kind.
func Target(kind gpu.BufferKind) uint32 {
	if kind == gpu.IndexBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func glUsage(u gpu.Usage) uint32 {
	switch u {
	case gpu.StreamDraw:
		return gl.STREAM_DRAW
	case gpu.StreamRead:
		return gl.STREAM_READ
	case gpu.StreamCopy:
		return gl.STREAM_COPY
	case gpu.StaticRead:
		return gl.STATIC_READ
	case gpu.StaticCopy:
		return gl.STATIC_COPY
	case gpu.DynamicDraw:
		return gl.DYNAMIC_DRAW
	case gpu.DynamicRead:
		return gl.DYNAMIC_READ
	case gpu.DynamicCopy:
		return gl.DYNAMIC_COPY
	default:
		return gl.STATIC_DRAW
	}
}

func glCheck(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", op, code)
	}
	return nil
}

// CreateBuffer generates a buffer object and uploads data.
func (d *Device) CreateBuffer(kind gpu.BufferKind, data []byte, usage gpu.Usage) (gpu.Handle, error) {
	target := Target(kind)

	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(target, id)

	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	gl.BufferData(target, len(data), ptr, glUsage(usage))

	if err := glCheck("glBufferData"); err != nil {
		gl.DeleteBuffers(1, &id)
		return 0, err
	}
	return gpu.Handle(id), nil
}

// DeleteBuffer deletes the buffer object.
func (d *Device) DeleteBuffer(kind gpu.BufferKind, h gpu.Handle) error {
	id := uint32(h)
	gl.DeleteBuffers(1, &id)
	delete(d.emptyMaps, h)
	return glCheck("glDeleteBuffers")
}

// MapBuffer maps the whole buffer into client memory.
func (d *Device) MapBuffer(kind gpu.BufferKind, h gpu.Handle, access gpu.Access) ([]byte, error) {
	target := Target(kind)
	gl.BindBuffer(target, uint32(h))

	var size int32
	gl.GetBufferParameteriv(target, gl.BUFFER_SIZE, &size)
	if size == 0 {
		d.emptyMaps[h] = true
		return nil, nil
	}

	mode := uint32(gl.READ_WRITE)
	if access == gpu.ReadOnly {
		mode = gl.READ_ONLY
	}
	ptr := gl.MapBuffer(target, mode)
	if ptr == nil {
		if err := glCheck("glMapBuffer"); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("glMapBuffer: buffer %d returned nil", h)
	}
	return unsafe.Slice((*byte)(ptr), int(size)), nil
}

// UnmapBuffer releases the mapping. GL reports false when the data store
// was corrupted while mapped (for example by a mode switch).
func (d *Device) UnmapBuffer(kind gpu.BufferKind, h gpu.Handle) error {
	if d.emptyMaps[h] {
		delete(d.emptyMaps, h)
		return nil
	}
	target := Target(kind)
	gl.BindBuffer(target, uint32(h))
	if !gl.UnmapBuffer(target) {
		return fmt.Errorf("glUnmapBuffer: buffer %d contents lost", h)
	}
	return glCheck("glUnmapBuffer")
}

// BindBuffer makes h the active buffer of its kind.
func (d *Device) BindBuffer(kind gpu.BufferKind, h gpu.Handle) error {
	gl.BindBuffer(Target(kind), uint32(h))
	return glCheck("glBindBuffer")
}

// CreateTexture uploads an RGBA8 image with a mip chain and repeat wrapping.
func (d *Device) CreateTexture(width, height int, rgba []byte) (gpu.Handle, error) {
	if width <= 0 || height <= 0 || len(rgba) != width*height*4 {
		return 0, fmt.Errorf("glTexImage2D: %dx%d with %d bytes", width, height, len(rgba))
	}
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba[0]))

	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)

	if err := glCheck("glTexImage2D"); err != nil {
		gl.DeleteTextures(1, &id)
		return 0, err
	}
	return gpu.Handle(id), nil
}

// DeleteTexture deletes the texture object.
func (d *Device) DeleteTexture(h gpu.Handle) error {
	id := uint32(h)
	gl.DeleteTextures(1, &id)
	return glCheck("glDeleteTextures")
}
