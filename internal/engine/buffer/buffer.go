// Package buffer pairs CPU-side geometry arrays with device buffers.
//
// A GeometryBuffer owns one CPU mirror and one device buffer of the same
// byte size. Access to the device copy goes through an exclusive Map/Unmap
// pair; Create, Bind and Clone are only legal while unmapped.
package buffer

import (
	"errors"
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/raydemo/internal/engine/gpu"
	"github.com/Faultbox/raydemo/internal/logger"
)

// Buffer errors.
var (
	ErrInvalidState    = errors.New("invalid buffer state")
	ErrInvalidArgument = errors.New("invalid buffer argument")
)

// Element is the set of element types with a fixed, padding-free byte layout
// that can be mirrored into a device buffer as-is.
type Element interface {
	~float32 | ~uint16 | ~uint32 | ~[2]float32 | ~[3]float32 | ~[4]float32
}

// State is the mapping state of a buffer.
type State int

// Buffer states.
const (
	Unmapped State = iota
	MappedReadWrite
	MappedReadOnly
	Destroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unmapped:
		return "unmapped"
	case MappedReadWrite:
		return "mapped-rw"
	case MappedReadOnly:
		return "mapped-ro"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// GeometryBuffer is a CPU array of T mirrored by a device buffer.
type GeometryBuffer[T Element] struct {
	device gpu.Device
	kind   gpu.BufferKind
	usage  gpu.Usage
	handle gpu.Handle
	data   []T
	mapped []T
	state  State
}

// New returns an empty buffer of the given kind. No device memory is
// allocated until Create.
func New[T Element](device gpu.Device, kind gpu.BufferKind) *GeometryBuffer[T] {
	return &GeometryBuffer[T]{
		device: device,
		kind:   kind,
		usage:  gpu.StaticDraw,
	}
}

// NewWithData creates a buffer and uploads data.
func NewWithData[T Element](device gpu.Device, kind gpu.BufferKind, data []T, usage gpu.Usage) (*GeometryBuffer[T], error) {
	b := New[T](device, kind)
	if err := b.Create(len(data), data, usage); err != nil {
		return nil, err
	}
	return b, nil
}

// Create (re)allocates the buffer with count elements. A nil data
// zero-fills; otherwise the first count elements of data are copied and the
// caller keeps ownership of data. The full array is uploaded to a fresh
// device buffer and any previous one is released.
func (b *GeometryBuffer[T]) Create(count int, data []T, usage gpu.Usage) error {
	if b.state != Unmapped {
		return fmt.Errorf("create while %s: %w", b.state, ErrInvalidState)
	}
	if count < 0 {
		return fmt.Errorf("negative element count %d: %w", count, ErrInvalidArgument)
	}
	if data != nil && len(data) < count {
		return fmt.Errorf("count %d exceeds %d supplied elements: %w", count, len(data), ErrInvalidArgument)
	}
	if !usage.Valid() {
		return fmt.Errorf("usage %s: %w", usage, ErrInvalidArgument)
	}

	next := make([]T, count)
	if data != nil {
		copy(next, data[:count])
	}

	// The old contents are dropped before allocating, so a failed allocation
	// leaves the buffer empty rather than half-built.
	if b.handle != 0 {
		if err := b.device.DeleteBuffer(b.kind, b.handle); err != nil {
			return fmt.Errorf("releasing %s buffer %d: %w", b.kind, b.handle, err)
		}
	}
	b.data = nil
	b.handle = 0

	h, err := b.device.CreateBuffer(b.kind, asBytes(next), usage)
	if err != nil {
		return fmt.Errorf("allocating %s buffer: %w", b.kind, err)
	}
	b.data, b.usage, b.handle = next, usage, h

	logger.Debug("geometry buffer created",
		zap.Stringer("kind", b.kind),
		zap.Int("count", count),
		zap.Int("bytes", b.ByteSize()),
		zap.Stringer("usage", usage),
	)
	return nil
}

// Map gives exclusive access to the device-mirrored contents until Unmap.
// With readOnly the returned slice must not be written; writes may be lost.
func (b *GeometryBuffer[T]) Map(readOnly bool) ([]T, error) {
	if b.state != Unmapped {
		return nil, fmt.Errorf("map while %s: %w", b.state, ErrInvalidState)
	}
	if b.handle == 0 {
		return nil, fmt.Errorf("map before create: %w", ErrInvalidState)
	}

	access := gpu.ReadWrite
	next := MappedReadWrite
	if readOnly {
		access = gpu.ReadOnly
		next = MappedReadOnly
	}

	raw, err := b.device.MapBuffer(b.kind, b.handle, access)
	if err != nil {
		return nil, fmt.Errorf("mapping %s buffer %d: %w", b.kind, b.handle, err)
	}
	if len(raw) < b.ByteSize() {
		_ = b.device.UnmapBuffer(b.kind, b.handle)
		return nil, fmt.Errorf("device mapped %d bytes, mirror holds %d: %w", len(raw), b.ByteSize(), ErrInvalidState)
	}
	b.mapped = fromBytes[T](raw, len(b.data))
	b.state = next
	return b.mapped, nil
}

// Unmap ends the current mapping. Writes made through a read-write map are
// kept in the CPU mirror as well as on the device.
func (b *GeometryBuffer[T]) Unmap() error {
	if b.state != MappedReadWrite && b.state != MappedReadOnly {
		return fmt.Errorf("unmap while %s: %w", b.state, ErrInvalidState)
	}
	if b.state == MappedReadWrite {
		copy(b.data, b.mapped)
	}
	b.mapped = nil
	b.state = Unmapped

	if err := b.device.UnmapBuffer(b.kind, b.handle); err != nil {
		return fmt.Errorf("unmapping %s buffer %d: %w", b.kind, b.handle, err)
	}
	return nil
}

// Bind makes this buffer the active one for subsequent draws.
func (b *GeometryBuffer[T]) Bind() error {
	if b.state != Unmapped {
		return fmt.Errorf("bind while %s: %w", b.state, ErrInvalidState)
	}
	if b.handle == 0 {
		return fmt.Errorf("bind before create: %w", ErrInvalidState)
	}
	return b.device.BindBuffer(b.kind, b.handle)
}

// Clone returns an independent buffer with the same contents, kind and
// usage hint.
func (b *GeometryBuffer[T]) Clone() (*GeometryBuffer[T], error) {
	if b.state != Unmapped {
		return nil, fmt.Errorf("clone while %s: %w", b.state, ErrInvalidState)
	}
	c := New[T](b.device, b.kind)
	if err := c.Create(len(b.data), b.data, b.usage); err != nil {
		return nil, err
	}
	return c, nil
}

// Write copies src into the buffer starting at element offset, holding a
// read-write map only for the copy.
func (b *GeometryBuffer[T]) Write(offset int, src []T) error {
	if offset < 0 || offset+len(src) > len(b.data) {
		return fmt.Errorf("write [%d, %d) outside %d elements: %w", offset, offset+len(src), len(b.data), ErrInvalidArgument)
	}
	view, err := b.Map(false)
	if err != nil {
		return err
	}
	copy(view[offset:], src)
	return b.Unmap()
}

// Destroy releases the device buffer. Destroying twice is a no-op.
func (b *GeometryBuffer[T]) Destroy() error {
	switch b.state {
	case Destroyed:
		return nil
	case MappedReadWrite, MappedReadOnly:
		return fmt.Errorf("destroy while %s: %w", b.state, ErrInvalidState)
	}

	var err error
	if b.handle != 0 {
		err = b.device.DeleteBuffer(b.kind, b.handle)
		b.handle = 0
	}
	b.data = nil
	b.state = Destroyed
	return err
}

// Count returns the element count.
func (b *GeometryBuffer[T]) Count() int {
	return len(b.data)
}

// ByteSize returns the size of the device buffer in bytes.
func (b *GeometryBuffer[T]) ByteSize() int {
	var zero T
	return len(b.data) * int(unsafe.Sizeof(zero))
}

// Mirror returns the CPU-side array. Callers must treat it as read-only.
func (b *GeometryBuffer[T]) Mirror() []T {
	return b.data
}

// State returns the mapping state.
func (b *GeometryBuffer[T]) State() State {
	return b.state
}

// Kind returns the binding target kind.
func (b *GeometryBuffer[T]) Kind() gpu.BufferKind {
	return b.kind
}

// Usage returns the allocation hint of the last Create.
func (b *GeometryBuffer[T]) Usage() gpu.Usage {
	return b.usage
}

// Handle returns the device buffer handle, zero before Create.
func (b *GeometryBuffer[T]) Handle() gpu.Handle {
	return b.handle
}

func asBytes[T Element](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(s[0])))
}

func fromBytes[T Element](raw []byte, count int) []T {
	if count == 0 {
		return make([]T, 0)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), count)
}
