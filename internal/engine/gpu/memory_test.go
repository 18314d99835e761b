package gpu

import (
	"bytes"
	"errors"
	"testing"
)

func TestMemoryDeviceMapReadWrite(t *testing.T) {
	d := NewMemoryDevice()
	h, err := d.CreateBuffer(VertexBuffer, []byte{1, 2, 3}, StaticDraw)
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}

	view, err := d.MapBuffer(VertexBuffer, h, ReadWrite)
	if err != nil {
		t.Fatalf("MapBuffer failed: %v", err)
	}
	view[0] = 9
	if err := d.UnmapBuffer(VertexBuffer, h); err != nil {
		t.Fatalf("UnmapBuffer failed: %v", err)
	}

	got, _ := d.Contents(h)
	if !bytes.Equal(got, []byte{9, 2, 3}) {
		t.Errorf("expected write to persist, got %v", got)
	}
}

func TestMemoryDeviceMapReadOnlyDropsWrites(t *testing.T) {
	d := NewMemoryDevice()
	h, _ := d.CreateBuffer(VertexBuffer, []byte{1, 2, 3}, StaticRead)

	view, err := d.MapBuffer(VertexBuffer, h, ReadOnly)
	if err != nil {
		t.Fatalf("MapBuffer failed: %v", err)
	}
	view[0] = 9
	_ = d.UnmapBuffer(VertexBuffer, h)

	got, _ := d.Contents(h)
	if got[0] != 1 {
		t.Errorf("read-only map should not persist writes, got %v", got)
	}
}

func TestMemoryDeviceErrors(t *testing.T) {
	d := NewMemoryDevice()
	h, _ := d.CreateBuffer(IndexBuffer, nil, DynamicDraw)

	if _, err := d.MapBuffer(VertexBuffer, h, ReadWrite); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("mapping with the wrong kind: expected ErrUnknownBuffer, got %v", err)
	}
	if err := d.UnmapBuffer(IndexBuffer, h); !errors.Is(err, ErrNotMapped) {
		t.Errorf("expected ErrNotMapped, got %v", err)
	}
	if _, err := d.MapBuffer(IndexBuffer, h, ReadWrite); err != nil {
		t.Fatalf("MapBuffer failed: %v", err)
	}
	if err := d.BindBuffer(IndexBuffer, h); !errors.Is(err, ErrBufferMapped) {
		t.Errorf("bind while mapped: expected ErrBufferMapped, got %v", err)
	}
	if err := d.DeleteBuffer(IndexBuffer, h); !errors.Is(err, ErrBufferMapped) {
		t.Errorf("delete while mapped: expected ErrBufferMapped, got %v", err)
	}
}

func TestMemoryDeviceBindAndDelete(t *testing.T) {
	d := NewMemoryDevice()
	h, _ := d.CreateBuffer(VertexBuffer, []byte{0}, StreamDraw)

	if err := d.BindBuffer(VertexBuffer, h); err != nil {
		t.Fatalf("BindBuffer failed: %v", err)
	}
	if d.Bound(VertexBuffer) != h {
		t.Errorf("expected %d bound, got %d", h, d.Bound(VertexBuffer))
	}
	if u, _ := d.BufferUsage(h); u != StreamDraw {
		t.Errorf("expected usage %s, got %s", StreamDraw, u)
	}

	if err := d.DeleteBuffer(VertexBuffer, h); err != nil {
		t.Fatalf("DeleteBuffer failed: %v", err)
	}
	if d.Live() != 0 {
		t.Errorf("expected no live buffers, got %d", d.Live())
	}
	if d.Bound(VertexBuffer) != 0 {
		t.Error("deleting the bound buffer should clear the binding")
	}
}

func TestParseUsage(t *testing.T) {
	for u := StreamDraw; u <= DynamicCopy; u++ {
		got, err := ParseUsage(u.String())
		if err != nil {
			t.Fatalf("ParseUsage(%q) failed: %v", u.String(), err)
		}
		if got != u {
			t.Errorf("ParseUsage(%q) = %v, want %v", u.String(), got, u)
		}
	}
	if _, err := ParseUsage("static"); err == nil {
		t.Error("expected error for unknown usage name")
	}
	if Usage(9).Valid() {
		t.Error("Usage(9) should not be valid")
	}
}

func TestMemoryDeviceTextures(t *testing.T) {
	d := NewMemoryDevice()

	h, err := d.CreateTexture(2, 1, make([]byte, 8))
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	if d.LiveTextures() != 1 {
		t.Errorf("LiveTextures = %d, want 1", d.LiveTextures())
	}
	if _, err := d.CreateTexture(2, 2, make([]byte, 8)); !errors.Is(err, ErrTextureSize) {
		t.Errorf("short pixels: err = %v", err)
	}
	if err := d.DeleteTexture(h); err != nil {
		t.Fatalf("DeleteTexture: %v", err)
	}
	if err := d.DeleteTexture(h); !errors.Is(err, ErrUnknownTex) {
		t.Errorf("double delete: err = %v", err)
	}
}
