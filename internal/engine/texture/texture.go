// Package texture decodes images and owns device textures built from them.
package texture

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/raydemo/internal/engine/gpu"
	"github.com/Faultbox/raydemo/internal/logger"
)

// ErrDestroyed is returned when initializing a destroyed texture.
var ErrDestroyed = errors.New("texture destroyed")

// Texture is a named image uploaded to the device on first Init.
type Texture struct {
	Name  string
	Image *image.RGBA

	device    gpu.TextureDevice
	handle    gpu.Handle
	destroyed bool
}

// New wraps img without touching the device.
func New(device gpu.TextureDevice, name string, img *image.RGBA) *Texture {
	return &Texture{Name: name, Image: img, device: device}
}

// Solid returns a 1x1 texture of color c. Materials without a texture
// sample it.
func Solid(device gpu.TextureDevice, name string, c [4]uint8) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, c[:])
	return New(device, name, img)
}

// Init uploads the image. Later calls are no-ops.
func (t *Texture) Init() error {
	if t.destroyed {
		return fmt.Errorf("init %q: %w", t.Name, ErrDestroyed)
	}
	if t.handle != 0 {
		return nil
	}
	b := t.Image.Bounds()
	h, err := t.device.CreateTexture(b.Dx(), b.Dy(), packed(t.Image))
	if err != nil {
		return fmt.Errorf("upload %q: %w", t.Name, err)
	}
	t.handle = h
	logger.Debug("texture uploaded", zap.String("name", t.Name), zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
	return nil
}

// Handle returns the device texture, zero before Init.
func (t *Texture) Handle() gpu.Handle { return t.handle }

// Destroy releases the device texture. Destroying twice is a no-op.
func (t *Texture) Destroy() error {
	if t.destroyed {
		return nil
	}
	t.destroyed = true
	if t.handle == 0 {
		return nil
	}
	h := t.handle
	t.handle = 0
	return t.device.DeleteTexture(h)
}

// packed returns the texels of img with no row padding.
func packed(img *image.RGBA) []byte {
	b := img.Bounds()
	row := 4 * b.Dx()
	if img.Stride == row {
		return img.Pix[:row*b.Dy()]
	}
	out := make([]byte, 0, row*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[i:i+row]...)
	}
	return out
}
