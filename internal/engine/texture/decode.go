package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	// Registered image formats.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode decodes an image file's bytes. name selects TGA by extension; every
// other format is sniffed from its header.
func Decode(data []byte, name string) (*image.RGBA, error) {
	var (
		img image.Image
		err error
	)
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return ToRGBA(img, nil), nil
}

// Load reads and decodes an image file.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, path)
}

// ColorKey reports whether an opaque color should become transparent.
type ColorKey func(r, g, b uint8) bool

// MagentaKey matches near-pure magenta, tolerating lossy encoders.
func MagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}

// ToRGBA converts img to 8-bit RGBA. Texels matching key become
// transparent black, which keeps filtered edges from bleeding color.
func ToRGBA(img image.Image, key ColorKey) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && key == nil {
		return rgba
	}
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if key != nil && key(c.R, c.G, c.B) {
				c = color.RGBA{}
			}
			out.SetRGBA(x, y, c)
		}
	}
	return out
}
