package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrUnsupportedTGA is returned for TGA variants other than uncompressed
// or RLE true-color at 24 or 32 bits per pixel.
var ErrUnsupportedTGA = errors.New("unsupported TGA")

// TGA image types.
const (
	tgaUncompressed = 2
	tgaRLE          = 10
)

const tgaHeaderSize = 18

// tgaReader walks pixel data in file order, writing each texel at its
// on-screen row.
type tgaReader struct {
	img         *image.RGBA
	data        []byte
	pos         int
	bpp         int
	width       int
	height      int
	topToBottom bool
	next        int
}

func (r *tgaReader) pixel() (color.RGBA, bool) {
	if r.pos+r.bpp > len(r.data) {
		return color.RGBA{}, false
	}
	p := r.data[r.pos:]
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bpp == 4 {
		c.A = p[3]
	}
	r.pos += r.bpp
	return c, true
}

func (r *tgaReader) put(c color.RGBA) {
	x, y := r.next%r.width, r.next/r.width
	if !r.topToBottom {
		y = r.height - 1 - y
	}
	r.img.SetRGBA(x, y, c)
	r.next++
}

func (r *tgaReader) done() bool {
	return r.next >= r.width*r.height
}

// DecodeTGA decodes an uncompressed (type 2) or RLE (type 10) true-color
// TGA image.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("header: %d bytes: %w", len(data), ErrUnsupportedTGA)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bitsPerPixel := int(data[16])
	descriptor := data[17]

	switch {
	case colorMapType != 0:
		return nil, fmt.Errorf("color-mapped: %w", ErrUnsupportedTGA)
	case imageType != tgaUncompressed && imageType != tgaRLE:
		return nil, fmt.Errorf("image type %d: %w", imageType, ErrUnsupportedTGA)
	case bitsPerPixel != 24 && bitsPerPixel != 32:
		return nil, fmt.Errorf("%d bits per pixel: %w", bitsPerPixel, ErrUnsupportedTGA)
	case tgaHeaderSize+idLength > len(data):
		return nil, fmt.Errorf("id field truncated: %w", ErrUnsupportedTGA)
	}

	r := &tgaReader{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		data:        data[tgaHeaderSize+idLength:],
		bpp:         bitsPerPixel / 8,
		width:       width,
		height:      height,
		topToBottom: descriptor&0x20 != 0,
	}

	if imageType == tgaUncompressed {
		if len(r.data) < width*height*r.bpp {
			return nil, fmt.Errorf("pixel data truncated: %w", ErrUnsupportedTGA)
		}
		for !r.done() {
			c, _ := r.pixel()
			r.put(c)
		}
		return r.img, nil
	}

	for !r.done() && r.pos < len(r.data) {
		packet := r.data[r.pos]
		r.pos++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			c, ok := r.pixel()
			if !ok {
				break
			}
			for i := 0; i < count && !r.done(); i++ {
				r.put(c)
			}
			continue
		}
		for i := 0; i < count && !r.done(); i++ {
			c, ok := r.pixel()
			if !ok {
				break
			}
			r.put(c)
		}
	}
	return r.img, nil
}
