package lighting

import (
	"github.com/Faultbox/raydemo/pkg/math"
)

// MaxPointLights is the number of point lights the lit shader accepts.
const MaxPointLights = 16

// DefaultRange is used for lights declared without a positive range.
const DefaultRange = 10

// PointLight is a local light with linear falloff to zero at Range.
type PointLight struct {
	Position  math.Vec3
	Color     [3]float32
	Range     float32
	Intensity float32
}

// Sanitize clamps color to [0,1] and substitutes DefaultRange for a
// non-positive range.
func (l PointLight) Sanitize() PointLight {
	for i := range l.Color {
		l.Color[i] = min(max(l.Color[i], 0), 1)
	}
	if l.Range <= 0 {
		l.Range = DefaultRange
	}
	return l
}

// PointLightBuffer packs lights into flat uniform arrays.
type PointLightBuffer struct {
	Lights []PointLight
}

// NewPointLightBuffer creates an empty buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Count returns the number of lights held.
func (b *PointLightBuffer) Count() int {
	return len(b.Lights)
}

// Clear removes all lights.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
}

// AddLight appends a light. Returns false if the buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if len(b.Lights) >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	return true
}

// SetLights replaces all lights, truncating to MaxPointLights.
func (b *PointLightBuffer) SetLights(lights []PointLight) {
	b.Clear()
	if len(lights) > MaxPointLights {
		lights = lights[:MaxPointLights]
	}
	b.Lights = append(b.Lights, lights...)
}

// Positions returns x,y,z per light, padded to MaxPointLights.
func (b *PointLightBuffer) Positions() []float32 {
	out := make([]float32, MaxPointLights*3)
	for i, l := range b.Lights {
		p := l.Position.F32()
		copy(out[i*3:], p[:])
	}
	return out
}

// Colors returns r,g,b per light premultiplied by intensity, padded to
// MaxPointLights.
func (b *PointLightBuffer) Colors() []float32 {
	out := make([]float32, MaxPointLights*3)
	for i, l := range b.Lights {
		for c := 0; c < 3; c++ {
			out[i*3+c] = l.Color[c] * l.Intensity
		}
	}
	return out
}

// Ranges returns the falloff distance per light, padded to MaxPointLights.
func (b *PointLightBuffer) Ranges() []float32 {
	out := make([]float32, MaxPointLights)
	for i, l := range b.Lights {
		out[i] = l.Range
	}
	return out
}
