package lighting

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/raydemo/pkg/math"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		azimuth, elevation float64
		want               math.Vec3
	}{
		{0, 90, math.UnitY},
		{0, 0, math.UnitZ},
		{90, 0, math.UnitX},
		{180, 45, math.Vec3{X: 0, Y: gomath.Sqrt2 / 2, Z: -gomath.Sqrt2 / 2}},
	}
	for _, tt := range tests {
		got := SunDirection(tt.azimuth, tt.elevation)
		if got.Distance(tt.want) > 1e-12 {
			t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.azimuth, tt.elevation, got, tt.want)
		}
		if gomath.Abs(got.Length()-1) > 1e-12 {
			t.Errorf("SunDirection(%v, %v) not unit", tt.azimuth, tt.elevation)
		}
	}
}

func TestPointLightSanitize(t *testing.T) {
	l := PointLight{Color: [3]float32{1.5, -0.2, 0.5}}.Sanitize()
	if l.Color != [3]float32{1, 0, 0.5} {
		t.Errorf("Color = %v", l.Color)
	}
	if l.Range != DefaultRange {
		t.Errorf("Range = %v, want %v", l.Range, DefaultRange)
	}
}

func TestPointLightBuffer(t *testing.T) {
	b := NewPointLightBuffer()
	for i := 0; i < MaxPointLights; i++ {
		if !b.AddLight(PointLight{Position: math.Vec3{X: float64(i)}, Color: [3]float32{1, 0.5, 0}, Intensity: 2, Range: 3}) {
			t.Fatalf("AddLight %d rejected", i)
		}
	}
	if b.AddLight(PointLight{}) {
		t.Error("AddLight past capacity accepted")
	}

	pos := b.Positions()
	if len(pos) != MaxPointLights*3 || pos[3*5] != 5 {
		t.Errorf("Positions()[15] = %v", pos[3*5])
	}
	col := b.Colors()
	if col[0] != 2 || col[1] != 1 || col[2] != 0 {
		t.Errorf("Colors()[0:3] = %v", col[:3])
	}
	if r := b.Ranges(); r[MaxPointLights-1] != 3 {
		t.Errorf("Ranges() last = %v", r[MaxPointLights-1])
	}

	b.SetLights(make([]PointLight, MaxPointLights+4))
	if b.Count() != MaxPointLights {
		t.Errorf("Count after SetLights = %d", b.Count())
	}
	b.Clear()
	if b.Count() != 0 {
		t.Errorf("Count after Clear = %d", b.Count())
	}
}
