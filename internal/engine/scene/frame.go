package scene

import (
	"fmt"
)

// Frame is the per-frame uniform data shared by every draw.
type Frame struct {
	ViewProj   [16]float32
	CameraPos  [3]float32
	SunDir     [3]float32
	SunColor   [3]float32
	Ambient    [3]float32
	LightCount int32
	LightPos   []float32
	LightColor []float32
	LightRange []float32
}

// Frame packs camera and light state for upload.
func (s *Scene) Frame() (Frame, error) {
	if s.Camera == nil {
		return Frame{}, fmt.Errorf("frame: no camera: %w", ErrUnknownResource)
	}
	proj, err := s.Camera.ProjectionMatrix()
	if err != nil {
		return Frame{}, fmt.Errorf("frame: %w", err)
	}
	sunColor := s.Sun.Color
	for i := range sunColor {
		sunColor[i] *= s.Sun.Intensity
	}
	return Frame{
		ViewProj:   proj.Mul(s.Camera.ViewMatrix()).Float32(),
		CameraPos:  s.Camera.Position().F32(),
		SunDir:     s.Sun.Direction.Normalize().F32(),
		SunColor:   sunColor,
		Ambient:    s.Ambient,
		LightCount: int32(s.Lights.Count()),
		LightPos:   s.Lights.Positions(),
		LightColor: s.Lights.Colors(),
		LightRange: s.Lights.Ranges(),
	}, nil
}
