package scene

import (
	"fmt"

	"github.com/Faultbox/raydemo/internal/engine/texture"
)

// Material describes surface shading. Texture fields name textures added
// to the same scene; empty means none.
type Material struct {
	Name         string
	Albedo       [3]float32
	Specular     [3]float32
	Shininess    float32
	Reflectivity float32
	DiffuseMap   string
	NormalMap    string

	diffuse *texture.Texture
	normal  *texture.Texture
}

// DefaultMaterial is the grey material objects fall back to.
func DefaultMaterial() Material {
	return Material{
		Name:      "default",
		Albedo:    [3]float32{0.8, 0.8, 0.8},
		Specular:  [3]float32{0.2, 0.2, 0.2},
		Shininess: 32,
	}
}

// Validate checks the numeric ranges.
func (m *Material) Validate() error {
	if m.Shininess < 0 {
		return fmt.Errorf("material %q: shininess %g: %w", m.Name, m.Shininess, ErrInvalidMaterial)
	}
	if m.Reflectivity < 0 || m.Reflectivity > 1 {
		return fmt.Errorf("material %q: reflectivity %g: %w", m.Name, m.Reflectivity, ErrInvalidMaterial)
	}
	return nil
}

// DiffuseTexture returns the resolved diffuse map, nil before Init or when
// none is set.
func (m *Material) DiffuseTexture() *texture.Texture { return m.diffuse }

// NormalTexture returns the resolved normal map.
func (m *Material) NormalTexture() *texture.Texture { return m.normal }
