// Package scenefile loads scene descriptions written in YAML or TOML and
// builds them into a scene.Scene.
package scenefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/raydemo/internal/engine/camera"
)

// ErrUnknownFormat is returned for a file extension that is neither YAML
// nor TOML.
var ErrUnknownFormat = errors.New("unknown scene file format")

// Format is a scene file encoding.
type Format int

// Supported formats.
const (
	YAML Format = iota
	TOML
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Description is the on-disk form of a scene.
type Description struct {
	Camera    Camera     `yaml:"camera" toml:"camera"`
	Sun       Sun        `yaml:"sun" toml:"sun"`
	Ambient   [3]float32 `yaml:"ambient" toml:"ambient"`
	Textures  []Texture  `yaml:"textures" toml:"textures"`
	Materials []Material `yaml:"materials" toml:"materials"`
	Lights    []Light    `yaml:"lights" toml:"lights"`
	Meshes    []Mesh     `yaml:"meshes" toml:"meshes"`
	Spheres   []Sphere   `yaml:"spheres" toml:"spheres"`
	Water     []Water    `yaml:"water" toml:"water"`
}

// Camera places the viewer.
type Camera struct {
	Position [3]float64 `yaml:"position" toml:"position"`
	Target   [3]float64 `yaml:"target" toml:"target"`
	Up       [3]float64 `yaml:"up" toml:"up"`
	FOV      float64    `yaml:"fov_deg" toml:"fov_deg"`
	Near     float64    `yaml:"near" toml:"near"`
	Far      float64    `yaml:"far" toml:"far"`
}

// Sun is the directional light, given in degrees.
type Sun struct {
	Azimuth   float64    `yaml:"azimuth" toml:"azimuth"`
	Elevation float64    `yaml:"elevation" toml:"elevation"`
	Intensity float32    `yaml:"intensity" toml:"intensity"`
	Color     [3]float32 `yaml:"color" toml:"color"`
}

// Texture is an image file, relative to the scene file.
type Texture struct {
	Name     string `yaml:"name" toml:"name"`
	Path     string `yaml:"path" toml:"path"`
	ColorKey bool   `yaml:"color_key" toml:"color_key"` // magenta becomes transparent
}

// Material fields left out keep the default material's values.
type Material struct {
	Name         string      `yaml:"name" toml:"name"`
	Albedo       *[3]float32 `yaml:"albedo" toml:"albedo"`
	Specular     *[3]float32 `yaml:"specular" toml:"specular"`
	Shininess    *float32    `yaml:"shininess" toml:"shininess"`
	Reflectivity float32     `yaml:"reflectivity" toml:"reflectivity"`
	DiffuseMap   string      `yaml:"diffuse_map" toml:"diffuse_map"`
	NormalMap    string      `yaml:"normal_map" toml:"normal_map"`
}

// Light is a point light.
type Light struct {
	Position  [3]float64 `yaml:"position" toml:"position"`
	Color     [3]float32 `yaml:"color" toml:"color"`
	Range     float32    `yaml:"range" toml:"range"`
	Intensity float32    `yaml:"intensity" toml:"intensity"`
}

// Mesh is a triangle list given inline or imported from a glTF file.
type Mesh struct {
	Name     string `yaml:"name" toml:"name"`
	Material string `yaml:"material" toml:"material"`
	GLTF     string `yaml:"gltf" toml:"gltf"`
	Faces    []Face `yaml:"faces" toml:"faces"`
}

// Face is one triangle. Without normals the geometric normal is used.
type Face struct {
	Positions [3][3]float64  `yaml:"positions" toml:"positions"`
	Normals   *[3][3]float64 `yaml:"normals" toml:"normals"`
	UV        [3][2]float64  `yaml:"uv" toml:"uv"`
}

// Sphere is an analytic sphere.
type Sphere struct {
	Name     string     `yaml:"name" toml:"name"`
	Material string     `yaml:"material" toml:"material"`
	Center   [3]float64 `yaml:"center" toml:"center"`
	Radius   float64    `yaml:"radius" toml:"radius"`
}

// Water is an animated height-field surface.
type Water struct {
	Name           string      `yaml:"name" toml:"name"`
	Material       string      `yaml:"material" toml:"material"`
	ResX           int         `yaml:"resx" toml:"resx"`
	ResZ           int         `yaml:"resz" toml:"resz"`
	Position       [3]float64  `yaml:"position" toml:"position"`
	Scale          *[3]float64 `yaml:"scale" toml:"scale"` // defaults to 1 on every axis
	BoundaryNormal *[3]float32 `yaml:"boundary_normal" toml:"boundary_normal"`
	Waves          []Wave      `yaml:"waves" toml:"waves"`
}

// Wave is one radial wave source.
type Wave struct {
	Source      [2]float64 `yaml:"source" toml:"source"`
	Falloff     float64    `yaml:"falloff" toml:"falloff"`
	Coefficient float64    `yaml:"coefficient" toml:"coefficient"`
	TimeRate    float64    `yaml:"time_rate" toml:"time_rate"`
	Period      float64    `yaml:"period" toml:"period"`
}

// Default returns an empty scene with the default camera and sun.
func Default() *Description {
	p := camera.DefaultParams()
	return &Description{
		Camera: Camera{
			Position: [3]float64{p.Position.X, p.Position.Y, p.Position.Z},
			Target:   [3]float64{p.Target.X, p.Target.Y, p.Target.Z},
			Up:       [3]float64{p.Up.X, p.Up.Y, p.Up.Z},
			FOV:      p.FOVDeg,
			Near:     p.Near,
			Far:      p.Far,
		},
		Sun: Sun{
			Azimuth:   45,
			Elevation: 60,
			Intensity: 1,
			Color:     [3]float32{1, 1, 1},
		},
		Ambient: [3]float32{0.15, 0.15, 0.18},
	}
}

// Parse decodes data on top of Default.
func Parse(data []byte, format Format) (*Description, error) {
	d := Default()
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, d)
	case TOML:
		err = toml.Unmarshal(data, d)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return d, nil
}

// Load reads and parses a scene file.
func Load(path string) (*Description, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Save writes d to path in the format its extension names.
func (d *Description) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var data []byte
	if format == TOML {
		data, err = toml.Marshal(d)
	} else {
		data, err = yaml.Marshal(d)
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
