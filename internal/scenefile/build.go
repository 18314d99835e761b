package scenefile

import (
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/raydemo/internal/engine/camera"
	"github.com/Faultbox/raydemo/internal/engine/gpu"
	"github.com/Faultbox/raydemo/internal/engine/lighting"
	"github.com/Faultbox/raydemo/internal/engine/mesh"
	"github.com/Faultbox/raydemo/internal/engine/scene"
	"github.com/Faultbox/raydemo/internal/engine/texture"
	"github.com/Faultbox/raydemo/internal/engine/water"
	"github.com/Faultbox/raydemo/internal/logger"
	"github.com/Faultbox/raydemo/pkg/math"
)

func vec3(a [3]float64) math.Vec3 { return math.Vec3{X: a[0], Y: a[1], Z: a[2]} }

func vec2(a [2]float64) math.Vec2 { return math.Vec2{X: a[0], Y: a[1]} }

// CameraParams converts the camera section, keeping the aspect of
// camera.DefaultParams until a viewport is known.
func (d *Description) CameraParams() camera.Params {
	p := camera.DefaultParams()
	p.Position = vec3(d.Camera.Position)
	p.Target = vec3(d.Camera.Target)
	p.Up = vec3(d.Camera.Up)
	p.FOVDeg = d.Camera.FOV
	p.Near = d.Camera.Near
	p.Far = d.Camera.Far
	return p
}

// Build creates a scene on device. Relative paths resolve against dir.
// Nothing is uploaded until the scene's Init.
func (d *Description) Build(device gpu.Backend, dir string) (*scene.Scene, error) {
	cam, err := camera.New(d.CameraParams())
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	s := scene.New(device, cam)
	if err := d.populate(s, dir); err != nil {
		return nil, multierr.Append(err, s.Destroy())
	}

	logger.Debug("scene built",
		zap.Int("resources", s.Resources()),
		zap.Int("objects", len(s.Objects())),
		zap.Int("lights", s.Lights.Count()),
	)
	return s, nil
}

func (d *Description) populate(s *scene.Scene, dir string) error {
	s.Sun = lighting.NewSun(d.Sun.Azimuth, d.Sun.Elevation, d.Sun.Intensity)
	s.Sun.Color = d.Sun.Color
	s.Ambient = d.Ambient

	for _, t := range d.Textures {
		img, err := texture.Load(resolve(dir, t.Path))
		if err != nil {
			return fmt.Errorf("texture %q: %w", t.Name, err)
		}
		if t.ColorKey {
			img = texture.ToRGBA(img, texture.MagentaKey)
		}
		if _, err := s.AddTexture(t.Name, img); err != nil {
			return err
		}
	}

	for _, m := range d.Materials {
		if err := s.AddMaterial(m.material()); err != nil {
			return err
		}
	}

	for i, l := range d.Lights {
		err := s.AddPointLight(lighting.PointLight{
			Position:  vec3(l.Position),
			Color:     l.Color,
			Range:     l.Range,
			Intensity: l.Intensity,
		})
		if err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}

	for _, m := range d.Meshes {
		faces, err := m.faces(dir)
		if err != nil {
			return fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		if _, err := s.AddTriangles(m.Name, m.Material, faces); err != nil {
			return err
		}
	}

	for _, sp := range d.Spheres {
		sphere := mesh.Sphere{Center: vec3(sp.Center), Radius: sp.Radius}
		if _, err := s.AddSphere(sp.Name, sp.Material, sphere); err != nil {
			return err
		}
	}

	for _, w := range d.Water {
		surface, err := w.surface()
		if err != nil {
			return fmt.Errorf("water %q: %w", w.Name, err)
		}
		if _, err := s.AddWaterAt(w.Name, w.Material, surface, w.model()); err != nil {
			return err
		}
	}
	return nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

func (m Material) material() scene.Material {
	mat := scene.DefaultMaterial()
	mat.Name = m.Name
	if m.Albedo != nil {
		mat.Albedo = *m.Albedo
	}
	if m.Specular != nil {
		mat.Specular = *m.Specular
	}
	if m.Shininess != nil {
		mat.Shininess = *m.Shininess
	}
	mat.Reflectivity = m.Reflectivity
	mat.DiffuseMap = m.DiffuseMap
	mat.NormalMap = m.NormalMap
	return mat
}

func (m Mesh) faces(dir string) ([]mesh.Face, error) {
	var faces []mesh.Face
	if m.GLTF != "" {
		imported, err := LoadGLTF(resolve(dir, m.GLTF))
		if err != nil {
			return nil, err
		}
		faces = imported
	}
	for _, f := range m.Faces {
		faces = append(faces, f.face())
	}
	return faces, nil
}

func (f Face) face() mesh.Face {
	p := f.Positions
	out := mesh.FlatFace(vec3(p[0]), vec3(p[1]), vec3(p[2]),
		vec2(f.UV[0]), vec2(f.UV[1]), vec2(f.UV[2]))
	if f.Normals != nil {
		for i, n := range f.Normals {
			out.Normals[i] = vec3(n).Normalize()
		}
	}
	return out
}

func (w Water) model() math.Mat4 {
	scale := [3]float64{1, 1, 1}
	if w.Scale != nil {
		scale = *w.Scale
	}
	return math.Translate(vec3(w.Position)).Mul(math.Scale(vec3(scale)))
}

func (w Water) surface() (*water.Surface, error) {
	waves := make([]water.WavePoint, len(w.Waves))
	for i, wv := range w.Waves {
		waves[i] = water.WavePoint{
			Source:      vec2(wv.Source),
			Falloff:     wv.Falloff,
			Coefficient: wv.Coefficient,
			TimeRate:    wv.TimeRate,
			Period:      wv.Period,
		}
	}
	surface, err := water.NewSurface(w.ResX, w.ResZ, waves)
	if err != nil {
		return nil, err
	}
	if w.BoundaryNormal != nil {
		surface.BoundaryNormal = *w.BoundaryNormal
		surface.Update(0)
	}
	return surface, nil
}
