// Package scene owns the objects, materials, textures, lights and camera of
// one renderable scene.
package scene

import (
	"errors"
	"fmt"
	"image"
	gomath "math"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/raydemo/internal/engine/camera"
	"github.com/Faultbox/raydemo/internal/engine/gpu"
	"github.com/Faultbox/raydemo/internal/engine/lighting"
	"github.com/Faultbox/raydemo/internal/engine/mesh"
	"github.com/Faultbox/raydemo/internal/engine/texture"
	"github.com/Faultbox/raydemo/internal/engine/water"
	"github.com/Faultbox/raydemo/internal/logger"
	"github.com/Faultbox/raydemo/pkg/math"
)

// Scene errors.
var (
	ErrDuplicateName   = errors.New("duplicate name")
	ErrUnknownResource = errors.New("unknown resource")
	ErrDestroyed       = errors.New("destroyed")
	ErrTooManyLights   = errors.New("too many point lights")
	ErrInvalidMaterial = errors.New("invalid material")
	ErrInvalidModel    = errors.New("invalid model transform")
)

// Sphere tessellation used for raster preview.
const (
	SphereStacks = 24
	SphereSlices = 48
)

// Scene holds named resources in insertion order. Destroy releases them in
// reverse order, each exactly once.
type Scene struct {
	Camera  *camera.Camera
	Sun     lighting.DirectionalLight
	Ambient [3]float32
	Lights  *lighting.PointLightBuffer

	device    gpu.Backend
	resources []*Resource
	byName    map[string]*Resource
	textures  map[string]*texture.Texture
	materials map[string]*Material
	objects   []*Object
	destroyed bool
}

// New creates an empty scene drawing through device.
func New(device gpu.Backend, cam *camera.Camera) *Scene {
	s := &Scene{
		Camera:    cam,
		Sun:       lighting.NewSun(45, 60, 1),
		Ambient:   [3]float32{0.15, 0.15, 0.18},
		Lights:    lighting.NewPointLightBuffer(),
		device:    device,
		byName:    make(map[string]*Resource),
		textures:  make(map[string]*texture.Texture),
		materials: make(map[string]*Material),
	}
	_ = s.AddMaterial(DefaultMaterial())
	return s
}

func (s *Scene) add(r *Resource) error {
	if s.destroyed {
		return fmt.Errorf("add %s %q: %w", r.Kind, r.Name, ErrDestroyed)
	}
	key := r.Kind.String() + "/" + r.Name
	if _, ok := s.byName[key]; ok {
		return fmt.Errorf("%s %q: %w", r.Kind, r.Name, ErrDuplicateName)
	}
	s.byName[key] = r
	s.resources = append(s.resources, r)
	return nil
}

// AddTexture registers an image under name.
func (s *Scene) AddTexture(name string, img *image.RGBA) (*texture.Texture, error) {
	tex := texture.New(s.device, name, img)
	r := &Resource{Name: name, Kind: KindTexture, init: tex.Init, destroy: tex.Destroy}
	if err := s.add(r); err != nil {
		return nil, err
	}
	s.textures[name] = tex
	return tex, nil
}

// AddMaterial registers a material. Its texture names are resolved on Init.
// A material named "default" overrides the built-in one.
func (s *Scene) AddMaterial(m Material) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, ok := s.materials[m.Name]; ok && m.Name == "default" {
		*s.materials["default"] = m
		return nil
	}
	mat := &m
	r := &Resource{Name: m.Name, Kind: KindMaterial, init: func() error { return s.resolve(mat) }}
	if err := s.add(r); err != nil {
		return err
	}
	s.materials[m.Name] = mat
	return nil
}

func (s *Scene) resolve(m *Material) error {
	lookup := func(name string) (*texture.Texture, error) {
		if name == "" {
			return nil, nil
		}
		tex, ok := s.textures[name]
		if !ok {
			return nil, fmt.Errorf("texture %q: %w", name, ErrUnknownResource)
		}
		return tex, nil
	}
	var err error
	if m.diffuse, err = lookup(m.DiffuseMap); err != nil {
		return err
	}
	m.normal, err = lookup(m.NormalMap)
	return err
}

func (s *Scene) checkMaterial(name string) (string, error) {
	if name == "" {
		return "default", nil
	}
	if _, ok := s.materials[name]; !ok {
		return "", fmt.Errorf("material %q: %w", name, ErrUnknownResource)
	}
	return name, nil
}

// AddTriangles adds a static triangle object. Tangents are always
// recomputed from positions and UVs; degenerate faces get a default tangent.
func (s *Scene) AddTriangles(name, material string, faces []mesh.Face) (*Object, error) {
	material, err := s.checkMaterial(material)
	if err != nil {
		return nil, err
	}
	if n := mesh.GenerateTangents(faces); n > 0 {
		logger.Warn("faces with default tangents", zap.String("object", name), zap.Int("count", n))
	}
	obj := &Object{Name: name, Material: material, Shape: ShapeTriangles, Faces: faces, Soup: mesh.NewTriangleSoup(s.device)}
	return obj, s.addObject(obj)
}

// AddSphere adds an analytic sphere, tessellated for raster preview.
func (s *Scene) AddSphere(name, material string, sphere mesh.Sphere) (*Object, error) {
	material, err := s.checkMaterial(material)
	if err != nil {
		return nil, err
	}
	faces, err := sphere.Faces(SphereStacks, SphereSlices)
	if err != nil {
		return nil, fmt.Errorf("sphere %q: %w", name, err)
	}
	obj := &Object{Name: name, Material: material, Shape: ShapeSphere, Faces: faces, Sphere: sphere, Soup: mesh.NewTriangleSoup(s.device)}
	return obj, s.addObject(obj)
}

// AddWater adds an animated water surface spanning [-1, 1] in x and z.
func (s *Scene) AddWater(name, material string, surface *water.Surface) (*Object, error) {
	return s.AddWaterAt(name, material, surface, math.Identity())
}

// AddWaterAt adds a water surface placed in the world by model. The upper
// 3x3 of model must be invertible.
func (s *Scene) AddWaterAt(name, material string, surface *water.Surface, model math.Mat4) (*Object, error) {
	material, err := s.checkMaterial(material)
	if err != nil {
		return nil, err
	}
	if model[15] == 0 || model.Mat3().Determinant() == 0 {
		return nil, fmt.Errorf("water %q: %w", name, ErrInvalidModel)
	}
	obj := &Object{Name: name, Material: material, Shape: ShapeWater, Surface: surface, Model: model}
	return obj, s.addObject(obj)
}

func (s *Scene) addObject(obj *Object) error {
	r := &Resource{Name: obj.Name, Kind: KindGeometry}
	switch obj.Shape {
	case ShapeWater:
		r.init = func() error {
			m, err := water.NewMesh(s.device, obj.Surface)
			if err != nil {
				return err
			}
			obj.Water = m
			return nil
		}
		r.destroy = func() error {
			if obj.Water == nil {
				return nil
			}
			return obj.Water.Destroy()
		}
	default:
		r.init = func() error { return obj.Soup.Create(obj.Faces) }
		r.destroy = obj.Soup.Destroy
	}
	if err := s.add(r); err != nil {
		return err
	}
	s.objects = append(s.objects, obj)
	return nil
}

// AddPointLight adds a light after sanitizing it.
func (s *Scene) AddPointLight(l lighting.PointLight) error {
	if !s.Lights.AddLight(l.Sanitize()) {
		return fmt.Errorf("limit %d: %w", lighting.MaxPointLights, ErrTooManyLights)
	}
	return nil
}

// Init initializes every pending resource in insertion order.
func (s *Scene) Init() error {
	if s.destroyed {
		return ErrDestroyed
	}
	for _, r := range s.resources {
		if err := r.Init(); err != nil {
			return err
		}
	}
	return nil
}

// Update initializes pending resources and advances water surfaces to time t.
func (s *Scene) Update(t float64) error {
	if err := s.Init(); err != nil {
		return err
	}
	for _, obj := range s.objects {
		if obj.Shape != ShapeWater {
			continue
		}
		if err := obj.Water.Upload(t); err != nil {
			return fmt.Errorf("water %q: %w", obj.Name, err)
		}
	}
	return nil
}

// Objects returns objects in insertion order.
func (s *Scene) Objects() []*Object { return s.objects }

// Material returns the named material.
func (s *Scene) Material(name string) (*Material, bool) {
	m, ok := s.materials[name]
	return m, ok
}

// Texture returns the named texture.
func (s *Scene) Texture(name string) (*texture.Texture, bool) {
	t, ok := s.textures[name]
	return t, ok
}

// Resources returns the number of owned resources.
func (s *Scene) Resources() int { return len(s.resources) }

// Hit is the nearest intersection of a ray with the scene.
type Hit struct {
	Object   *Object
	Distance float64
	Point    math.Vec3
}

// Intersect casts a ray against spheres analytically and against static
// triangles face by face. Water is not hit-tested.
func (s *Scene) Intersect(origin, dir math.Vec3) (Hit, bool) {
	dir = dir.Normalize()
	best := Hit{Distance: gomath.Inf(1)}
	for _, obj := range s.objects {
		switch obj.Shape {
		case ShapeSphere:
			if t, ok := obj.Sphere.Intersect(origin, dir); ok && t < best.Distance {
				best = Hit{Object: obj, Distance: t}
			}
		case ShapeTriangles:
			for i := range obj.Faces {
				if t, ok := mesh.IntersectFace(origin, dir, &obj.Faces[i]); ok && t < best.Distance {
					best = Hit{Object: obj, Distance: t}
				}
			}
		}
	}
	if best.Object == nil {
		return Hit{}, false
	}
	best.Point = origin.Add(dir.Scale(best.Distance))
	return best, true
}

// Bounds returns the axis-aligned box around every object. Water surfaces
// contribute their current vertex positions, placed by their model.
func (s *Scene) Bounds() (lo, hi math.Vec3, ok bool) {
	inf := gomath.Inf(1)
	lo = math.Vec3{X: inf, Y: inf, Z: inf}
	hi = lo.Negate()
	grow := func(p math.Vec3) {
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
		ok = true
	}
	for _, obj := range s.objects {
		switch obj.Shape {
		case ShapeSphere:
			r := math.Vec3{X: obj.Sphere.Radius, Y: obj.Sphere.Radius, Z: obj.Sphere.Radius}
			grow(obj.Sphere.Center.Sub(r))
			grow(obj.Sphere.Center.Add(r))
		case ShapeTriangles:
			for _, f := range obj.Faces {
				for _, p := range f.Positions {
					grow(p)
				}
			}
		case ShapeWater:
			for _, p := range obj.Surface.Positions() {
				grow(obj.Model.TransformPoint(math.Vec3FromF32(p)))
			}
		}
	}
	if !ok {
		return math.Vec3{}, math.Vec3{}, false
	}
	return lo, hi, true
}

// Destroy releases every resource in reverse insertion order. Later calls
// are no-ops. All failures are reported together.
func (s *Scene) Destroy() error {
	if s.destroyed {
		return nil
	}
	s.destroyed = true

	var err error
	for i := len(s.resources) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.resources[i].Destroy())
	}
	logger.Debug("scene destroyed", zap.Int("resources", len(s.resources)), zap.Error(err))
	return err
}
