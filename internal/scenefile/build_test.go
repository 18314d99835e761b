package scenefile

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/raydemo/internal/engine/gpu"
	"github.com/Faultbox/raydemo/internal/engine/scene"
	"github.com/Faultbox/raydemo/internal/engine/water"
	"github.com/Faultbox/raydemo/pkg/math"
)

func writePNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "key.png"), color.RGBA{R: 255, B: 255, A: 255})

	d, err := Parse([]byte(sceneYAML), YAML)
	if err != nil {
		t.Fatal(err)
	}
	d.Textures = []Texture{{Name: "keyed", Path: "key.png", ColorKey: true}}
	d.Materials[0].DiffuseMap = "keyed"

	dev := gpu.NewMemoryDevice()
	s, err := d.Build(dev, dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := s.Camera.FOVDegrees(); got < 45-1e-9 || got > 45+1e-9 {
		t.Errorf("fov = %v, want 45", got)
	}
	if s.Sun.Color != [3]float32{1, 0.9, 0.8} || s.Sun.Intensity != 0.8 {
		t.Errorf("sun = %+v", s.Sun)
	}
	if s.Lights.Count() != 1 {
		t.Errorf("lights = %d, want 1", s.Lights.Count())
	}

	tex, ok := s.Texture("keyed")
	if !ok {
		t.Fatal("texture missing")
	}
	if a := tex.Image.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("magenta texel alpha = %d, want 0", a)
	}

	objs := s.Objects()
	if len(objs) != 3 {
		t.Fatalf("objects = %d, want 3", len(objs))
	}
	want := []scene.Shape{scene.ShapeTriangles, scene.ShapeSphere, scene.ShapeWater}
	for i, obj := range objs {
		if obj.Shape != want[i] {
			t.Errorf("object %d shape = %v, want %v", i, obj.Shape, want[i])
		}
	}
	if objs[1].Material != "mirror" || objs[2].Material != "default" {
		t.Errorf("materials = %q, %q", objs[1].Material, objs[2].Material)
	}
	if rx, rz := objs[2].Surface.Resolution(); rx != 8 || rz != 4 {
		t.Errorf("water resolution = %dx%d", rx, rz)
	}

	if err := s.Update(0.5); err != nil {
		t.Fatalf("Update: %v", err)
	}
	red, _ := s.Material("red")
	if red.DiffuseTexture() != tex {
		t.Error("diffuse map not resolved")
	}
	if dev.LiveTextures() != 1 || dev.Live() == 0 {
		t.Errorf("live textures=%d buffers=%d", dev.LiveTextures(), dev.Live())
	}

	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if dev.Live() != 0 || dev.LiveTextures() != 0 {
		t.Errorf("leaked buffers=%d textures=%d", dev.Live(), dev.LiveTextures())
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(d *Description)
		target error
	}{
		{"unknown material", func(d *Description) {
			d.Spheres = []Sphere{{Name: "ball", Material: "nope", Radius: 1}}
		}, scene.ErrUnknownResource},
		{"duplicate object", func(d *Description) {
			d.Spheres = []Sphere{{Name: "ball", Radius: 1}, {Name: "ball", Radius: 2}}
		}, scene.ErrDuplicateName},
		{"bad water", func(d *Description) {
			d.Water = []Water{{Name: "pond", ResX: 0, ResZ: 4}}
		}, water.ErrInvalidResolution},
		{"flattened water", func(d *Description) {
			d.Water = []Water{{Name: "pond", ResX: 2, ResZ: 2, Scale: &[3]float64{1, 0, 1}}}
		}, scene.ErrInvalidModel},
		{"missing texture", func(d *Description) {
			d.Textures = []Texture{{Name: "gone", Path: "gone.png"}}
		}, os.ErrNotExist},
		{"invalid material", func(d *Description) {
			d.Materials = []Material{{Name: "bad", Reflectivity: 2}}
		}, scene.ErrInvalidMaterial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Default()
			tt.modify(d)
			dev := gpu.NewMemoryDevice()
			_, err := d.Build(dev, t.TempDir())
			if !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
			if dev.Live() != 0 || dev.LiveTextures() != 0 {
				t.Error("failed build left device resources")
			}
		})
	}
}

func TestBuildBadCamera(t *testing.T) {
	d := Default()
	d.Camera.Near = 10
	d.Camera.Far = 1
	if _, err := d.Build(gpu.NewMemoryDevice(), ""); err == nil {
		t.Error("expected camera error")
	}
}

func TestFaceNormals(t *testing.T) {
	f := Face{
		Positions: [3][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	}
	if got := f.face().Normals[0]; got != vec3([3]float64{0, 0, 1}) {
		t.Errorf("geometric normal = %v", got)
	}

	f.Normals = &[3][3]float64{{0, 0, 2}, {0, 0, 2}, {0, 2, 0}}
	out := f.face()
	if out.Normals[0] != vec3([3]float64{0, 0, 1}) || out.Normals[2] != vec3([3]float64{0, 1, 0}) {
		t.Errorf("normals not normalized: %v", out.Normals)
	}
}

func TestBuildPlacesWater(t *testing.T) {
	d := Default()
	d.Water = []Water{
		{Name: "fixed", ResX: 2, ResZ: 2},
		{Name: "moved", ResX: 2, ResZ: 2, Position: [3]float64{4, 1, 0}, Scale: &[3]float64{3, 1, 3}},
	}
	s, err := d.Build(gpu.NewMemoryDevice(), "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer s.Destroy()

	objs := s.Objects()
	if objs[0].Transform() != math.Identity() {
		t.Errorf("default placement = %v, want identity", objs[0].Transform())
	}
	corner := objs[1].Transform().TransformPoint(math.Vec3{X: 1, Z: -1})
	if corner != (math.Vec3{X: 7, Y: 1, Z: -3}) {
		t.Errorf("moved corner = %v, want (7, 1, -3)", corner)
	}
}
