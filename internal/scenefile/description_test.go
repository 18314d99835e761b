package scenefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sceneYAML = `
camera:
  position: [0, 2, 6]
  target: [0, 0, 0]
  fov_deg: 45
sun:
  azimuth: 90
  elevation: 30
  intensity: 0.8
  color: [1, 0.9, 0.8]
materials:
  - name: red
    albedo: [1, 0, 0]
    shininess: 64
  - name: mirror
    reflectivity: 0.9
lights:
  - position: [1, 2, 3]
    color: [1, 1, 1]
    range: 5
    intensity: 2
meshes:
  - name: tri
    material: red
    faces:
      - positions: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
        uv: [[0, 0], [1, 0], [0, 1]]
spheres:
  - name: ball
    material: mirror
    center: [0, 1, 0]
    radius: 0.5
water:
  - name: pond
    resx: 8
    resz: 4
    waves:
      - source: [0, 0]
        falloff: 1
        coefficient: 0.1
        time_rate: 2
        period: 6
`

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"scene.yaml", YAML, false},
		{"scene.YML", YAML, false},
		{"dir/scene.toml", TOML, false},
		{"scene.json", 0, true},
		{"scene", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.err {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("err = %v, want ErrUnknownFormat", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("FormatFromPath(%q) = %v, %v", tt.path, got, err)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	d, err := Parse([]byte(sceneYAML), YAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if d.Camera.Position != [3]float64{0, 2, 6} {
		t.Errorf("camera position = %v", d.Camera.Position)
	}
	if d.Camera.FOV != 45 {
		t.Errorf("fov = %v, want 45", d.Camera.FOV)
	}
	// Unset camera fields keep defaults.
	if d.Camera.Up != [3]float64{0, 1, 0} || d.Camera.Near != 0.1 || d.Camera.Far != 100 {
		t.Errorf("camera defaults lost: %+v", d.Camera)
	}
	if d.Sun.Azimuth != 90 || d.Sun.Intensity != 0.8 {
		t.Errorf("sun = %+v", d.Sun)
	}

	if len(d.Materials) != 2 {
		t.Fatalf("materials = %d, want 2", len(d.Materials))
	}
	red := d.Materials[0].material()
	if red.Albedo != [3]float32{1, 0, 0} || red.Shininess != 64 {
		t.Errorf("red = %+v", red)
	}
	mirror := d.Materials[1].material()
	if mirror.Albedo != [3]float32{0.8, 0.8, 0.8} || mirror.Shininess != 32 || mirror.Reflectivity != 0.9 {
		t.Errorf("mirror should keep default albedo and shininess: %+v", mirror)
	}

	if len(d.Lights) != 1 || d.Lights[0].Range != 5 {
		t.Errorf("lights = %+v", d.Lights)
	}
	if len(d.Meshes) != 1 || len(d.Meshes[0].Faces) != 1 {
		t.Fatalf("meshes = %+v", d.Meshes)
	}
	if d.Meshes[0].Faces[0].Normals != nil {
		t.Error("normals should be nil when omitted")
	}
	if len(d.Spheres) != 1 || d.Spheres[0].Radius != 0.5 {
		t.Errorf("spheres = %+v", d.Spheres)
	}
	if len(d.Water) != 1 || d.Water[0].ResX != 8 || len(d.Water[0].Waves) != 1 {
		t.Fatalf("water = %+v", d.Water)
	}
	if w := d.Water[0].Waves[0]; w.TimeRate != 2 || w.Period != 6 {
		t.Errorf("wave = %+v", w)
	}
}

func TestParseTOML(t *testing.T) {
	data := `
ambient = [0.1, 0.2, 0.3]

[camera]
position = [4.0, 0.0, 0.0]
fov_deg = 70.0

[[spheres]]
name = "ball"
radius = 2.0

[[water]]
name = "pond"
resx = 2
resz = 2
boundary_normal = [0.0, 1.0, 0.0]
`
	d, err := Parse([]byte(data), TOML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Ambient != [3]float32{0.1, 0.2, 0.3} {
		t.Errorf("ambient = %v", d.Ambient)
	}
	if d.Camera.Position != [3]float64{4, 0, 0} || d.Camera.FOV != 70 {
		t.Errorf("camera = %+v", d.Camera)
	}
	if d.Camera.Far != 100 {
		t.Errorf("far = %v, want default 100", d.Camera.Far)
	}
	if len(d.Spheres) != 1 || d.Spheres[0].Radius != 2 {
		t.Errorf("spheres = %+v", d.Spheres)
	}
	if len(d.Water) != 1 || d.Water[0].BoundaryNormal == nil || *d.Water[0].BoundaryNormal != [3]float32{0, 1, 0} {
		t.Errorf("water = %+v", d.Water)
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	for _, f := range []Format{YAML, TOML} {
		d, err := Parse(nil, f)
		if err != nil {
			t.Fatalf("Parse(%v): %v", f, err)
		}
		want := Default()
		if d.Camera != want.Camera || d.Sun != want.Sun || d.Ambient != want.Ambient {
			t.Errorf("format %v: got %+v, want defaults", f, d)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("camera: [1, 2"), YAML); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("[camera\n"), TOML); err == nil {
		t.Error("expected TOML error")
	}
	if _, err := Parse([]byte("camera:\n  position: [1, 2]\n"), YAML); err == nil {
		t.Error("expected error for short position array")
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(src, []byte(sceneYAML), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, name := range []string{"copy.yaml", "nested/copy.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := d.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			back, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if back.Camera != d.Camera {
				t.Errorf("camera = %+v, want %+v", back.Camera, d.Camera)
			}
			if len(back.Materials) != 2 || back.Materials[0].Shininess == nil || *back.Materials[0].Shininess != 64 {
				t.Errorf("materials = %+v", back.Materials)
			}
			if back.Materials[1].Albedo != nil {
				t.Error("unset albedo should stay unset")
			}
			if len(back.Water) != 1 || back.Water[0].Waves[0] != d.Water[0].Waves[0] {
				t.Errorf("water = %+v", back.Water)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "scene.ini")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("unknown extension: err = %v", err)
	}
}
