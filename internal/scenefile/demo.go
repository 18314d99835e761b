package scenefile

// Demo describes the built-in scene: a tiled floor under an animated pool,
// with a matte and a mirror sphere above the water.
func Demo(resx, resz int) *Description {
	d := Default()
	d.Camera.Position = [3]float64{0, 1.2, 3}
	d.Camera.Target = [3]float64{0, 0, 0}

	d.Materials = []Material{
		{Name: "floor", Albedo: &[3]float32{0.55, 0.5, 0.45}},
		{Name: "water", Albedo: &[3]float32{0.2, 0.35, 0.5}, Specular: &[3]float32{0.9, 0.9, 0.9}, Shininess: ptr[float32](96), Reflectivity: 0.6},
		{Name: "clay", Albedo: &[3]float32{0.8, 0.3, 0.2}},
		{Name: "mirror", Albedo: &[3]float32{0.9, 0.9, 0.9}, Shininess: ptr[float32](128), Reflectivity: 0.95},
	}

	const y = -0.4
	floor := func(a, b, c [3]float64, ua, ub, uc [2]float64) Face {
		return Face{Positions: [3][3]float64{a, b, c}, UV: [3][2]float64{ua, ub, uc}}
	}
	p := [4][3]float64{{-1.5, y, 1.5}, {1.5, y, 1.5}, {1.5, y, -1.5}, {-1.5, y, -1.5}}
	uv := [4][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}}
	d.Meshes = []Mesh{{
		Name:     "floor",
		Material: "floor",
		Faces: []Face{
			floor(p[0], p[1], p[2], uv[0], uv[1], uv[2]),
			floor(p[0], p[2], p[3], uv[0], uv[2], uv[3]),
		},
	}}

	d.Spheres = []Sphere{
		{Name: "clay ball", Material: "clay", Center: [3]float64{-0.5, 0.35, 0}, Radius: 0.25},
		{Name: "mirror ball", Material: "mirror", Center: [3]float64{0.5, 0.4, -0.2}, Radius: 0.3},
	}

	d.Water = []Water{{
		Name:     "pool",
		Material: "water",
		ResX:     resx,
		ResZ:     resz,
		Waves: []Wave{
			{Source: [2]float64{0, 0}, Falloff: 1.5, Coefficient: 0.05, TimeRate: 3, Period: 12},
			{Source: [2]float64{0.7, -0.6}, Falloff: 2, Coefficient: 0.03, TimeRate: 2.2, Period: 18},
		},
	}}

	d.Lights = []Light{
		{Position: [3]float64{1.5, 1.5, 1.5}, Color: [3]float32{1, 0.85, 0.7}, Range: 6, Intensity: 1},
		{Position: [3]float64{-1.5, 1, -1}, Color: [3]float32{0.5, 0.6, 1}, Range: 5, Intensity: 0.8},
	}
	return d
}

func ptr[T any](v T) *T { return &v }
