package scene

import (
	"github.com/Faultbox/raydemo/internal/engine/mesh"
	"github.com/Faultbox/raydemo/internal/engine/water"
	"github.com/Faultbox/raydemo/pkg/math"
)

// Shape tags the geometry an Object draws.
type Shape int

// Object shapes.
const (
	ShapeTriangles Shape = iota
	ShapeSphere
	ShapeWater
)

func (s Shape) String() string {
	switch s {
	case ShapeTriangles:
		return "triangles"
	case ShapeSphere:
		return "sphere"
	case ShapeWater:
		return "water"
	default:
		return "unknown"
	}
}

// Object is a named piece of geometry bound to a material.
//
// Triangles and spheres draw from Soup in world space; Faces keeps the CPU
// copy for ray queries. Water draws from Water, created on Init, with its
// surface space mapped into the world by Model.
type Object struct {
	Name     string
	Material string
	Shape    Shape

	Faces   []mesh.Face
	Sphere  mesh.Sphere
	Soup    *mesh.TriangleSoup
	Surface *water.Surface
	Water   *water.Mesh
	Model   math.Mat4
}

// Transform returns the model matrix the object is drawn with.
func (o *Object) Transform() math.Mat4 {
	if o.Shape != ShapeWater {
		return math.Identity()
	}
	return o.Model
}
