package scenefile

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/raydemo/internal/engine/mesh"
	"github.com/Faultbox/raydemo/internal/logger"
	"github.com/Faultbox/raydemo/pkg/math"
)

// ErrInvalidGLTF is returned for documents with out-of-range references.
var ErrInvalidGLTF = errors.New("invalid glTF document")

// LoadGLTF opens a .gltf or .glb file and flattens every triangle primitive
// of its default scene into world-space faces.
func LoadGLTF(path string) ([]mesh.Face, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	faces, err := Faces(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", path, err)
	}
	logger.Debug("gltf loaded", zap.String("path", path), zap.Int("faces", len(faces)))
	return faces, nil
}

// Faces walks the node hierarchy of doc, applying node transforms. A
// document without scenes contributes its meshes untransformed.
func Faces(doc *gltf.Document) ([]mesh.Face, error) {
	var faces []mesh.Face

	roots := rootNodes(doc)
	if len(roots) == 0 {
		for mi := range doc.Meshes {
			f, err := meshFaces(doc, mi, math.Identity())
			if err != nil {
				return nil, err
			}
			faces = append(faces, f...)
		}
		return faces, nil
	}

	visited := make([]bool, len(doc.Nodes))
	var visit func(idx int, parent math.Mat4) error
	visit = func(idx int, parent math.Mat4) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return fmt.Errorf("node %d: %w", idx, ErrInvalidGLTF)
		}
		if visited[idx] {
			return fmt.Errorf("node %d visited twice: %w", idx, ErrInvalidGLTF)
		}
		visited[idx] = true

		node := doc.Nodes[idx]
		world := parent.Mul(nodeMatrix(node))
		if node.Mesh != nil {
			f, err := meshFaces(doc, *node.Mesh, world)
			if err != nil {
				return err
			}
			faces = append(faces, f...)
		}
		for _, child := range node.Children {
			if err := visit(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := visit(root, math.Identity()); err != nil {
			return nil, err
		}
	}
	return faces, nil
}

func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	sc := 0
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		sc = *doc.Scene
	}
	return doc.Scenes[sc].Nodes
}

// nodeMatrix is matrix * T * R * S. Only one of the two forms is present
// on a node; the other is identity.
func nodeMatrix(n *gltf.Node) math.Mat4 {
	m := math.Mat4(n.MatrixOrDefault())
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault() // x, y, z, w
	s := n.ScaleOrDefault()

	rot := math.Quat{X: float64(r[0]), Y: float64(r[1]), Z: float64(r[2]), W: float64(r[3])}
	trs := math.Translate(math.Vec3{X: float64(t[0]), Y: float64(t[1]), Z: float64(t[2])}).
		Mul(rot.Normalize().ToMat4()).
		Mul(math.Scale(math.Vec3{X: float64(s[0]), Y: float64(s[1]), Z: float64(s[2])}))
	return m.Mul(trs)
}

func meshFaces(doc *gltf.Document, mi int, world math.Mat4) ([]mesh.Face, error) {
	if mi < 0 || mi >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh %d: %w", mi, ErrInvalidGLTF)
	}
	var faces []mesh.Face
	for pi, prim := range doc.Meshes[mi].Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			logger.Warn("skipping non-triangle primitive", zap.Int("mesh", mi), zap.Int("primitive", pi))
			continue
		}
		f, err := primitiveFaces(doc, prim, world)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
		}
		faces = append(faces, f...)
	}
	return faces, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", idx, ErrInvalidGLTF)
	}
	return doc.Accessors[idx], nil
}

// primitiveFaces converts one primitive. glTF texture coordinates have their
// origin at the top left, so V is flipped.
func primitiveFaces(doc *gltf.Document, prim *gltf.Primitive, world math.Mat4) ([]mesh.Face, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute: %w", ErrInvalidGLTF)
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		acc, err := accessor(doc, idx)
		if err != nil {
			return nil, err
		}
		if normals, err = modeler.ReadNormal(doc, acc, nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		acc, err := accessor(doc, idx)
		if err != nil {
			return nil, err
		}
		if uvs, err = modeler.ReadTextureCoord(doc, acc, nil); err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acc, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		logger.Warn("dropping trailing indices", zap.Int("count", len(indices)%3))
	}

	normalMat := math.NormalMatrix(world)
	faces := make([]mesh.Face, 0, len(indices)/3)
	for t := 0; t+2 < len(indices); t += 3 {
		var p [3]math.Vec3
		var uv [3]math.Vec2
		for k := range 3 {
			vi := int(indices[t+k])
			if vi >= len(positions) {
				return nil, fmt.Errorf("index %d of %d vertices: %w", vi, len(positions), ErrInvalidGLTF)
			}
			v := positions[vi]
			p[k] = world.TransformPoint(math.Vec3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
			if vi < len(uvs) {
				uv[k] = math.Vec2{X: float64(uvs[vi][0]), Y: 1 - float64(uvs[vi][1])}
			}
		}

		f := mesh.FlatFace(p[0], p[1], p[2], uv[0], uv[1], uv[2])
		for k := range 3 {
			vi := int(indices[t+k])
			if vi < len(normals) {
				n := normals[vi]
				f.Normals[k] = normalMat.MulVec3(math.Vec3{X: float64(n[0]), Y: float64(n[1]), Z: float64(n[2])}).Normalize()
			}
		}
		faces = append(faces, f)
	}
	return faces, nil
}
