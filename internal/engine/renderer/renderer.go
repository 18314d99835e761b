// Package renderer draws a scene with OpenGL.
package renderer

import (
	"fmt"
	"strconv"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/raydemo/internal/engine/gpu/opengl"
	"github.com/Faultbox/raydemo/internal/engine/lighting"
	"github.com/Faultbox/raydemo/internal/engine/scene"
	"github.com/Faultbox/raydemo/internal/engine/shader"
	"github.com/Faultbox/raydemo/internal/engine/shader/glsl"
	"github.com/Faultbox/raydemo/internal/engine/texture"
	"github.com/Faultbox/raydemo/internal/logger"
	"github.com/Faultbox/raydemo/pkg/math"
)

// Vertex attribute locations shared with glsl.LitVertex.
const (
	attribPosition = 0
	attribNormal   = 1
	attribTangent  = 2
	attribTexCoord = 3
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
	Wireframe  bool
}

// DefaultConfig returns a 1280x720 renderer with a dark background.
func DefaultConfig() Config {
	return Config{Width: 1280, Height: 720, ClearColor: [4]float32{0.1, 0.1, 0.15, 1}}
}

// Renderer handles all OpenGL drawing.
type Renderer struct {
	config Config
	device *opengl.Device

	// lit draws soups with full tangent frames; surface draws water.
	lit     *shader.Program
	surface *shader.Program

	vaos  map[*scene.Object]uint32
	white *texture.Texture
	flat  *texture.Texture
}

// New creates a renderer on the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config, device *opengl.Device) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])

	r := &Renderer{
		config: cfg,
		device: device,
		vaos:   make(map[*scene.Object]uint32),
		white:  texture.Solid(device, "white", [4]uint8{255, 255, 255, 255}),
		flat:   texture.Solid(device, "flat-normal", [4]uint8{128, 128, 255, 255}),
	}

	maxLights := strconv.Itoa(lighting.MaxPointLights)
	var err error
	r.lit, err = shader.NewProgram(glsl.LitVertex, glsl.LitFragment, map[string]string{
		"MAX_POINT_LIGHTS": maxLights,
		"HAS_TANGENTS":     "",
	})
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("lit shader: %w", err), r.Close())
	}
	r.surface, err = shader.NewProgram(glsl.LitVertex, glsl.LitFragment, map[string]string{
		"MAX_POINT_LIGHTS": maxLights,
	})
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("water shader: %w", err), r.Close())
	}
	if err := multierr.Combine(r.white.Init(), r.flat.Init()); err != nil {
		return nil, multierr.Append(err, r.Close())
	}

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// SetWireframe toggles polygon line mode.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
}

// Render draws every object in s. The scene must be initialized.
func (r *Renderer) Render(s *scene.Scene) error {
	frame, err := s.Frame()
	if err != nil {
		return err
	}

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	mode := uint32(gl.FILL)
	if r.config.Wireframe {
		mode = gl.LINE
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, mode)

	for _, prog := range []*shader.Program{r.lit, r.surface} {
		prog.Use()
		setFrame(prog, &frame)
	}

	for _, obj := range s.Objects() {
		vao, err := r.vao(obj)
		if err != nil {
			return fmt.Errorf("object %q: %w", obj.Name, err)
		}
		prog := r.lit
		if obj.Shape == scene.ShapeWater {
			prog = r.surface
		}
		prog.Use()
		mat, ok := s.Material(obj.Material)
		if !ok {
			mat, _ = s.Material("default")
		}
		r.setMaterial(prog, mat, obj.Shape == scene.ShapeWater)
		setModel(prog, obj.Transform())

		gl.BindVertexArray(vao)
		if obj.Shape == scene.ShapeWater {
			gl.DrawElements(gl.TRIANGLES, int32(obj.Water.IndexCount()), gl.UNSIGNED_INT, nil)
		} else {
			gl.DrawArrays(gl.TRIANGLES, 0, int32(obj.Soup.Positions.Count()))
		}
	}
	gl.BindVertexArray(0)
	return nil
}

func setFrame(p *shader.Program, f *scene.Frame) {
	gl.UniformMatrix4fv(p.Uniform("uViewProj"), 1, false, &f.ViewProj[0])
	gl.Uniform3fv(p.Uniform("uCameraPos"), 1, &f.CameraPos[0])
	gl.Uniform3fv(p.Uniform("uSunDir"), 1, &f.SunDir[0])
	gl.Uniform3fv(p.Uniform("uSunColor"), 1, &f.SunColor[0])
	gl.Uniform3fv(p.Uniform("uAmbient"), 1, &f.Ambient[0])
	gl.Uniform1i(p.Uniform("uLightCount"), f.LightCount)
	n := int32(lighting.MaxPointLights)
	gl.Uniform3fv(p.Uniform("uLightPos"), n, &f.LightPos[0])
	gl.Uniform3fv(p.Uniform("uLightColor"), n, &f.LightColor[0])
	gl.Uniform1fv(p.Uniform("uLightRange"), n, &f.LightRange[0])
	gl.Uniform1i(p.Uniform("uDiffuse"), 0)
	gl.Uniform1i(p.Uniform("uNormalMap"), 1)
}

func setModel(p *shader.Program, model math.Mat4) {
	m := model.Float32()
	n := math.NormalMatrix(model).Float32()
	gl.UniformMatrix4fv(p.Uniform("uModel"), 1, false, &m[0])
	gl.UniformMatrix3fv(p.Uniform("uNormalMatrix"), 1, false, &n[0])
}

func (r *Renderer) setMaterial(p *shader.Program, m *scene.Material, translucent bool) {
	gl.Uniform3fv(p.Uniform("uAlbedo"), 1, &m.Albedo[0])
	gl.Uniform3fv(p.Uniform("uSpecular"), 1, &m.Specular[0])
	gl.Uniform1f(p.Uniform("uShininess"), m.Shininess)
	alpha := float32(1)
	if translucent {
		alpha = 1 - 0.5*m.Reflectivity
	}
	gl.Uniform1f(p.Uniform("uAlpha"), alpha)

	bind := func(unit uint32, loc string, tex, fallback *texture.Texture) {
		use := tex != nil && tex.Handle() != 0
		if !use {
			tex = fallback
		}
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(gl.TEXTURE_2D, uint32(tex.Handle()))
		gl.Uniform1i(p.Uniform(loc), boolInt(use))
	}
	bind(0, "uUseDiffuse", m.DiffuseTexture(), r.white)
	bind(1, "uUseNormalMap", m.NormalTexture(), r.flat)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// vao returns the vertex array for obj, building it on first use.
func (r *Renderer) vao(obj *scene.Object) (uint32, error) {
	if vao, ok := r.vaos[obj]; ok {
		return vao, nil
	}
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	attrib := func(loc uint32, size int32, bind func() error) error {
		if err := bind(); err != nil {
			return err
		}
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointerWithOffset(loc, size, gl.FLOAT, false, 0, 0)
		return nil
	}

	var err error
	switch obj.Shape {
	case scene.ShapeWater:
		if obj.Water == nil {
			err = fmt.Errorf("water mesh not initialized")
			break
		}
		err = multierr.Combine(
			attrib(attribPosition, 3, obj.Water.Positions.Bind),
			attrib(attribNormal, 3, obj.Water.Normals.Bind),
			obj.Water.Indices.Bind(),
		)
	default:
		err = multierr.Combine(
			attrib(attribPosition, 3, obj.Soup.Positions.Bind),
			attrib(attribNormal, 3, obj.Soup.Normals.Bind),
			attrib(attribTangent, 4, obj.Soup.Tangents.Bind),
			attrib(attribTexCoord, 2, obj.Soup.TexCoords.Bind),
		)
	}
	gl.BindVertexArray(0)
	if err != nil {
		gl.DeleteVertexArrays(1, &vao)
		return 0, err
	}
	r.vaos[obj] = vao
	return vao, nil
}

// Forget drops vertex arrays built for objects of a scene about to be
// destroyed.
func (r *Renderer) Forget(s *scene.Scene) {
	for _, obj := range s.Objects() {
		if vao, ok := r.vaos[obj]; ok {
			gl.DeleteVertexArrays(1, &vao)
			delete(r.vaos, obj)
		}
	}
}

// Close releases GL programs, vertex arrays and fallback textures.
func (r *Renderer) Close() error {
	logger.Info("closing renderer")
	for obj, vao := range r.vaos {
		gl.DeleteVertexArrays(1, &vao)
		delete(r.vaos, obj)
	}
	if r.lit != nil {
		r.lit.Delete()
	}
	if r.surface != nil {
		r.surface.Delete()
	}
	return multierr.Combine(r.white.Destroy(), r.flat.Destroy())
}
