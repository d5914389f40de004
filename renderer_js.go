package main

import (
	"errors"
	"fmt"
	"math"
	"syscall/js"

	"github.com/seqsense/pcgol/mat"
	webgl "github.com/seqsense/webgl-go"

	"github.com/seqsense/orbitviewer/config"
	"github.com/seqsense/orbitviewer/orbit"
)

const (
	fov = math.Pi / 3

	aVertexPosition = 0
	aVertexColor    = 1
)

var errContextLost = errors.New("WebGL context lost")

type glRenderer struct {
	gl     *webgl.WebGL
	canvas js.Value

	program        webgl.Program
	posBuf, colBuf webgl.Buffer

	projectionMatrixLocation webgl.Location
	modelViewMatrixLocation  webgl.Location

	points, stride int
	near, far      float32
}

func newGLRenderer(gl *webgl.WebGL, canvas js.Value, m *model, cfg *config.Config) (*glRenderer, error) {
	program, err := newProgram(gl, vsSource, fsSource)
	if err != nil {
		return nil, err
	}

	r := &glRenderer{
		gl:      gl,
		canvas:  canvas,
		program: program,
		posBuf:  gl.CreateBuffer(),
		colBuf:  gl.CreateBuffer(),

		projectionMatrixLocation: gl.GetUniformLocation(program, "uProjectionMatrix"),
		modelViewMatrixLocation:  gl.GetUniformLocation(program, "uModelViewMatrix"),

		points: m.pp.Points,
		stride: m.pp.Stride(),
	}
	r.near, r.far = m.Clip()

	gl.BindBuffer(gl.ARRAY_BUFFER, r.posBuf)
	gl.BufferData(gl.ARRAY_BUFFER, webgl.ByteArrayBuffer(m.pp.Data), gl.STATIC_DRAW)

	bg := cfg.Background.Vec3()
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)
	gl.ClearDepth(1.0)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)

	gl.UseProgram(program)
	gl.Uniform1f(gl.GetUniformLocation(program, "uPointSizeBase"), cfg.PointSize)
	gl.EnableVertexAttribArray(aVertexPosition)
	gl.EnableVertexAttribArray(aVertexColor)

	return r, nil
}

func (r *glRenderer) Resize(width, height int) {
	r.canvas.Set("width", width)
	r.canvas.Set("height", height)
	if width == 0 || height == 0 {
		return
	}
	projectionMatrix := mat.Perspective(
		float32(fov),
		float32(width)/float32(height),
		r.near, r.far,
	)
	r.gl.UseProgram(r.program)
	r.gl.UniformMatrix4fv(r.projectionMatrixLocation, false, projectionMatrix)
	r.gl.Viewport(0, 0, width, height)
}

func (r *glRenderer) SetColors(rgba []float32) {
	r.gl.BindBuffer(r.gl.ARRAY_BUFFER, r.colBuf)
	r.gl.BufferData(r.gl.ARRAY_BUFFER, webgl.Float32ArrayBuffer(rgba), r.gl.STATIC_DRAW)
}

func (r *glRenderer) Draw(pose orbit.Pose) {
	gl := r.gl
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.points == 0 {
		return
	}
	gl.UseProgram(r.program)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.posBuf)
	gl.VertexAttribPointer(aVertexPosition, 3, gl.FLOAT, false, r.stride, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.colBuf)
	gl.VertexAttribPointer(aVertexColor, 4, gl.FLOAT, false, 4*4, 0)

	gl.UniformMatrix4fv(r.modelViewMatrixLocation, false, pose.View)
	gl.DrawArrays(gl.POINTS, 0, r.points)
}

func newProgram(gl *webgl.WebGL, vs, fs string) (webgl.Program, error) {
	program := gl.CreateProgram()
	for _, sh := range []struct {
		typ  webgl.ShaderType
		name string
		src  string
	}{
		{gl.VERTEX_SHADER, "vertex", vs},
		{gl.FRAGMENT_SHADER, "fragment", fs},
	} {
		s := gl.CreateShader(sh.typ)
		gl.ShaderSource(s, sh.src)
		gl.CompileShader(s)
		if !gl.GetShaderParameter(s, gl.COMPILE_STATUS).(bool) {
			if gl.IsContextLost() {
				return webgl.Program(js.Null()), errContextLost
			}
			return webgl.Program(js.Null()), fmt.Errorf("%s shader: %s", sh.name, gl.GetShaderInfoLog(s))
		}
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	if !gl.GetProgramParameter(program, gl.LINK_STATUS).(bool) {
		if gl.IsContextLost() {
			return webgl.Program(js.Null()), errContextLost
		}
		return webgl.Program(js.Null()), fmt.Errorf("link: %s", gl.GetProgramInfoLog(program))
	}
	return program, nil
}
