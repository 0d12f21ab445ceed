package gpu

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// GL implements Backend on an OpenGL 4.1 core context.
// gl.Init must have succeeded on the current thread before any call.
type GL struct{}

// NewGL returns the OpenGL backend
func NewGL() *GL {
	return &GL{}
}

// CreateProgram compiles both stages and links them. Nothing is left
// allocated when an error is returned.
func (*GL) CreateProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, errors.WithMessage(err, "vertex stage")
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, errors.WithMessage(err, "fragment stage")
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	if program == 0 {
		return 0, errors.Wrap(ErrAlloc, "create program")
	}
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, errors.Wrap(ErrLink, strings.TrimRight(log, "\x00"))
	}
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	if shader == 0 {
		return 0, errors.Wrap(ErrAlloc, "create shader")
	}
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, errors.Wrap(ErrCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (*GL) DeleteProgram(program uint32) {
	if program != 0 {
		gl.DeleteProgram(program)
	}
}

func (*GL) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (*GL) CreateVertexArray() (uint32, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, errors.Wrap(ErrAlloc, "vertex array")
	}
	return vao, nil
}

func (*GL) DeleteVertexArray(vao uint32) {
	if vao != 0 {
		gl.DeleteVertexArrays(1, &vao)
	}
}

func (*GL) CreateBuffer() (uint32, error) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	if vbo == 0 {
		return 0, errors.Wrap(ErrAlloc, "vertex buffer")
	}
	return vbo, nil
}

func (*GL) DeleteBuffer(vbo uint32) {
	if vbo != 0 {
		gl.DeleteBuffers(1, &vbo)
	}
}

func (*GL) SetVertexLayout(vao, vbo uint32, layout Layout) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)

	for _, a := range layout.Attribs {
		gl.EnableVertexAttribArray(a.Index)
		gl.VertexAttribPointerWithOffset(a.Index, a.Size, gl.FLOAT, false, layout.Stride, uintptr(a.Offset))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (*GL) UploadVertices(vbo uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
	}
}

func uniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// Uniform setters silently skip names the linker optimised away.

func (*GL) Uniform1f(program uint32, name string, v float32) {
	if loc := uniformLocation(program, name); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

func (*GL) Uniform2f(program uint32, name string, x, y float32) {
	if loc := uniformLocation(program, name); loc >= 0 {
		gl.Uniform2f(loc, x, y)
	}
}

func (*GL) Uniform4f(program uint32, name string, x, y, z, w float32) {
	if loc := uniformLocation(program, name); loc >= 0 {
		gl.Uniform4f(loc, x, y, z, w)
	}
}

func (*GL) UniformMatrix4(program uint32, name string, m mgl32.Mat4) {
	if loc := uniformLocation(program, name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

func (*GL) DrawTriangles(vao uint32, count int32) {
	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.TRIANGLES, 0, count)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func (*GL) Err() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return Error(code)
	}
	return nil
}

func (*GL) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (*GL) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// EnableBlending sets up straight alpha blending for 2D drawing
func (*GL) EnableBlending() {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}
