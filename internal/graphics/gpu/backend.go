package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var (
	// ErrCompile is returned when a shader stage fails to compile.
	ErrCompile = errors.New("shader compilation failed")
	// ErrLink is returned when a shader program fails to link.
	ErrLink = errors.New("shader program link failed")
	// ErrAlloc is returned when the backend cannot create an object.
	ErrAlloc = errors.New("gpu object allocation failed")
)

// Attrib describes one float vertex attribute inside an interleaved buffer
type Attrib struct {
	Index  uint32
	Size   int32 // number of float components
	Offset int   // byte offset inside a vertex
}

// Layout describes the interleaved vertex format bound to a vertex array
type Layout struct {
	Stride  int32 // bytes per vertex
	Attribs []Attrib
}

// Backend is the set of GPU operations the renderer consumes.
// All methods must be called from the goroutine owning the GL context.
type Backend interface {
	CreateProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	CreateVertexArray() (uint32, error)
	DeleteVertexArray(vao uint32)
	CreateBuffer() (uint32, error)
	DeleteBuffer(vbo uint32)
	SetVertexLayout(vao, vbo uint32, layout Layout)
	// UploadVertices replaces the whole content of vbo with data.
	UploadVertices(vbo uint32, data []float32)

	Uniform1f(program uint32, name string, v float32)
	Uniform2f(program uint32, name string, x, y float32)
	Uniform4f(program uint32, name string, x, y, z, w float32)
	UniformMatrix4(program uint32, name string, m mgl32.Mat4)

	DrawTriangles(vao uint32, count int32)
	// Err returns the pending backend error, if any, as an Error.
	Err() error

	Viewport(width, height int32)
	Clear(r, g, b, a float32)
	EnableBlending()
}

// Error is a backend error code surfaced after a draw call
type Error uint32

// Error codes, identical to the OpenGL enum values.
const (
	InvalidEnum                 Error = 0x0500
	InvalidValue                Error = 0x0501
	InvalidOperation            Error = 0x0502
	OutOfMemory                 Error = 0x0505
	InvalidFramebufferOperation Error = 0x0506
)

func (e Error) Error() string {
	switch e {
	case InvalidEnum:
		return "gl error: GL_INVALID_ENUM (0x500)"
	case InvalidValue:
		return "gl error: GL_INVALID_VALUE (0x501)"
	case InvalidOperation:
		return "gl error: GL_INVALID_OPERATION (0x502)"
	case OutOfMemory:
		return "gl error: GL_OUT_OF_MEMORY (0x505)"
	case InvalidFramebufferOperation:
		return "gl error: GL_INVALID_FRAMEBUFFER_OPERATION (0x506)"
	}
	return fmt.Sprintf("gl error: 0x%x", uint32(e))
}
