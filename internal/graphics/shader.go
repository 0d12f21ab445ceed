package graphics

import (
	"easyline/internal/assets"
	"easyline/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Shader represents a linked GPU shader program
type Shader struct {
	ID      uint32
	backend gpu.Backend
}

// NewShader creates a new shader program from the named vertex and fragment sources
func NewShader(backend gpu.Backend, source assets.Source, vertexName, fragmentName string) (*Shader, error) {
	vertexSource, err := source.ShaderSource(vertexName)
	if err != nil {
		return nil, errors.WithMessage(err, "could not load vertex shader")
	}

	fragmentSource, err := source.ShaderSource(fragmentName)
	if err != nil {
		return nil, errors.WithMessage(err, "could not load fragment shader")
	}

	program, err := backend.CreateProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s / %s", vertexName, fragmentName)
	}

	return &Shader{ID: program, backend: backend}, nil
}

// Use activates the shader program
func (s *Shader) Use() {
	s.backend.UseProgram(s.ID)
}

// Delete releases the program. Safe to call more than once.
func (s *Shader) Delete() {
	if s == nil || s.ID == 0 {
		return
	}
	s.backend.DeleteProgram(s.ID)
	s.ID = 0
}

// SetFloat sets a float uniform
func (s *Shader) SetFloat(name string, value float32) {
	s.backend.Uniform1f(s.ID, name, value)
}

// SetVector2 sets a vec2 uniform
func (s *Shader) SetVector2(name string, x, y float32) {
	s.backend.Uniform2f(s.ID, name, x, y)
}

// SetVector4 sets a vec4 uniform
func (s *Shader) SetVector4(name string, v mgl32.Vec4) {
	s.backend.Uniform4f(s.ID, name, v[0], v[1], v[2], v[3])
}

// SetMatrix4 sets a 4x4 matrix uniform
func (s *Shader) SetMatrix4(name string, m mgl32.Mat4) {
	s.backend.UniformMatrix4(s.ID, name, m)
}
