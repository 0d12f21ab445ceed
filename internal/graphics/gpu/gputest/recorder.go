// Package gputest provides an in-memory gpu.Backend for tests.
package gputest

import (
	"easyline/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// DrawCall is one recorded DrawTriangles invocation
type DrawCall struct {
	Program uint32
	VAO     uint32
	Count   int32
}

// Recorder records every backend call. Object ids are handed out from a
// counter starting at 1, so zero is never a valid handle.
type Recorder struct {
	// Failure switches
	FailCompile     bool
	FailLink        bool
	FailVertexArray bool
	FailBuffer      bool
	// DrawError is reported by Err after the next draw call
	DrawError gpu.Error

	nextID  uint32
	current uint32
	pending error

	Programs     map[uint32]bool // live programs
	VertexArrays map[uint32]bool
	Buffers      map[uint32]bool
	Layouts      map[uint32]gpu.Layout
	Deleted      []uint32

	Uploads  [][]float32
	Draws    []DrawCall
	Uniforms map[string][]float32
	Calls    int

	ClearColor   [4]float32
	ViewportSize [2]int32
	Blending     bool
}

// NewRecorder returns an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{
		Programs:     make(map[uint32]bool),
		VertexArrays: make(map[uint32]bool),
		Buffers:      make(map[uint32]bool),
		Layouts:      make(map[uint32]gpu.Layout),
		Uniforms:     make(map[string][]float32),
	}
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

// Live reports the number of programs, vertex arrays and buffers not yet deleted
func (r *Recorder) Live() int {
	return len(r.Programs) + len(r.VertexArrays) + len(r.Buffers)
}

func (r *Recorder) CreateProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	r.Calls++
	if r.FailCompile {
		return 0, errors.WithMessage(errors.Wrap(gpu.ErrCompile, "0:1: syntax error"), "vertex stage")
	}
	if r.FailLink {
		return 0, errors.Wrap(gpu.ErrLink, "undefined main")
	}
	p := r.id()
	r.Programs[p] = true
	return p, nil
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.Calls++
	if program == 0 {
		return
	}
	delete(r.Programs, program)
	r.Deleted = append(r.Deleted, program)
}

func (r *Recorder) UseProgram(program uint32) {
	r.Calls++
	r.current = program
}

func (r *Recorder) CreateVertexArray() (uint32, error) {
	r.Calls++
	if r.FailVertexArray {
		return 0, errors.Wrap(gpu.ErrAlloc, "vertex array")
	}
	vao := r.id()
	r.VertexArrays[vao] = true
	return vao, nil
}

func (r *Recorder) DeleteVertexArray(vao uint32) {
	r.Calls++
	if vao == 0 {
		return
	}
	delete(r.VertexArrays, vao)
	r.Deleted = append(r.Deleted, vao)
}

func (r *Recorder) CreateBuffer() (uint32, error) {
	r.Calls++
	if r.FailBuffer {
		return 0, errors.Wrap(gpu.ErrAlloc, "vertex buffer")
	}
	vbo := r.id()
	r.Buffers[vbo] = true
	return vbo, nil
}

func (r *Recorder) DeleteBuffer(vbo uint32) {
	r.Calls++
	if vbo == 0 {
		return
	}
	delete(r.Buffers, vbo)
	r.Deleted = append(r.Deleted, vbo)
}

func (r *Recorder) SetVertexLayout(vao, vbo uint32, layout gpu.Layout) {
	r.Calls++
	r.Layouts[vao] = layout
}

func (r *Recorder) UploadVertices(vbo uint32, data []float32) {
	r.Calls++
	r.Uploads = append(r.Uploads, append([]float32(nil), data...))
}

func (r *Recorder) Uniform1f(program uint32, name string, v float32) {
	r.Calls++
	r.Uniforms[name] = []float32{v}
}

func (r *Recorder) Uniform2f(program uint32, name string, x, y float32) {
	r.Calls++
	r.Uniforms[name] = []float32{x, y}
}

func (r *Recorder) Uniform4f(program uint32, name string, x, y, z, w float32) {
	r.Calls++
	r.Uniforms[name] = []float32{x, y, z, w}
}

func (r *Recorder) UniformMatrix4(program uint32, name string, m mgl32.Mat4) {
	r.Calls++
	r.Uniforms[name] = append([]float32(nil), m[:]...)
}

// Matrix returns the last value set for a mat4 uniform
func (r *Recorder) Matrix(name string) (mgl32.Mat4, bool) {
	var m mgl32.Mat4
	v, ok := r.Uniforms[name]
	if !ok || len(v) != 16 {
		return m, false
	}
	copy(m[:], v)
	return m, true
}

func (r *Recorder) DrawTriangles(vao uint32, count int32) {
	r.Calls++
	r.Draws = append(r.Draws, DrawCall{Program: r.current, VAO: vao, Count: count})
	if r.DrawError != 0 {
		r.pending = r.DrawError
	}
}

func (r *Recorder) Err() error {
	r.Calls++
	err := r.pending
	r.pending = nil
	return err
}

func (r *Recorder) Viewport(width, height int32) {
	r.Calls++
	r.ViewportSize = [2]int32{width, height}
}

func (r *Recorder) Clear(red, green, blue, alpha float32) {
	r.Calls++
	r.ClearColor = [4]float32{red, green, blue, alpha}
}

func (r *Recorder) EnableBlending() {
	r.Calls++
	r.Blending = true
}

var _ gpu.Backend = (*Recorder)(nil)
