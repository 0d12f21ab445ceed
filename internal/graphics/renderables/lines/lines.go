// Package lines batches thick 2D line segments into a triangle list and
// submits them to the GPU in one draw call per flush.
//
// Quads are expanded on the CPU in the coordinate space of the transform
// captured by BeginFrame: world units with a Camera, pixels with a nil
// transform. The vertex shader only applies the view-projection matrix.
//
// A Batcher holds GPU objects and must be used from the goroutine that owns
// the GL context. Its methods are additionally serialised by a mutex.
package lines

import (
	"easyline/internal/assets"
	"easyline/internal/graphics"
	"easyline/internal/graphics/gpu"
	"easyline/internal/profiling"
	"log/slog"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const (
	VertexShader   = "line.vert.glsl"
	FragmentShader = "line.frag.glsl"

	// VerticesPerLine is the number of vertices appended per segment
	VerticesPerLine = 6

	floatsPerVertex = 6
	minLength       = 1e-6
)

// ErrNotReady is returned by Flush when the GPU objects are missing
var ErrNotReady = errors.New("line renderer not initialized")

// Vertex is the GPU vertex format: position then straight-alpha color
type Vertex struct {
	X, Y       float32
	R, G, B, A float32
}

var layout = gpu.Layout{
	Stride: floatsPerVertex * 4,
	Attribs: []gpu.Attrib{
		{Index: 0, Size: 2, Offset: 0},
		{Index: 1, Size: 4, Offset: 2 * 4},
	},
}

// Batcher accumulates line segments for one frame
type Batcher struct {
	mu sync.Mutex

	backend gpu.Backend
	shaders assets.Source
	log     *slog.Logger

	vertexName   string
	fragmentName string

	shader *graphics.Shader
	vao    uint32
	vbo    uint32

	width, height int
	pixelSpace    bool
	transform     mgl32.Mat4

	vertices []Vertex
	scratch  []float32
}

// Option configures a Batcher
type Option func(*Batcher)

// WithShaders overrides the shader source names
func WithShaders(vertexName, fragmentName string) Option {
	return func(b *Batcher) {
		b.vertexName = vertexName
		b.fragmentName = fragmentName
	}
}

// NewBatcher creates an uninitialized batcher. A nil logger discards diagnostics.
func NewBatcher(backend gpu.Backend, shaders assets.Source, logger *slog.Logger, opts ...Option) *Batcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := &Batcher{
		backend:      backend,
		shaders:      shaders,
		log:          logger,
		vertexName:   VertexShader,
		fragmentName: FragmentShader,
		width:        1,
		height:       1,
		pixelSpace:   true,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.transform = b.pixelTransform()
	return b
}

// Init builds the shader program and vertex objects. On failure every
// object created so far is released and the batcher stays uninitialized.
// Calling Init on a ready batcher replaces its objects.
func (b *Batcher) Init(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.release()
	b.width, b.height = width, height
	b.log.Info("initializing line renderer", "width", width, "height", height)

	shader, err := graphics.NewShader(b.backend, b.shaders, b.vertexName, b.fragmentName)
	if err != nil {
		b.log.Error("failed to build line shader", "error", err)
		return errors.WithMessage(err, "line renderer")
	}

	vao, err := b.backend.CreateVertexArray()
	if err != nil {
		shader.Delete()
		b.log.Error("failed to create vertex array", "error", err)
		return errors.WithMessage(err, "line renderer")
	}
	vbo, err := b.backend.CreateBuffer()
	if err != nil {
		b.backend.DeleteVertexArray(vao)
		shader.Delete()
		b.log.Error("failed to create vertex buffer", "error", err)
		return errors.WithMessage(err, "line renderer")
	}
	b.backend.SetVertexLayout(vao, vbo, layout)

	b.shader, b.vao, b.vbo = shader, vao, vbo
	if b.pixelSpace {
		b.transform = b.pixelTransform()
	}
	b.log.Info("line renderer initialized", "program", shader.ID, "vao", vao, "vbo", vbo)
	return nil
}

// Shutdown releases every GPU object and drops buffered geometry.
// It is a no-op on an uninitialized batcher.
func (b *Batcher) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.release()
}

func (b *Batcher) release() {
	if b.vbo != 0 {
		b.backend.DeleteBuffer(b.vbo)
		b.vbo = 0
	}
	if b.vao != 0 {
		b.backend.DeleteVertexArray(b.vao)
		b.vao = 0
	}
	if b.shader != nil {
		b.shader.Delete()
		b.shader = nil
	}
	b.vertices = b.vertices[:0]
}

// Ready reports whether Init succeeded and Shutdown has not been called since
func (b *Batcher) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready()
}

func (b *Batcher) ready() bool {
	return b.shader != nil && b.shader.ID != 0 && b.vao != 0 && b.vbo != 0
}

// OnResize stores the viewport size used for pixel-space drawing
func (b *Batcher) OnResize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
	if b.pixelSpace {
		b.transform = b.pixelTransform()
	}
}

// Viewport returns the stored viewport size
func (b *Batcher) Viewport() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// BeginFrame captures the transform applied to the following lines.
// A nil transform selects pixel space for the current viewport.
func (b *Batcher) BeginFrame(t graphics.Transform) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t == nil {
		b.pixelSpace = true
		b.transform = b.pixelTransform()
		return
	}
	b.pixelSpace = false
	b.transform = t.ViewProjection()
}

// ViewProjection returns the transform captured for the current frame
func (b *Batcher) ViewProjection() mgl32.Mat4 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transform
}

// PixelToNDC converts a pixel position with the stored viewport size
func (b *Batcher) PixelToNDC(x, y float32) mgl32.Vec2 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pixelSpaceLocked().ToNDC(x, y)
}

func (b *Batcher) pixelSpaceLocked() graphics.PixelSpace {
	return graphics.PixelSpace{Width: float32(b.width), Height: float32(b.height)}
}

func (b *Batcher) pixelTransform() mgl32.Mat4 {
	return b.pixelSpaceLocked().ViewProjection()
}

// DrawLine appends a rectangle of the given thickness centred on the
// segment (x0,y0)-(x1,y1). Zero-length segments are dropped.
func (b *Batcher) DrawLine(x0, y0, x1, y1, thickness float32, c graphics.Color) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	// also rejects NaN and Inf
	if !(length >= minLength) || math.IsInf(float64(length), 0) {
		return
	}

	half := thickness / 2
	nx, ny := -dy/length*half, dx/length*half

	ap := Vertex{x0 + nx, y0 + ny, c.R, c.G, c.B, c.A}
	bp := Vertex{x1 + nx, y1 + ny, c.R, c.G, c.B, c.A}
	am := Vertex{x0 - nx, y0 - ny, c.R, c.G, c.B, c.A}
	bm := Vertex{x1 - nx, y1 - ny, c.R, c.G, c.B, c.A}

	b.mu.Lock()
	b.vertices = append(b.vertices,
		ap, bp, am,
		bp, bm, am,
	)
	b.mu.Unlock()
}

// DrawRect appends a filled axis-aligned rectangle with top-left corner (x, y)
func (b *Batcher) DrawRect(x, y, w, h float32, c graphics.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	b.DrawLine(x, y+h/2, x+w, y+h/2, h, c)
}

// Len returns the number of buffered vertices
func (b *Batcher) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.vertices)
}

// Vertices returns a copy of the buffered vertices
func (b *Batcher) Vertices() []Vertex {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Vertex(nil), b.vertices...)
}

// Flush uploads the buffered vertices and draws them in one call. The
// buffer is empty when Flush returns, whatever the outcome.
func (b *Batcher) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.vertices) == 0 {
		return nil
	}
	defer profiling.Track("lines.Flush")()
	defer func() { b.vertices = b.vertices[:0] }()

	if !b.ready() {
		var program uint32
		if b.shader != nil {
			program = b.shader.ID
		}
		b.log.Error("invalid line renderer state", "program", program, "vao", b.vao, "vbo", b.vbo)
		return ErrNotReady
	}

	b.scratch = b.scratch[:0]
	for _, v := range b.vertices {
		b.scratch = append(b.scratch, v.X, v.Y, v.R, v.G, v.B, v.A)
	}

	b.shader.Use()
	b.backend.UploadVertices(b.vbo, b.scratch)
	b.shader.SetMatrix4("uViewProjection", b.transform)
	b.shader.SetVector2("uViewportSize", float32(b.width), float32(b.height))
	b.backend.DrawTriangles(b.vao, int32(len(b.vertices)))

	if err := b.backend.Err(); err != nil {
		b.log.Error("error during line draw", "error", err, "vertices", len(b.vertices))
		return errors.WithMessage(err, "draw lines")
	}
	return nil
}

// EndFrame closes a frame started with BeginFrame
func (b *Batcher) EndFrame() {}
