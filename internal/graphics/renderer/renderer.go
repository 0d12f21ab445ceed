package renderer

import (
	"easyline/internal/graphics"
	"easyline/internal/graphics/gpu"
	"easyline/internal/profiling"

	"github.com/pkg/errors"
)

// Renderer orchestrates rendering via renderable features
type Renderer struct {
	backend     gpu.Backend
	renderables []Renderable
	camera      *graphics.Camera
	clear       graphics.Color

	width, height int
}

// NewRenderer initialises every renderable in order. If one fails, the
// ones already initialised are disposed and the error is returned.
func NewRenderer(backend gpu.Backend, camera *graphics.Camera, clear graphics.Color, rs ...Renderable) (*Renderer, error) {
	backend.EnableBlending()

	w, h := camera.Size()
	r := &Renderer{
		backend:     backend,
		renderables: rs,
		camera:      camera,
		clear:       clear,
		width:       int(w),
		height:      int(h),
	}
	backend.Viewport(int32(r.width), int32(r.height))

	for i, renderable := range rs {
		if err := renderable.Init(r.width, r.height); err != nil {
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, errors.WithMessagef(err, "init renderable %d", i)
		}
	}

	return r, nil
}

// Render clears the frame and draws every renderable in order
func (r *Renderer) Render(dt float64, stats Stats) {
	defer profiling.Track("renderer.Render")()

	r.backend.Clear(r.clear.R, r.clear.G, r.clear.B, r.clear.A)

	ctx := RenderContext{
		Camera: r.camera,
		Width:  r.width,
		Height: r.height,
		DT:     dt,
		Stats:  stats,
	}
	for _, renderable := range r.renderables {
		renderable.Render(ctx)
	}
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
}

func (r *Renderer) Camera() *graphics.Camera {
	return r.camera
}

// UpdateViewport propagates a framebuffer resize. An empty framebuffer
// (minimised window) is ignored.
func (r *Renderer) UpdateViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.backend.Viewport(int32(width), int32(height))
	r.camera.OnResize(float32(width), float32(height))
	for _, renderable := range r.renderables {
		renderable.SetViewport(width, height)
	}
}

// SetClearColor changes the background color
func (r *Renderer) SetClearColor(c graphics.Color) {
	r.clear = c
}
