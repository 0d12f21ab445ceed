// Package grid draws a world-space reference grid and the two axes.
package grid

import (
	"easyline/internal/config"
	"easyline/internal/graphics"
	"easyline/internal/graphics/renderables/lines"
	renderer "easyline/internal/graphics/renderer"
	"easyline/internal/profiling"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultMaxLines = 200
	maxDoublings    = 64
)

type Grid struct {
	batcher *lines.Batcher
	cfg     config.Grid
}

func New(batcher *lines.Batcher, cfg config.Grid) *Grid {
	if cfg.MaxLines <= 0 {
		cfg.MaxLines = defaultMaxLines
	}
	return &Grid{batcher: batcher, cfg: cfg}
}

func (g *Grid) Init(width, height int) error {
	return g.batcher.Init(width, height)
}

// Spacing returns the grid step for the visible bounds: base, doubled until
// at most maxLines lines fit
func Spacing(min, max mgl32.Vec2, base float32, maxLines int) float32 {
	s := base
	for i := 0; i < maxDoublings && lineCount(min, max, s) > maxLines; i++ {
		s *= 2
	}
	return s
}

func lineCount(min, max mgl32.Vec2, s float32) int {
	first, last := indexRange(min[0], max[0], s)
	n := last - first + 1
	first, last = indexRange(min[1], max[1], s)
	return n + last - first + 1
}

// indexRange is the inclusive range of multiples of s inside [lo, hi]
func indexRange(lo, hi, s float32) (first, last int) {
	return int(math.Ceil(float64(lo / s))), int(math.Floor(float64(hi / s)))
}

func (g *Grid) Render(ctx renderer.RenderContext) {
	if !config.ShowGrid() || ctx.Camera == nil || ctx.Height <= 0 {
		return
	}
	defer profiling.Track("renderer.grid")()

	cam := ctx.Camera
	min, max := cam.VisibleBounds()
	s := Spacing(min, max, g.cfg.Spacing, g.cfg.MaxLines)
	// world units per pixel is 2*zoom/height
	thickness := g.cfg.Thickness * 2 * cam.Zoom() / float32(ctx.Height)

	g.batcher.BeginFrame(cam)
	first, last := indexRange(min[0], max[0], s)
	for i := first; i <= last; i++ {
		x := float32(i) * s
		g.batcher.DrawLine(x, min[1], x, max[1], g.thick(i, thickness), g.color(i))
	}
	first, last = indexRange(min[1], max[1], s)
	for i := first; i <= last; i++ {
		y := float32(i) * s
		g.batcher.DrawLine(min[0], y, max[0], y, g.thick(i, thickness), g.color(i))
	}
	_ = g.batcher.Flush()
	g.batcher.EndFrame()
}

func (g *Grid) color(i int) graphics.Color {
	if i == 0 {
		return g.cfg.AxisColor
	}
	return g.cfg.Color
}

func (g *Grid) thick(i int, t float32) float32 {
	if i == 0 {
		return 2 * t
	}
	return t
}

func (g *Grid) SetViewport(width, height int) {
	g.batcher.OnResize(width, height)
}

func (g *Grid) Dispose() {
	g.batcher.Shutdown()
}
