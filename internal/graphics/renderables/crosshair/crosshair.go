package crosshair

import (
	"easyline/internal/config"
	"easyline/internal/graphics"
	"easyline/internal/graphics/renderables/lines"
	renderer "easyline/internal/graphics/renderer"
	"easyline/internal/profiling"
)

// Crosshair marks the viewport centre, which is where the camera position
// lands in world space
type Crosshair struct {
	batcher   *lines.Batcher
	size      float32
	thickness float32
	color     graphics.Color
}

func NewCrosshair(batcher *lines.Batcher, cfg config.Crosshair) *Crosshair {
	return &Crosshair{
		batcher:   batcher,
		size:      cfg.Size,
		thickness: cfg.Thickness,
		color:     cfg.Color,
	}
}

func (c *Crosshair) Init(width, height int) error {
	return c.batcher.Init(width, height)
}

func (c *Crosshair) Render(ctx renderer.RenderContext) {
	if !config.ShowCrosshair() {
		return
	}
	defer profiling.Track("renderer.renderCrosshair")()

	cx, cy := float32(ctx.Width)/2, float32(ctx.Height)/2
	c.batcher.BeginFrame(nil)
	c.batcher.DrawLine(cx-c.size, cy, cx+c.size, cy, c.thickness, c.color)
	c.batcher.DrawLine(cx, cy-c.size, cx, cy+c.size, c.thickness, c.color)
	_ = c.batcher.Flush()
	c.batcher.EndFrame()
}

func (c *Crosshair) SetViewport(width, height int) {
	c.batcher.OnResize(width, height)
}

func (c *Crosshair) Dispose() {
	c.batcher.Shutdown()
}
