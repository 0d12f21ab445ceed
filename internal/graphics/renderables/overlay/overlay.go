// Package overlay draws the status panel in the top-left corner: frame
// rate, camera state, cursor position and the most expensive tracked
// sections of the previous frame.
package overlay

import (
	"easyline/internal/config"
	"easyline/internal/graphics"
	"easyline/internal/graphics/renderables/lines"
	renderer "easyline/internal/graphics/renderer"
	"easyline/internal/profiling"
	"fmt"
	"strings"
	"sync"
)

const (
	margin  = 10
	padding = 8
)

var (
	textColor  = graphics.RGBA(1, 1, 1, 0.95)
	panelColor = graphics.RGBA(0.08, 0.08, 0.1, 0.65)
)

type rect struct {
	x, y, w, h float32
}

// Overlay renders text as 1-pixel lines through a batcher
type Overlay struct {
	batcher *lines.Batcher
	cfg     config.Overlay
	title   string
	font    *graphics.Font

	mu    sync.Mutex
	panel rect
	shown bool
}

func New(batcher *lines.Batcher, cfg config.Overlay, title string) *Overlay {
	return &Overlay{batcher: batcher, cfg: cfg, title: title}
}

func (o *Overlay) Init(width, height int) error {
	if o.font == nil {
		f, err := graphics.NewFont(o.cfg.FontSize)
		if err != nil {
			return err
		}
		o.font = f
	}
	return o.batcher.Init(width, height)
}

// Lines returns the text shown for a frame
func (o *Overlay) Lines(ctx renderer.RenderContext) []string {
	out := []string{
		o.title,
		fmt.Sprintf("FPS: %.1f", ctx.Stats.FPS),
	}
	if ctx.Camera != nil {
		pos := ctx.Camera.Position()
		out = append(out, fmt.Sprintf("Camera: (%.3f, %.3f)  zoom %.2f", pos.X(), pos.Y(), ctx.Camera.Zoom()))
	}
	out = append(out,
		fmt.Sprintf("Cursor: (%.3f, %.3f)", ctx.Stats.CursorWorld.X(), ctx.Stats.CursorWorld.Y()),
		fmt.Sprintf("Lines: %d", ctx.Stats.Lines),
	)
	if o.cfg.TopTasks > 0 {
		if top := profiling.TopN(o.cfg.TopTasks); top != "" {
			for line := range strings.SplitSeq(top, ", ") {
				out = append(out, line)
			}
		}
	}
	return out
}

func (o *Overlay) Render(ctx renderer.RenderContext) {
	if !config.ShowOverlay() || o.font == nil {
		o.setPanel(rect{}, false)
		return
	}
	defer profiling.Track("renderer.overlay")()

	text := o.Lines(ctx)
	lineHeight := o.font.LineHeight()
	width := 0
	for _, s := range text {
		width = max(width, o.font.Measure(s))
	}
	panel := rect{
		x: margin,
		y: margin,
		w: float32(width + 2*padding),
		h: float32(len(text)*lineHeight + 2*padding),
	}
	o.setPanel(panel, true)

	o.batcher.BeginFrame(nil)
	o.batcher.DrawRect(panel.x, panel.y, panel.w, panel.h, panelColor)
	for i, s := range text {
		ox := panel.x + padding
		oy := panel.y + padding + float32(i*lineHeight)
		o.drawText(s, ox, oy)
	}
	_ = o.batcher.Flush()
	o.batcher.EndFrame()
}

// drawText covers each inked pixel row run with a 1-pixel horizontal line
func (o *Overlay) drawText(s string, x, y float32) {
	mask := o.font.Rasterize(s)
	for _, sp := range mask.Spans {
		row := y + float32(sp.Y) + 0.5
		o.batcher.DrawLine(x+float32(sp.X0), row, x+float32(sp.X1), row, 1, textColor)
	}
}

func (o *Overlay) setPanel(r rect, shown bool) {
	o.mu.Lock()
	o.panel = r
	o.shown = shown
	o.mu.Unlock()
}

// Contains reports whether a window pixel lies on the panel drawn last frame
func (o *Overlay) Contains(x, y float64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.shown {
		return false
	}
	fx, fy := float32(x), float32(y)
	return fx >= o.panel.x && fx < o.panel.x+o.panel.w &&
		fy >= o.panel.y && fy < o.panel.y+o.panel.h
}

func (o *Overlay) SetViewport(width, height int) {
	o.batcher.OnResize(width, height)
}

func (o *Overlay) Dispose() {
	o.batcher.Shutdown()
	if o.font != nil {
		_ = o.font.Close()
		o.font = nil
	}
}
