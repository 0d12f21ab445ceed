package renderer

import (
	"easyline/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Stats are per-frame host figures shown by the overlay
type Stats struct {
	FPS         float64
	Cursor      mgl32.Vec2 // window pixels
	CursorWorld mgl32.Vec2
	Lines       int
}

// RenderContext provides shared context for all renderables
type RenderContext struct {
	Camera *graphics.Camera
	Width  int
	Height int
	DT     float64
	Stats  Stats
}

// Renderable is one feature drawn each frame
type Renderable interface {
	Init(width, height int) error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}
