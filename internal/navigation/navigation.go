package navigation

import (
	"easyline/internal/config"
	"easyline/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Controller pans and zooms a camera from mouse input
type Controller struct {
	Camera   *graphics.Camera
	PanSpeed float32 // world units per pixel at zoom 1
	ZoomStep float32
	MinZoom  float32

	dragging   bool
	lastMouseX float64
	lastMouseY float64
}

func NewController(camera *graphics.Camera, cfg config.Camera) *Controller {
	return &Controller{
		Camera:   camera,
		PanSpeed: cfg.PanSpeed,
		ZoomStep: cfg.ZoomStep,
		MinZoom:  cfg.MinZoom,
	}
}

// Drag moves the camera by a cursor delta in pixels. Screen y grows
// downwards, world y upwards.
func (c *Controller) Drag(dx, dy float32) {
	zoom := c.Camera.Zoom()
	pos := c.Camera.Position()
	pos[0] -= dx * c.PanSpeed * zoom
	pos[1] += dy * c.PanSpeed * zoom
	c.Camera.SetPosition(pos)
}

// Scroll zooms by one step per notch; positive yoff zooms in
func (c *Controller) Scroll(yoff float64) {
	if yoff == 0 {
		return
	}
	zoom := c.Camera.Zoom() - float32(yoff)*c.ZoomStep
	if zoom < c.MinZoom {
		zoom = c.MinZoom
	}
	c.Camera.SetZoom(zoom)
}

// Reset returns the camera to the origin at zoom 1
func (c *Controller) Reset() {
	c.Camera.Reset()
	c.dragging = false
}

// Press starts a drag at the cursor position
func (c *Controller) Press(x, y float64) {
	c.dragging = true
	c.lastMouseX = x
	c.lastMouseY = y
}

// Move pans by the distance since the last cursor position while dragging
func (c *Controller) Move(x, y float64) {
	if !c.dragging {
		return
	}
	dx := float32(x - c.lastMouseX)
	dy := float32(y - c.lastMouseY)
	c.lastMouseX = x
	c.lastMouseY = y
	if dx != 0 || dy != 0 {
		c.Drag(dx, dy)
	}
}

func (c *Controller) Release() {
	c.dragging = false
}

func (c *Controller) Dragging() bool {
	return c.dragging
}

// CursorWorld converts a cursor position in pixels to world coordinates
func (c *Controller) CursorWorld(x, y float64) mgl32.Vec2 {
	return c.Camera.ScreenToWorld(float32(x), float32(y))
}
