package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform maps input coordinates to normalized device coordinates
type Transform interface {
	ViewProjection() mgl32.Mat4
}

// Camera is an orthographic 2D camera. The visible area is
// [-aspect*zoom, aspect*zoom] x [-zoom, zoom] world units around Position,
// so a smaller zoom shows less of the world.
//
// Every setter recomputes the cached matrices before returning; reads
// never compute anything.
type Camera struct {
	position    mgl32.Vec2
	zoom        float32
	aspectRatio float32
	width       float32
	height      float32

	projection     mgl32.Mat4
	view           mgl32.Mat4
	viewProjection mgl32.Mat4
}

// NewCamera creates a camera for a viewport of the given size in pixels.
// A zero height is treated as 1.
func NewCamera(width, height float32) *Camera {
	if height == 0 {
		height = 1
	}
	c := &Camera{
		zoom:        1,
		width:       width,
		height:      height,
		aspectRatio: width / height,
	}
	c.projection = c.ortho()
	c.view = mgl32.Ident4()
	c.viewProjection = c.projection.Mul4(c.view)
	return c
}

// OnResize must be called whenever the drawing surface changes size.
// Non-positive sizes, as reported for minimised windows, are ignored.
func (c *Camera) OnResize(width, height float32) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width = width
	c.height = height
	c.aspectRatio = width / height
	c.recalculate()
}

// SetPosition moves the camera centre to p (world units)
func (c *Camera) SetPosition(p mgl32.Vec2) {
	c.position = p
	c.recalculate()
}

func (c *Camera) Position() mgl32.Vec2 {
	return c.position
}

// SetZoom sets the half-height of the visible area. The caller keeps it
// positive; the camera does not clamp.
func (c *Camera) SetZoom(zoom float32) {
	c.zoom = zoom
	c.recalculate()
}

func (c *Camera) Zoom() float32 {
	return c.zoom
}

// Reset moves the camera back to the origin with zoom 1
func (c *Camera) Reset() {
	c.position = mgl32.Vec2{}
	c.zoom = 1
	c.recalculate()
}

func (c *Camera) AspectRatio() float32 {
	return c.aspectRatio
}

// Size returns the viewport size in pixels
func (c *Camera) Size() (width, height float32) {
	return c.width, c.height
}

func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

// ViewProjection returns projection * view
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.viewProjection
}

// VisibleBounds returns the world-space rectangle covered by the viewport
func (c *Camera) VisibleBounds() (min, max mgl32.Vec2) {
	half := mgl32.Vec2{c.aspectRatio * c.zoom, c.zoom}
	return c.position.Sub(half), c.position.Add(half)
}

// ScreenToWorld converts a pixel position (top-left origin, y down) to world units
func (c *Camera) ScreenToWorld(x, y float32) mgl32.Vec2 {
	ndcX := (x/c.width)*2 - 1
	ndcY := 1 - (y/c.height)*2
	return mgl32.Vec2{
		c.position.X() + ndcX*c.aspectRatio*c.zoom,
		c.position.Y() + ndcY*c.zoom,
	}
}

func (c *Camera) ortho() mgl32.Mat4 {
	return mgl32.Ortho(-c.aspectRatio*c.zoom, c.aspectRatio*c.zoom, -c.zoom, c.zoom, -1, 1)
}

func (c *Camera) recalculate() {
	c.projection = c.ortho()
	transform := mgl32.Translate3D(c.position.X(), c.position.Y(), 0)
	c.view = transform.Inv()
	c.viewProjection = c.projection.Mul4(c.view)
}

// PixelSpace maps pixel coordinates (top-left origin, y down) of a
// viewport to normalized device coordinates
type PixelSpace struct {
	Width, Height float32
}

func (p PixelSpace) ViewProjection() mgl32.Mat4 {
	w, h := p.Width, p.Height
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return mgl32.Ortho(0, w, h, 0, -1, 1)
}

// ToNDC converts a single pixel position
func (p PixelSpace) ToNDC(x, y float32) mgl32.Vec2 {
	v := p.ViewProjection().Mul4x1(mgl32.Vec4{x, y, 0, 1})
	return mgl32.Vec2{v[0], v[1]}
}
