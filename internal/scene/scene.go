package scene

import (
	"easyline/internal/config"
	"easyline/internal/graphics"
)

// Line is one segment. World lines are in world units, screen lines in
// pixels with the origin at the top-left.
type Line struct {
	X0, Y0, X1, Y1 float32
	Thickness      float32
	Color          graphics.Color
}

// Drawer is anything that accepts line submissions, usually a lines.Batcher
type Drawer interface {
	DrawLine(x0, y0, x1, y1, thickness float32, c graphics.Color)
}

// Scene is the set of lines drawn each frame
type Scene struct {
	World  []Line
	Screen []Line
}

// Default returns the demo scene: two crossing diagonals in world space
func Default() *Scene {
	return &Scene{
		World: []Line{
			{X0: -0.5, Y0: -0.5, X1: 0.5, Y1: 0.5, Thickness: 0.05, Color: graphics.Red},
			{X0: -0.5, Y0: 0.5, X1: 0.5, Y1: -0.5, Thickness: 0.05, Color: graphics.Green},
		},
	}
}

// FromConfig builds a scene from the lines listed in the configuration.
// An empty list falls back to the demo scene.
func FromConfig(cfg config.Scene) *Scene {
	if len(cfg.World) == 0 && len(cfg.Screen) == 0 {
		return Default()
	}
	s := &Scene{
		World:  make([]Line, 0, len(cfg.World)),
		Screen: make([]Line, 0, len(cfg.Screen)),
	}
	for _, l := range cfg.World {
		s.World = append(s.World, fromConfigLine(l))
	}
	for _, l := range cfg.Screen {
		s.Screen = append(s.Screen, fromConfigLine(l))
	}
	return s
}

func fromConfigLine(l config.Line) Line {
	return Line{X0: l.X0, Y0: l.Y0, X1: l.X1, Y1: l.Y1, Thickness: l.Thickness, Color: l.Color}
}

// Draw submits the world lines
func (s *Scene) Draw(d Drawer) {
	drawAll(d, s.World)
}

// DrawScreen submits the screen lines
func (s *Scene) DrawScreen(d Drawer) {
	drawAll(d, s.Screen)
}

func drawAll(d Drawer, lines []Line) {
	for _, l := range lines {
		d.DrawLine(l.X0, l.Y0, l.X1, l.Y1, l.Thickness, l.Color)
	}
}

// Len is the total number of lines
func (s *Scene) Len() int {
	return len(s.World) + len(s.Screen)
}
