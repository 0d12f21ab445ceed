package graphics

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Color is a straight-alpha RGBA color with components in [0,1]
type Color struct {
	R, G, B, A float32
}

var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Transparent = Color{}
)

// RGBA builds a Color from its components
func RGBA(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// FromColor converts any image/color value (alpha-premultiplied) to a Color
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Transparent
	}
	fa := float32(a)
	return Color{
		R: float32(r) / fa,
		G: float32(g) / fa,
		B: float32(b) / fa,
		A: fa / 0xffff,
	}
}

// WithAlpha returns c with its alpha replaced
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// ParseHex parses "#rrggbb" or "#rrggbbaa" (the leading # is optional)
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return Color{}, errors.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, errors.Wrapf(err, "invalid hex color %q", s)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		R: float32(v>>24&0xff) / 255,
		G: float32(v>>16&0xff) / 255,
		B: float32(v>>8&0xff) / 255,
		A: float32(v&0xff) / 255,
	}, nil
}

// FromComponents builds a Color from 3 or 4 components; alpha defaults to 1
func FromComponents(v []float32) (Color, error) {
	switch len(v) {
	case 3:
		return Color{v[0], v[1], v[2], 1}, nil
	case 4:
		return Color{v[0], v[1], v[2], v[3]}, nil
	}
	return Color{}, errors.Errorf("color needs 3 or 4 components, got %d", len(v))
}

// UnmarshalYAML accepts [r, g, b], [r, g, b, a] or a hex string
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseHex(node.Value)
		if err != nil {
			return errors.Wrapf(err, "line %d", node.Line)
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var v []float32
		if err := node.Decode(&v); err != nil {
			return err
		}
		parsed, err := FromComponents(v)
		if err != nil {
			return errors.Wrapf(err, "line %d", node.Line)
		}
		*c = parsed
		return nil
	}
	return errors.Errorf("line %d: color must be a list or a hex string", node.Line)
}

func (c Color) MarshalYAML() (interface{}, error) {
	return []float32{c.R, c.G, c.B, c.A}, nil
}
