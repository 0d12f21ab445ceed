package graphics

import (
	"image"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// coverage at or above this alpha counts as ink
	inkThreshold = 128
	// rasterised strings kept before the cache is dropped
	maxCachedStrings = 256
)

// Span is a run of covered pixels [X0, X1) on row Y of a text mask
type Span struct {
	X0, X1, Y int
}

// TextMask is a rasterised string as horizontal pixel runs
type TextMask struct {
	Width, Height int
	Spans         []Span
}

// Font rasterises strings into TextMasks with a single opentype face
type Font struct {
	mu     sync.Mutex
	face   font.Face
	ascent int
	height int
	cache  map[string]*TextMask
}

// NewFont loads Go Regular at the given pixel size
func NewFont(size float64) (*Font, error) {
	return NewFontFromBytes(goregular.TTF, size)
}

// NewFontFromBytes parses a TrueType/OpenType font
func NewFontFromBytes(data []byte, size float64) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, errors.Wrap(err, "new face")
	}
	m := face.Metrics()
	return &Font{
		face:   face,
		ascent: m.Ascent.Ceil(),
		height: m.Height.Ceil(),
		cache:  make(map[string]*TextMask),
	}, nil
}

// LineHeight is the distance between baselines in pixels
func (f *Font) LineHeight() int {
	return f.height
}

// Measure returns the advance width of s in pixels
func (f *Font) Measure(s string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return font.MeasureString(f.face, s).Ceil()
}

// Rasterize renders s with its top-left at the origin. Results are cached
// per string.
func (f *Font) Rasterize(s string) *TextMask {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := f.cache[s]; ok {
		return m
	}
	if len(f.cache) >= maxCachedStrings {
		f.cache = make(map[string]*TextMask)
	}

	w := font.MeasureString(f.face, s).Ceil()
	m := &TextMask{Width: w, Height: f.height}
	if w > 0 && f.height > 0 {
		img := image.NewAlpha(image.Rect(0, 0, w, f.height))
		d := &font.Drawer{
			Dst:  img,
			Src:  image.White,
			Face: f.face,
			Dot:  fixed.P(0, f.ascent),
		}
		d.DrawString(s)
		m.Spans = spans(img)
	}
	f.cache[s] = m
	return m
}

func spans(img *image.Alpha) []Span {
	var out []Span
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := -1
		for x := b.Min.X; x < b.Max.X; x++ {
			ink := img.AlphaAt(x, y).A >= inkThreshold
			switch {
			case ink && start < 0:
				start = x
			case !ink && start >= 0:
				out = append(out, Span{X0: start, X1: x, Y: y})
				start = -1
			}
		}
		if start >= 0 {
			out = append(out, Span{X0: start, X1: b.Max.X, Y: y})
		}
	}
	return out
}

func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = nil
	return f.face.Close()
}
