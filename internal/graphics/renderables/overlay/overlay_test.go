package overlay_test

import (
	"easyline/internal/assets"
	"easyline/internal/config"
	"easyline/internal/graphics"
	"easyline/internal/graphics/gpu/gputest"
	"easyline/internal/graphics/renderables/lines"
	"easyline/internal/graphics/renderables/overlay"
	renderer "easyline/internal/graphics/renderer"
	"strings"
	"testing"
)

func newOverlay(t *testing.T) (*overlay.Overlay, *gputest.Recorder) {
	t.Helper()
	config.Apply(config.Default())
	rec := gputest.NewRecorder()
	o := overlay.New(lines.NewBatcher(rec, assets.Embedded(), nil), config.Default().Overlay, "EasyLine")
	if err := o.Init(1280, 720); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(o.Dispose)
	return o, rec
}

func frame() renderer.RenderContext {
	cam := graphics.NewCamera(1280, 720)
	return renderer.RenderContext{
		Camera: cam,
		Width:  1280,
		Height: 720,
		Stats:  renderer.Stats{FPS: 59.94, Lines: 2},
	}
}

func TestLines(t *testing.T) {
	o, _ := newOverlay(t)
	text := strings.Join(o.Lines(frame()), "\n")
	for _, want := range []string{"EasyLine", "FPS: 59.9", "zoom 1.00", "Cursor: (0.000, 0.000)", "Lines: 2"} {
		if !strings.Contains(text, want) {
			t.Errorf("overlay text missing %q:\n%s", want, text)
		}
	}
}

func TestRenderDrawsPanelAndText(t *testing.T) {
	o, rec := newOverlay(t)
	o.Render(frame())

	if len(rec.Draws) != 1 {
		t.Fatalf("expected one draw, got %d", len(rec.Draws))
	}
	if rec.Draws[0].Count <= lines.VerticesPerLine {
		t.Fatalf("expected panel and text, got %d vertices", rec.Draws[0].Count)
	}
	m, _ := rec.Matrix("uViewProjection")
	if m != (graphics.PixelSpace{Width: 1280, Height: 720}).ViewProjection() {
		t.Errorf("overlay should draw in pixel space")
	}

	// the panel quad comes first and starts at the margin
	data := rec.Uploads[0]
	if data[0] != 10 {
		t.Errorf("panel should start at x=10, got %v", data[:18])
	}

	if !o.Contains(15, 15) {
		t.Errorf("point inside the panel should be contained")
	}
	if o.Contains(5, 5) || o.Contains(1000, 600) {
		t.Errorf("points outside the panel should not be contained")
	}
}

func TestHiddenOverlay(t *testing.T) {
	o, rec := newOverlay(t)
	o.Render(frame())
	config.ToggleOverlay()
	defer config.Apply(config.Default())

	o.Render(frame())
	if len(rec.Draws) != 1 {
		t.Errorf("hidden overlay should not draw")
	}
	if o.Contains(15, 15) {
		t.Errorf("hidden overlay should not capture the cursor")
	}
}
