package lines_test

import (
	"easyline/internal/assets"
	"easyline/internal/graphics"
	"easyline/internal/graphics/gpu"
	"easyline/internal/graphics/gpu/gputest"
	"easyline/internal/graphics/renderables/lines"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const eps = 1e-4

func near(a, b float32) bool {
	d := a - b
	return d < eps && d > -eps
}

func nearVec2(a, b mgl32.Vec2) bool {
	return near(a[0], b[0]) && near(a[1], b[1])
}

func nearMat4(a, b mgl32.Mat4) bool {
	for i := range a {
		if !near(a[i], b[i]) {
			return false
		}
	}
	return true
}

func newReady(t *testing.T, width, height int) (*lines.Batcher, *gputest.Recorder) {
	t.Helper()
	rec := gputest.NewRecorder()
	b := lines.NewBatcher(rec, assets.Embedded(), nil)
	if err := b.Init(width, height); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return b, rec
}

func pos(v lines.Vertex) mgl32.Vec2 { return mgl32.Vec2{v.X, v.Y} }

// checkQuad verifies that six vertices cover the rectangle of the given
// thickness centred on a-b
func checkQuad(t *testing.T, vs []lines.Vertex, a, b mgl32.Vec2, thickness float32) {
	t.Helper()
	if len(vs) != lines.VerticesPerLine {
		t.Fatalf("expected %d vertices, got %d", lines.VerticesPerLine, len(vs))
	}
	d := b.Sub(a).Normalize()
	n := mgl32.Vec2{-d.Y(), d.X()}
	half := thickness / 2

	corners := map[string]mgl32.Vec2{
		"a+": a.Add(n.Mul(half)),
		"b+": b.Add(n.Mul(half)),
		"a-": a.Sub(n.Mul(half)),
		"b-": b.Sub(n.Mul(half)),
	}
	want := []string{"a+", "b+", "a-", "b+", "b-", "a-"}
	for i, name := range want {
		if !nearVec2(pos(vs[i]), corners[name]) {
			t.Errorf("vertex %d: got %v, want %s=%v", i, pos(vs[i]), name, corners[name])
		}
	}

	// Both triangles wind the same way
	area := func(p, q, r mgl32.Vec2) float32 {
		return (q.X()-p.X())*(r.Y()-p.Y()) - (q.Y()-p.Y())*(r.X()-p.X())
	}
	a1 := area(pos(vs[0]), pos(vs[1]), pos(vs[2]))
	a2 := area(pos(vs[3]), pos(vs[4]), pos(vs[5]))
	if a1*a2 <= 0 {
		t.Errorf("triangles have inconsistent winding: %f %f", a1, a2)
	}
	// Their union is the full rectangle: |a1|/2 + |a2|/2 == length * thickness
	length := b.Sub(a).Len()
	if got := (abs(a1) + abs(a2)) / 2; !mgl32.FloatEqualThreshold(got, length*thickness, 1e-2) {
		t.Errorf("quad area %f, want %f", got, length*thickness)
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func TestDrawLineGeometry(t *testing.T) {
	b := lines.NewBatcher(gputest.NewRecorder(), assets.Embedded(), nil)

	cases := []struct {
		a, b      mgl32.Vec2
		thickness float32
	}{
		{mgl32.Vec2{0, 0}, mgl32.Vec2{10, 0}, 2},
		{mgl32.Vec2{0, 0}, mgl32.Vec2{0, 5}, 1},
		{mgl32.Vec2{-0.5, -0.5}, mgl32.Vec2{0.5, 0.5}, 0.05},
		{mgl32.Vec2{100, 120}, mgl32.Vec2{600, 300}, 10},
	}
	for _, tc := range cases {
		b.DrawLine(tc.a.X(), tc.a.Y(), tc.b.X(), tc.b.Y(), tc.thickness, graphics.Red)
		vs := b.Vertices()
		checkQuad(t, vs[len(vs)-6:], tc.a, tc.b, tc.thickness)
		for _, v := range vs[len(vs)-6:] {
			if v.R != 1 || v.G != 0 || v.B != 0 || v.A != 1 {
				t.Errorf("color not replicated: %+v", v)
			}
		}
	}
	if b.Len() != len(cases)*lines.VerticesPerLine {
		t.Errorf("expected %d vertices, got %d", len(cases)*lines.VerticesPerLine, b.Len())
	}
}

func TestDrawLineHorizontalCorners(t *testing.T) {
	b := lines.NewBatcher(gputest.NewRecorder(), assets.Embedded(), nil)
	b.DrawLine(0, 0, 10, 0, 2, graphics.White)
	vs := b.Vertices()

	// Normal of +x is +y
	want := []mgl32.Vec2{{0, 1}, {10, 1}, {0, -1}, {10, 1}, {10, -1}, {0, -1}}
	for i, w := range want {
		if !nearVec2(pos(vs[i]), w) {
			t.Errorf("vertex %d: got %v, want %v", i, pos(vs[i]), w)
		}
	}
}

func TestDrawLineDegenerate(t *testing.T) {
	b := lines.NewBatcher(gputest.NewRecorder(), assets.Embedded(), nil)
	b.DrawLine(5, 5, 5, 5, 3, graphics.White)
	b.DrawLine(1, 1, 1+1e-8, 1, 3, graphics.White)
	nan := float32(math.NaN())
	b.DrawLine(nan, 0, 1, 1, 3, graphics.White)
	inf := float32(math.Inf(1))
	b.DrawLine(0, 0, inf, 0, 3, graphics.White)

	if b.Len() != 0 {
		t.Fatalf("degenerate segments should append nothing, got %d vertices", b.Len())
	}
}

func TestFlushEmptyMakesNoBackendCalls(t *testing.T) {
	b, rec := newReady(t, 800, 600)
	before := rec.Calls

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush on empty batch: %v", err)
	}
	if rec.Calls != before {
		t.Errorf("expected no backend calls, got %d", rec.Calls-before)
	}
}

func TestEndToEnd(t *testing.T) {
	b, rec := newReady(t, 1280, 720)

	b.BeginFrame(nil)
	b.DrawLine(100, 100, 600, 150, 10, graphics.Red)
	b.DrawLine(100, 120, 600, 300, 10, graphics.Green)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	b.EndFrame()

	if len(rec.Uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(rec.Uploads))
	}
	if got := len(rec.Uploads[0]) / 6; got != 12 {
		t.Errorf("expected 12 vertices uploaded, got %d", got)
	}
	if len(rec.Draws) != 1 || rec.Draws[0].Count != 12 {
		t.Fatalf("expected one draw of 12 vertices, got %+v", rec.Draws)
	}
	if b.Len() != 0 {
		t.Errorf("batch should be empty after Flush, got %d", b.Len())
	}

	// Uploaded in submission order: first quad red, second green
	up := rec.Uploads[0]
	if up[2] != 1 || up[3] != 0 {
		t.Errorf("first vertex should be red, got %v", up[2:6])
	}
	if up[6*6+3] != 1 || up[6*6+2] != 0 {
		t.Errorf("seventh vertex should be green, got %v", up[36+2:36+6])
	}

	vp, ok := rec.Matrix("uViewProjection")
	if !ok {
		t.Fatalf("uViewProjection not set")
	}
	want := graphics.PixelSpace{Width: 1280, Height: 720}.ViewProjection()
	if !nearMat4(vp, want) {
		t.Errorf("unexpected pixel-space transform %v", vp)
	}
	if v := rec.Uniforms["uViewportSize"]; len(v) != 2 || v[0] != 1280 || v[1] != 720 {
		t.Errorf("unexpected viewport uniform %v", v)
	}
}

func TestFlushClearsOnBackendError(t *testing.T) {
	b, rec := newReady(t, 800, 600)
	rec.DrawError = gpu.InvalidOperation

	for i := 0; i < 5; i++ {
		b.DrawLine(0, float32(i), 100, float32(i)+50, 2, graphics.Blue)
	}
	err := b.Flush()
	var code gpu.Error
	if !errors.As(err, &code) || code != gpu.InvalidOperation {
		t.Fatalf("expected GL_INVALID_OPERATION, got %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("batch should be cleared after a failed draw, got %d", b.Len())
	}

	// Next frame draws only its own geometry
	rec.DrawError = 0
	b.DrawLine(0, 0, 1, 1, 1, graphics.Blue)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if last := rec.Draws[len(rec.Draws)-1]; last.Count != 6 {
		t.Errorf("expected 6 vertices in second draw, got %d", last.Count)
	}
}

func TestFlushWithoutInit(t *testing.T) {
	rec := gputest.NewRecorder()
	b := lines.NewBatcher(rec, assets.Embedded(), nil)
	b.DrawLine(0, 0, 10, 10, 1, graphics.White)

	if err := b.Flush(); !errors.Is(err, lines.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("batch should be cleared, got %d", b.Len())
	}
	if len(rec.Draws) != 0 || len(rec.Uploads) != 0 {
		t.Errorf("no GPU work expected before Init")
	}
}

func TestWorldSpaceTransform(t *testing.T) {
	b, rec := newReady(t, 800, 600)
	cam := graphics.NewCamera(800, 600)
	cam.SetPosition(mgl32.Vec2{1, 2})
	cam.SetZoom(0.5)

	b.BeginFrame(cam)
	b.DrawLine(-0.5, -0.5, 0.5, 0.5, 0.05, graphics.Red)

	// World coordinates pass through untouched
	vs := b.Vertices()
	checkQuad(t, vs, mgl32.Vec2{-0.5, -0.5}, mgl32.Vec2{0.5, 0.5}, 0.05)

	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}
	vp, _ := rec.Matrix("uViewProjection")
	if !nearMat4(vp, cam.ViewProjection()) {
		t.Errorf("expected camera view-projection, got %v", vp)
	}

	// Without BeginFrame the previous transform is reused
	b.DrawLine(0, 0, 1, 0, 1, graphics.Red)
	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}
	vp, _ = rec.Matrix("uViewProjection")
	if !nearMat4(vp, cam.ViewProjection()) {
		t.Errorf("transform should persist across frames")
	}
}

func TestResizeChangesPixelConversion(t *testing.T) {
	b, _ := newReady(t, 800, 600)
	b.BeginFrame(nil)

	before := b.PixelToNDC(200, 150)
	beforeVP := b.ViewProjection()
	if !nearVec2(before, mgl32.Vec2{-0.5, 0.5}) {
		t.Fatalf("unexpected NDC before resize: %v", before)
	}

	b.OnResize(400, 300)
	after := b.PixelToNDC(200, 150)
	if nearVec2(after, before) {
		t.Fatalf("resize should change the pixel mapping")
	}
	if !nearVec2(after, mgl32.Vec2{0, 0}) {
		t.Errorf("expected centre of 400x300 at NDC origin, got %v", after)
	}
	if nearMat4(b.ViewProjection(), beforeVP) {
		t.Errorf("captured pixel transform should follow the resize")
	}
	if w, h := b.Viewport(); w != 400 || h != 300 {
		t.Errorf("expected viewport 400x300, got %dx%d", w, h)
	}
}

func TestInitFailuresRollBack(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(*gputest.Recorder)
		source assets.Source
		want   error
	}{
		{"missing source", func(*gputest.Recorder) {}, assets.Map{}, assets.ErrMissingSource},
		{"empty source", func(*gputest.Recorder) {}, assets.Map{lines.VertexShader: "", lines.FragmentShader: "x"}, assets.ErrEmptySource},
		{"compile", func(r *gputest.Recorder) { r.FailCompile = true }, assets.Embedded(), gpu.ErrCompile},
		{"link", func(r *gputest.Recorder) { r.FailLink = true }, assets.Embedded(), gpu.ErrLink},
		{"vertex array", func(r *gputest.Recorder) { r.FailVertexArray = true }, assets.Embedded(), gpu.ErrAlloc},
		{"buffer", func(r *gputest.Recorder) { r.FailBuffer = true }, assets.Embedded(), gpu.ErrAlloc},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := gputest.NewRecorder()
			tc.setup(rec)
			b := lines.NewBatcher(rec, tc.source, nil)

			err := b.Init(800, 600)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if b.Ready() {
				t.Errorf("batcher should not be ready")
			}
			if rec.Live() != 0 {
				t.Errorf("failed Init leaked %d objects", rec.Live())
			}
		})
	}
}

func TestInitRetryAndReinit(t *testing.T) {
	rec := gputest.NewRecorder()
	rec.FailLink = true
	b := lines.NewBatcher(rec, assets.Embedded(), nil)
	if err := b.Init(800, 600); err == nil {
		t.Fatalf("expected link failure")
	}

	rec.FailLink = false
	if err := b.Init(800, 600); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if !b.Ready() || rec.Live() != 3 {
		t.Fatalf("expected program, vao and vbo live, got %d", rec.Live())
	}

	// Re-init replaces objects instead of leaking them
	if err := b.Init(1024, 768); err != nil {
		t.Fatal(err)
	}
	if rec.Live() != 3 {
		t.Errorf("re-init leaked objects: %d live", rec.Live())
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	b, rec := newReady(t, 800, 600)
	b.DrawLine(0, 0, 1, 1, 1, graphics.White)

	b.Shutdown()
	if rec.Live() != 0 {
		t.Fatalf("Shutdown left %d objects", rec.Live())
	}
	deleted := len(rec.Deleted)
	b.Shutdown()
	if len(rec.Deleted) != deleted {
		t.Errorf("second Shutdown deleted objects again")
	}
	if b.Len() != 0 || b.Ready() {
		t.Errorf("Shutdown should clear the batch and leave the batcher uninitialized")
	}

	// Shutdown without Init
	lines.NewBatcher(gputest.NewRecorder(), assets.Embedded(), nil).Shutdown()
}

func TestVertexLayout(t *testing.T) {
	_, rec := newReady(t, 800, 600)
	if len(rec.Layouts) != 1 {
		t.Fatalf("expected one layout, got %d", len(rec.Layouts))
	}
	for _, l := range rec.Layouts {
		if l.Stride != 24 || len(l.Attribs) != 2 {
			t.Fatalf("unexpected layout %+v", l)
		}
		if l.Attribs[0].Size != 2 || l.Attribs[1].Size != 4 || l.Attribs[1].Offset != 8 {
			t.Errorf("unexpected attributes %+v", l.Attribs)
		}
	}
}

func TestDrawRect(t *testing.T) {
	b := lines.NewBatcher(gputest.NewRecorder(), assets.Embedded(), nil)
	b.DrawRect(10, 20, 30, 4, graphics.White)
	b.DrawRect(0, 0, 0, 4, graphics.White)

	vs := b.Vertices()
	if len(vs) != 6 {
		t.Fatalf("expected one quad, got %d vertices", len(vs))
	}
	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := -minX, -minY
	for _, v := range vs {
		minX, maxX = min(minX, v.X), max(maxX, v.X)
		minY, maxY = min(minY, v.Y), max(maxY, v.Y)
	}
	if minX != 10 || maxX != 40 || minY != 20 || maxY != 24 {
		t.Errorf("unexpected rect bounds (%v,%v)-(%v,%v)", minX, minY, maxX, maxY)
	}
}
