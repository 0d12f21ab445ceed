package scene_test

import (
	"easyline/internal/config"
	"easyline/internal/graphics"
	"easyline/internal/scene"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recorder struct {
	lines []scene.Line
}

func (r *recorder) DrawLine(x0, y0, x1, y1, thickness float32, c graphics.Color) {
	r.lines = append(r.lines, scene.Line{X0: x0, Y0: y0, X1: x1, Y1: y1, Thickness: thickness, Color: c})
}

func TestDefaultScene(t *testing.T) {
	s := scene.Default()
	if s.Len() != 2 || len(s.Screen) != 0 {
		t.Fatalf("expected two world lines, got %+v", s)
	}

	var r recorder
	s.Draw(&r)
	want := []scene.Line{
		{X0: -0.5, Y0: -0.5, X1: 0.5, Y1: 0.5, Thickness: 0.05, Color: graphics.Red},
		{X0: -0.5, Y0: 0.5, X1: 0.5, Y1: -0.5, Thickness: 0.05, Color: graphics.Green},
	}
	for i := range want {
		if r.lines[i] != want[i] {
			t.Errorf("line %d: got %+v, want %+v", i, r.lines[i], want[i])
		}
	}

	r.lines = nil
	s.DrawScreen(&r)
	if len(r.lines) != 0 {
		t.Errorf("default scene has no screen lines")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Scene{
		World:  []config.Line{{X0: 1, Y0: 2, X1: 3, Y1: 4, Thickness: 0.1, Color: graphics.Blue}},
		Screen: []config.Line{{X0: 0, Y0: 0, X1: 10, Y1: 0, Thickness: 2, Color: graphics.White}},
	}
	s := scene.FromConfig(cfg)
	if s.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", s.Len())
	}
	if s.World[0].X1 != 3 || s.World[0].Color != graphics.Blue {
		t.Errorf("world line mismatch: %+v", s.World[0])
	}
	if s.Screen[0].Thickness != 2 {
		t.Errorf("screen line mismatch: %+v", s.Screen[0])
	}

	if got := scene.FromConfig(config.Scene{}); got.Len() != 2 {
		t.Errorf("empty config should fall back to the demo scene")
	}
}

func TestExecScript(t *testing.T) {
	src := `
line(-1, 0, 1, 0)
line(0, -1, 0, 1, thickness=0.2, color="#00ff00")
for i in range(3):
    screen_line(10, 10 + i * 5, 100, 10 + i * 5, color=(1, 0, 0))
screen_line(0, 0, 5, 5, 3, [0, 0, 1, 0.5])
`
	s, err := scene.ExecScript("test.star", []byte(src), nil)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if len(s.World) != 2 || len(s.Screen) != 4 {
		t.Fatalf("expected 2 world and 4 screen lines, got %d and %d", len(s.World), len(s.Screen))
	}

	if s.World[0].Thickness != 0.05 || s.World[0].Color != graphics.White {
		t.Errorf("defaults not applied: %+v", s.World[0])
	}
	if s.World[1].Thickness != 0.2 || s.World[1].Color != graphics.Green {
		t.Errorf("keyword args not applied: %+v", s.World[1])
	}
	if s.Screen[0].Thickness != 1 || s.Screen[0].Color != graphics.Red {
		t.Errorf("screen defaults not applied: %+v", s.Screen[0])
	}
	if s.Screen[2].Y0 != 20 {
		t.Errorf("loop values not applied: %+v", s.Screen[2])
	}
	if last := s.Screen[3]; last.Thickness != 3 || last.Color != graphics.RGBA(0, 0, 1, 0.5) {
		t.Errorf("positional args not applied: %+v", last)
	}
}

func TestExecScriptErrors(t *testing.T) {
	cases := map[string]string{
		"syntax":         "line(",
		"missing args":   "line(0, 0)",
		"bad number":     `line("a", 0, 1, 1)`,
		"bad color":      "line(0, 0, 1, 1, color=(1, 2))",
		"bad hex":        `line(0, 0, 1, 1, color="#nothex")`,
		"bad color type": "line(0, 0, 1, 1, color=3)",
		"unknown name":   "circle(0, 0, 1)",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := scene.ExecScript("bad.star", []byte(src), nil); err == nil {
				t.Errorf("expected error for %q", src)
			}
		})
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.star")
	if err := os.WriteFile(path, []byte("line(0, 0, 1, 1)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := scene.LoadScript(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 line, got %d", s.Len())
	}

	_, err = scene.LoadScript(filepath.Join(t.TempDir(), "missing.star"), nil)
	if err == nil || !strings.Contains(err.Error(), "read scene script") {
		t.Errorf("expected read error, got %v", err)
	}
}
