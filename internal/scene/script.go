package scene

import (
	"easyline/internal/graphics"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Scene scripts may loop and reassign at top level
var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

const (
	defaultWorldThickness  = 0.05
	defaultScreenThickness = 1
)

// LoadScript reads and executes a scene script from disk
func LoadScript(path string, logger *slog.Logger) (*Scene, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scene script")
	}
	return ExecScript(path, src, logger)
}

// ExecScript executes a Starlark scene script. The script calls line(...)
// for world lines and screen_line(...) for pixel-space lines.
//
//	line(-1, 0, 1, 0, thickness=0.02, color="#ff8800")
//	screen_line(10, 10, 200, 10, color=(1, 1, 1, 0.5))
func ExecScript(name string, src []byte, logger *slog.Logger) (*Scene, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Scene{}

	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			logger.Info(msg, "script", name)
		},
	}
	globals := starlark.StringDict{
		"line":        starlark.NewBuiltin("line", lineBuiltin(&s.World, defaultWorldThickness)),
		"screen_line": starlark.NewBuiltin("screen_line", lineBuiltin(&s.Screen, defaultScreenThickness)),
	}

	if _, err := starlark.ExecFileOptions(fileOptions, thread, name, src, globals); err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			return nil, errors.Errorf("scene script: %s", evalErr.Backtrace())
		}
		return nil, errors.Wrap(err, "scene script")
	}
	logger.Debug("Scene script loaded", "script", name, "world", len(s.World), "screen", len(s.Screen))
	return s, nil
}

type builtinFunc func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

func lineBuiltin(dst *[]Line, defaultThickness float64) builtinFunc {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var x0, y0, x1, y1 starlark.Value
		var thickness starlark.Value = starlark.Float(defaultThickness)
		var col starlark.Value = starlark.None
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
			"x0", &x0, "y0", &y0, "x1", &x1, "y1", &y1,
			"thickness?", &thickness, "color?", &col,
		); err != nil {
			return nil, err
		}

		var coords [5]float32
		for i, v := range []starlark.Value{x0, y0, x1, y1, thickness} {
			f, ok := starlark.AsFloat(v)
			if !ok {
				return nil, errors.Errorf("%s: expected a number, got %s", fn.Name(), v.Type())
			}
			coords[i] = float32(f)
		}
		c, err := extractColor(col)
		if err != nil {
			return nil, errors.Wrap(err, fn.Name())
		}

		*dst = append(*dst, Line{
			X0: coords[0], Y0: coords[1], X1: coords[2], Y1: coords[3],
			Thickness: coords[4],
			Color:     c,
		})
		return starlark.None, nil
	}
}

// extractColor accepts None (white), a hex string or a sequence of 3-4 numbers
func extractColor(v starlark.Value) (graphics.Color, error) {
	if v == nil || v == starlark.None {
		return graphics.White, nil
	}
	if s, ok := starlark.AsString(v); ok {
		return graphics.ParseHex(s)
	}
	seq, ok := v.(starlark.Indexable)
	if !ok {
		return graphics.Color{}, errors.Errorf("color must be a tuple, list or hex string, got %s", v.Type())
	}
	comps := make([]float32, seq.Len())
	for i := range comps {
		f, ok := starlark.AsFloat(seq.Index(i))
		if !ok {
			return graphics.Color{}, errors.Errorf("color component %d is not a number", i)
		}
		comps[i] = float32(f)
	}
	return graphics.FromComponents(comps)
}
