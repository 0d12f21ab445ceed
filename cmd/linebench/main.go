// Command linebench measures line batching throughput: it draws a fixed
// number of random segments every frame with vsync off and reports the
// frame rate once per second.
package main

import (
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"easyline/internal/assets"
	"easyline/internal/graphics"
	"easyline/internal/graphics/gpu"
	"easyline/internal/graphics/renderables/lines"
	"easyline/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

const (
	windowWidth  = 800
	windowHeight = 600
)

func init() {
	runtime.LockOSThread()
}

// segment is a pre-generated line in world units
type segment struct {
	x0, y0, x1, y1, thickness float32
	color                     graphics.Color
}

func main() {
	count := flag.Int("lines", 10000, "segments drawn per frame")
	seconds := flag.Int("seconds", 0, "stop after this many seconds, 0 runs until Esc")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("logger", "LINEBENCH")
	if err := run(*count, time.Duration(*seconds)*time.Second, logger); err != nil {
		logger.Error("linebench failed", "error", err)
		os.Exit(1)
	}
}

func run(count int, limit time.Duration, logger *slog.Logger) error {
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "init glfw")
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "EasyLine - line throughput", nil, nil)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	// vsync off for raw frame rate
	glfw.SwapInterval(0)

	if err := gl.Init(); err != nil {
		return errors.Wrap(err, "init gl")
	}

	backend := gpu.NewGL()
	backend.EnableBlending()
	fbW, fbH := window.GetFramebufferSize()
	backend.Viewport(int32(fbW), int32(fbH))

	camera := graphics.NewCamera(float32(fbW), float32(fbH))
	batcher := lines.NewBatcher(backend, assets.Embedded(), logger)
	if err := batcher.Init(fbW, fbH); err != nil {
		return err
	}
	defer batcher.Shutdown()

	segments := randomSegments(count, camera.AspectRatio())
	fps := profiling.NewFPSCounter()
	start := time.Now()

	for !window.ShouldClose() {
		if window.GetKey(glfw.KeyEscape) == glfw.Press || (limit > 0 && time.Since(start) >= limit) {
			window.SetShouldClose(true)
		}
		profiling.ResetFrame()

		backend.Clear(0, 0, 0, 1)
		batcher.BeginFrame(camera)
		for _, s := range segments {
			batcher.DrawLine(s.x0, s.y0, s.x1, s.y1, s.thickness, s.color)
		}
		if err := batcher.Flush(); err != nil {
			return err
		}
		batcher.EndFrame()

		window.SwapBuffers()
		glfw.PollEvents()

		if fps.Frame(time.Now()) {
			logger.Info("throughput",
				"fps", int(fps.FPS()+0.5),
				"lines", count,
				"flush", profiling.FormatMs(profiling.LastFrame()["lines.Flush"]),
			)
		}
	}
	return nil
}

// randomSegments fills the visible area at zoom 1; the seed is fixed so
// runs are comparable
func randomSegments(n int, aspect float32) []segment {
	rng := rand.New(rand.NewPCG(1, 2))
	coord := func(extent float32) float32 { return (rng.Float32()*2 - 1) * extent }

	out := make([]segment, n)
	for i := range out {
		out[i] = segment{
			x0:        coord(aspect),
			y0:        coord(1),
			x1:        coord(aspect),
			y1:        coord(1),
			thickness: 0.002 + rng.Float32()*0.01,
			color:     graphics.RGBA(rng.Float32(), rng.Float32(), rng.Float32(), 0.8),
		}
	}
	return out
}
