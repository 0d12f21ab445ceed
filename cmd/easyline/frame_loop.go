package main

import (
	"time"

	"easyline/internal/config"
	renderer "easyline/internal/graphics/renderer"
	"easyline/internal/input"
	"easyline/internal/logging"
	"easyline/internal/loop"
	"easyline/internal/profiling"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// FrameLoop runs poll, navigate, render, present until the window closes
type FrameLoop struct {
	window *glfw.Window
	app    *App
	logs   *logging.Loggers

	limiter *loop.Limiter
	delta   *loop.DeltaTimer
	fps     *profiling.FPSCounter
}

func NewFrameLoop(window *glfw.Window, app *App, logs *logging.Loggers) *FrameLoop {
	return &FrameLoop{
		window:  window,
		app:     app,
		logs:    logs,
		limiter: loop.NewLimiter(),
		delta:   loop.NewDeltaTimer(),
		fps:     profiling.NewFPSCounter(),
	}
}

func (f *FrameLoop) Run() {
	for !f.window.ShouldClose() {
		f.tick()
	}
}

func (f *FrameLoop) tick() {
	profiling.ResetFrame()
	dt := f.delta.Tick()

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	f.handleActions()
	x, y := f.window.GetCursorPos()
	cx, cy := cursorPixels(f.window, x, y)
	f.navigate(cx, cy)

	stats := renderer.Stats{
		FPS:         f.fps.FPS(),
		Cursor:      mgl32.Vec2{float32(cx), float32(cy)},
		CursorWorld: f.app.Navigation.CursorWorld(cx, cy),
		Lines:       f.app.SceneView.Scene().Len(),
	}
	f.app.Renderer.Render(dt, stats)

	func() { defer profiling.Track("glfw.SwapBuffers")(); f.window.SwapBuffers() }()

	if f.fps.Frame(time.Now()) {
		f.logs.App.Debug("frame rate", "fps", f.fps.FPS(), "top", profiling.TopN(3))
	}
	f.app.Input.PostUpdate()
	f.limiter.Wait()
}

func (f *FrameLoop) navigate(cx, cy float64) {
	im := f.app.Input
	nav := f.app.Navigation

	// drags that start on the overlay panel do not pan
	if im.JustPressed(input.ActionPan) && !f.app.Overlay.Contains(cx, cy) {
		nav.Press(cx, cy)
	}
	if !im.IsActive(input.ActionPan) {
		nav.Release()
	}
	nav.Move(cx, cy)

	if scroll := im.ConsumeScroll(); scroll != 0 {
		nav.Scroll(scroll)
	}
}

func (f *FrameLoop) handleActions() {
	im := f.app.Input
	log := f.logs.App

	if im.JustPressed(input.ActionQuit) {
		f.window.SetShouldClose(true)
	}
	if im.JustPressed(input.ActionResetView) {
		f.app.Navigation.Reset()
		log.Info("view reset")
	}
	if im.JustPressed(input.ActionToggleOverlay) {
		log.Info("overlay toggled", "visible", config.ToggleOverlay())
	}
	if im.JustPressed(input.ActionToggleGrid) {
		log.Info("grid toggled", "visible", config.ToggleGrid())
	}
	if im.JustPressed(input.ActionToggleCrosshair) {
		log.Info("crosshair toggled", "visible", config.ToggleCrosshair())
	}
	if im.JustPressed(input.ActionReloadScene) {
		s, err := loadScene(f.app.Config.Scene, f.logs)
		if err != nil {
			log.Error("scene reload failed", "error", err)
			return
		}
		f.app.SceneView.SetScene(s)
		log.Info("scene reloaded", "lines", s.Len())
	}
}
