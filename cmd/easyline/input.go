package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupInputHandlers(window *glfw.Window, app *App) {
	app.Input.Install(window)

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		app.Renderer.UpdateViewport(width, height)
	})
}

// cursorPixels returns the cursor in framebuffer pixels, which differ from
// window coordinates on high-density displays
func cursorPixels(window *glfw.Window, x, y float64) (float64, float64) {
	winW, winH := window.GetSize()
	fbW, fbH := window.GetFramebufferSize()
	if winW <= 0 || winH <= 0 {
		return x, y
	}
	return x * float64(fbW) / float64(winW), y * float64(fbH) / float64(winH)
}
