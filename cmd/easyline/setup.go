package main

import (
	"easyline/internal/assets"
	"easyline/internal/config"
	"easyline/internal/graphics"
	"easyline/internal/graphics/gpu"
	"easyline/internal/graphics/renderables/crosshair"
	"easyline/internal/graphics/renderables/grid"
	"easyline/internal/graphics/renderables/lines"
	"easyline/internal/graphics/renderables/overlay"
	"easyline/internal/graphics/renderables/sceneview"
	renderer "easyline/internal/graphics/renderer"
	"easyline/internal/input"
	"easyline/internal/logging"
	"easyline/internal/navigation"
	"easyline/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

func setupWindow(cfg config.Window) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, errors.Wrap(err, "init gl")
	}

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}

// App holds the initialized viewer components
type App struct {
	Config     *config.Config
	Renderer   *renderer.Renderer
	Camera     *graphics.Camera
	Navigation *navigation.Controller
	SceneView  *sceneview.SceneView
	Overlay    *overlay.Overlay
	Input      *input.Manager
}

func setupApp(window *glfw.Window, cfg *config.Config, logs *logging.Loggers) (*App, error) {
	fbW, fbH := window.GetFramebufferSize()
	camera := graphics.NewCamera(float32(fbW), float32(fbH))

	shaders, err := assets.NewShaderSource(cfg.Render.ShaderDirs...)
	if err != nil {
		return nil, err
	}
	backend := gpu.NewGL()
	newBatcher := func() *lines.Batcher {
		return lines.NewBatcher(backend, shaders, logs.Core,
			lines.WithShaders(cfg.Render.VertexShader, cfg.Render.FragmentShader))
	}

	s, err := loadScene(cfg.Scene, logs)
	if err != nil {
		return nil, err
	}

	gridRenderer := grid.New(newBatcher(), cfg.Grid)
	sceneRenderer := sceneview.New(newBatcher(), s)
	crosshairRenderer := crosshair.NewCrosshair(newBatcher(), cfg.Crosshair)
	overlayRenderer := overlay.New(newBatcher(), cfg.Overlay, cfg.Window.Title)

	r, err := renderer.NewRenderer(backend, camera, cfg.Render.ClearColor,
		gridRenderer,
		sceneRenderer,
		crosshairRenderer,
		overlayRenderer,
	)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		Renderer:   r,
		Camera:     camera,
		Navigation: navigation.NewController(camera, cfg.Camera),
		SceneView:  sceneRenderer,
		Overlay:    overlayRenderer,
		Input:      input.NewManager(),
	}, nil
}

// loadScene prefers the script when one is configured
func loadScene(cfg config.Scene, logs *logging.Loggers) (*scene.Scene, error) {
	if cfg.Script != "" {
		s, err := scene.LoadScript(cfg.Script, logs.App)
		if err != nil {
			return nil, err
		}
		logs.App.Info("scene script loaded", "script", cfg.Script, "lines", s.Len())
		return s, nil
	}
	return scene.FromConfig(cfg), nil
}
