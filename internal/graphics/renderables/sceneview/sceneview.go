package sceneview

import (
	"easyline/internal/graphics/renderables/lines"
	renderer "easyline/internal/graphics/renderer"
	"easyline/internal/profiling"
	"easyline/internal/scene"
	"sync"
)

// SceneView draws a scene: world lines through the camera, then screen
// lines in pixel space
type SceneView struct {
	batcher *lines.Batcher

	mu    sync.Mutex
	scene *scene.Scene
}

func New(batcher *lines.Batcher, s *scene.Scene) *SceneView {
	if s == nil {
		s = &scene.Scene{}
	}
	return &SceneView{batcher: batcher, scene: s}
}

func (v *SceneView) Init(width, height int) error {
	return v.batcher.Init(width, height)
}

// SetScene replaces the scene drawn from the next frame on
func (v *SceneView) SetScene(s *scene.Scene) {
	if s == nil {
		s = &scene.Scene{}
	}
	v.mu.Lock()
	v.scene = s
	v.mu.Unlock()
}

func (v *SceneView) Scene() *scene.Scene {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scene
}

func (v *SceneView) Render(ctx renderer.RenderContext) {
	defer profiling.Track("renderer.sceneview")()
	s := v.Scene()

	if ctx.Camera != nil && len(s.World) > 0 {
		v.batcher.BeginFrame(ctx.Camera)
		s.Draw(v.batcher)
		_ = v.batcher.Flush()
		v.batcher.EndFrame()
	}

	if len(s.Screen) > 0 {
		v.batcher.BeginFrame(nil)
		s.DrawScreen(v.batcher)
		_ = v.batcher.Flush()
		v.batcher.EndFrame()
	}
}

func (v *SceneView) SetViewport(width, height int) {
	v.batcher.OnResize(width, height)
}

func (v *SceneView) Dispose() {
	v.batcher.Shutdown()
}
