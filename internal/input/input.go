package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical viewer command, independent of the physical key
type Action int

const (
	ActionPan Action = iota
	ActionResetView
	ActionToggleOverlay
	ActionToggleGrid
	ActionToggleCrosshair
	ActionReloadScene
	ActionQuit
	ActionCount
)

var actionNames = [ActionCount]string{
	ActionPan:             "pan",
	ActionResetView:       "reset_view",
	ActionToggleOverlay:   "toggle_overlay",
	ActionToggleGrid:      "toggle_grid",
	ActionToggleCrosshair: "toggle_crosshair",
	ActionReloadScene:     "reload_scene",
	ActionQuit:            "quit",
}

func (a Action) String() string {
	if a < 0 || a >= ActionCount {
		return "unknown"
	}
	return actionNames[a]
}

// Manager maps keys and mouse buttons to actions, tracks per-frame edges
// and accumulates scroll and cursor movement between frames
type Manager struct {
	mu sync.RWMutex

	keyToActions         map[glfw.Key][]Action
	mouseButtonToActions map[glfw.MouseButton][]Action

	current      [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	scrollY          float64
	cursorX, cursorY float64
}

// NewManager creates a Manager with the default bindings
func NewManager() *Manager {
	m := &Manager{
		keyToActions:         make(map[glfw.Key][]Action),
		mouseButtonToActions: make(map[glfw.MouseButton][]Action),
	}

	m.BindMouseButton(glfw.MouseButtonLeft, ActionPan)
	m.BindKey(glfw.KeyR, ActionResetView)
	m.BindKey(glfw.KeyF1, ActionToggleOverlay)
	m.BindKey(glfw.KeyG, ActionToggleGrid)
	m.BindKey(glfw.KeyC, ActionToggleCrosshair)
	m.BindKey(glfw.KeyF5, ActionReloadScene)
	m.BindKey(glfw.KeyEscape, ActionQuit)

	return m
}

// BindKey adds an action to a key. A key may carry several actions.
func (m *Manager) BindKey(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

func (m *Manager) UnbindKey(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keyToActions, key)
}

func (m *Manager) BindMouseButton(button glfw.MouseButton, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mouseButtonToActions[button] = append(m.mouseButtonToActions[button], action)
}

// HandleKeyEvent updates state from a GLFW key event
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.keyToActions[key], action == glfw.Press || action == glfw.Repeat)
}

// HandleMouseButtonEvent updates state from a GLFW mouse button event
func (m *Manager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.mouseButtonToActions[button], action == glfw.Press)
}

// apply records edges as events arrive so a press and release within one
// frame is still seen. Caller holds the lock.
func (m *Manager) apply(actions []Action, pressed bool) {
	for _, a := range actions {
		if pressed && !m.current[a] {
			m.justPressed[a] = true
		}
		if !pressed && m.current[a] {
			m.justReleased[a] = true
		}
		m.current[a] = pressed
	}
}

// HandleScroll accumulates vertical scroll until ConsumeScroll
func (m *Manager) HandleScroll(yoff float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrollY += yoff
}

// ConsumeScroll returns and clears the accumulated scroll
func (m *Manager) ConsumeScroll() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	y := m.scrollY
	m.scrollY = 0
	return y
}

func (m *Manager) HandleCursor(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursorX, m.cursorY = x, y
}

// Cursor returns the last cursor position in window pixels
func (m *Manager) Cursor() (x, y float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cursorX, m.cursorY
}

// Install registers the manager's callbacks on a window
func (m *Manager) Install(window *glfw.Window) {
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		m.HandleKeyEvent(key, action)
	})
	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		m.HandleMouseButtonEvent(button, action)
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		m.HandleScroll(yoff)
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		m.HandleCursor(x, y)
	})
}

// PostUpdate clears the edge flags; call it once at the end of each frame
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.justPressed = [ActionCount]bool{}
	m.justReleased = [ActionCount]bool{}
}

// IsActive reports whether the action is held
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current[action]
}

// JustPressed reports whether the action was pressed during this frame
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[action]
}

func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justReleased[action]
}
