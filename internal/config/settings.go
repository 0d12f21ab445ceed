package config

import "sync"

// RuntimeSettings holds values that change while the application runs
type RuntimeSettings struct {
	mu            sync.RWMutex
	fpsLimit      int // 0 = unlimited
	showOverlay   bool
	showGrid      bool
	showCrosshair bool
}

var globalSettings = &RuntimeSettings{
	showOverlay: true,
	showGrid:    true,
}

// Apply seeds the runtime settings from a loaded configuration
func Apply(cfg *Config) {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()
	globalSettings.fpsLimit = clampFPS(cfg.Window.FPSLimit)
	globalSettings.showOverlay = cfg.Overlay.Enabled
	globalSettings.showGrid = cfg.Grid.Enabled
	globalSettings.showCrosshair = cfg.Crosshair.Enabled
}

func clampFPS(limit int) int {
	if limit <= 0 {
		return 0
	}
	if limit < 10 {
		return 10
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

// GetFPSLimit returns the frame rate cap, 0 when unlimited
func GetFPSLimit() int {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	return globalSettings.fpsLimit
}

// SetFPSLimit sets the frame rate cap, clamped to [10, 1000]. Values <= 0
// remove the cap.
func SetFPSLimit(limit int) {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()
	globalSettings.fpsLimit = clampFPS(limit)
}

func ShowOverlay() bool {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	return globalSettings.showOverlay
}

func ShowGrid() bool {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	return globalSettings.showGrid
}

func ShowCrosshair() bool {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	return globalSettings.showCrosshair
}

// ToggleOverlay flips overlay visibility and returns the new state
func ToggleOverlay() bool {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()
	globalSettings.showOverlay = !globalSettings.showOverlay
	return globalSettings.showOverlay
}

func ToggleGrid() bool {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()
	globalSettings.showGrid = !globalSettings.showGrid
	return globalSettings.showGrid
}

func ToggleCrosshair() bool {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()
	globalSettings.showCrosshair = !globalSettings.showCrosshair
	return globalSettings.showCrosshair
}
