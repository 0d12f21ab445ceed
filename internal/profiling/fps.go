package profiling

import "time"

// FPSCounter averages the frame rate over fixed windows
type FPSCounter struct {
	Window time.Duration

	frames int
	start  time.Time
	fps    float64
}

// NewFPSCounter returns a counter averaging over one second
func NewFPSCounter() *FPSCounter {
	return &FPSCounter{Window: time.Second}
}

// Frame records one presented frame at now. It returns true when a window
// closed and FPS changed.
func (f *FPSCounter) Frame(now time.Time) bool {
	if f.start.IsZero() {
		f.start = now
	}
	f.frames++
	elapsed := now.Sub(f.start)
	if elapsed < f.Window {
		return false
	}
	f.fps = float64(f.frames) / elapsed.Seconds()
	f.frames = 0
	f.start = now
	return true
}

// FPS returns the rate measured over the last closed window
func (f *FPSCounter) FPS() float64 {
	return f.fps
}
