package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Lightweight per-frame CPU profiler.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	lastFrame   = make(map[string]time.Duration)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// ResetFrame closes the current frame: its totals become the ones
// reported by LastFrame and TopN. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	lastFrame, frameTotals = frameTotals, lastFrame
	for k := range frameTotals {
		delete(frameTotals, k)
	}
	mu.Unlock()
}

// Snapshot returns a copy of the totals recorded so far in the current frame.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	return copyTotals(frameTotals)
}

// LastFrame returns a copy of the totals of the previous frame.
func LastFrame() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	return copyTotals(lastFrame)
}

func copyTotals(m map[string]time.Duration) map[string]time.Duration {
	out := make(map[string]time.Duration, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SumWithPrefix adds up the previous frame's totals whose name starts with prefix.
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var sum time.Duration
	for k, v := range lastFrame {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the top N durations of the previous frame.
// Example: "lines.Flush:0.4ms, overlay.Render:0.2ms"
func TopN(n int) string {
	ss := LastFrame()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+FormatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

// FormatMs formats d in milliseconds with one decimal, dropping ".0".
func FormatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}
