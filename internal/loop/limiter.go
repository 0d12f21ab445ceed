package loop

import (
	"easyline/internal/config"
	"time"
)

const spinWindow = 200 * time.Microsecond

// Limiter caps the frame rate. It sleeps for most of the remaining frame
// time and spins for the last spinWindow.
type Limiter struct {
	next time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func NewLimiter() *Limiter {
	return &Limiter{now: time.Now, sleep: time.Sleep}
}

// Wait blocks until the next frame is due under the runtime FPS limit
func (l *Limiter) Wait() {
	l.WaitFor(config.GetFPSLimit())
}

// WaitFor blocks until the next frame is due at fps frames per second.
// fps <= 0 disables the limit and clears the schedule.
func (l *Limiter) WaitFor(fps int) {
	if fps <= 0 {
		l.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(fps)
	if l.next.IsZero() {
		l.next = l.now().Add(target)
	} else {
		l.next = l.next.Add(target)
	}

	for {
		remaining := l.next.Sub(l.now())
		if remaining <= 0 {
			break
		}
		if remaining > spinWindow {
			l.sleep(remaining - spinWindow)
		}
	}

	// resync after a hitch instead of rushing to catch up
	if late := l.now().Sub(l.next); late > target {
		l.next = l.now()
	}
}

// DeltaTimer measures the time between frames
type DeltaTimer struct {
	last time.Time
	now  func() time.Time
}

func NewDeltaTimer() *DeltaTimer {
	return &DeltaTimer{now: time.Now}
}

// Tick returns the seconds since the previous Tick, 0 on the first call
func (d *DeltaTimer) Tick() float64 {
	now := d.now()
	if d.last.IsZero() {
		d.last = now
		return 0
	}
	dt := now.Sub(d.last).Seconds()
	d.last = now
	return dt
}
