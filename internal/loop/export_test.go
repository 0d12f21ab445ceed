package loop

import "time"

// NewLimiterWithClock builds a Limiter on a fake clock
func NewLimiterWithClock(now func() time.Time, sleep func(time.Duration)) *Limiter {
	return &Limiter{now: now, sleep: sleep}
}

func NewDeltaTimerWithClock(now func() time.Time) *DeltaTimer {
	return &DeltaTimer{now: now}
}
