package scheduler

import (
	"time"
)

// MinInterval is the shortest interval Every accepts.
const MinInterval = time.Second

// IntervalSchedule fires every Interval after the previous run.
type IntervalSchedule struct {
	Interval time.Duration
}

// Every returns an IntervalSchedule; intervals below MinInterval are raised
// to it.
func Every(interval time.Duration) IntervalSchedule {
	if interval < MinInterval {
		interval = MinInterval
	}
	return IntervalSchedule{Interval: interval}
}

// Next returns the next scheduled time.
func (s IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

func (s IntervalSchedule) String() string {
	return "@every " + s.Interval.String()
}
