package timed

import (
	"errors"
	"fmt"
	"time"
)

// ErrClockWentBackwards is returned when a Stopwatch observes an end instant
// earlier than its start.
var ErrClockWentBackwards = errors.New("clock went backwards")

// Clock reports the current instant. Tests inject a controllable one.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now, which carries a monotonic reading.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// Stopwatch measures the time between Start and Elapsed on a Clock.
type Stopwatch struct {
	clock Clock
	start time.Time
}

// Start samples the clock and returns the running stopwatch.
func Start(clock Clock) *Stopwatch {
	return &Stopwatch{clock: clock, start: clock.Now()}
}

// Elapsed samples the clock again. It never returns a negative duration.
func (s *Stopwatch) Elapsed() (time.Duration, error) {
	now := s.clock.Now()
	d := now.Sub(s.start)
	if d < 0 {
		return 0, fmt.Errorf("%w: started at %s, stopped at %s", ErrClockWentBackwards, s.start.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	}
	return d, nil
}
