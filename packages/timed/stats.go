package timed

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// latencies are recorded in microseconds, 1us to 60s, 3 significant digits
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
	sigFigs      = 3
)

// Stats aggregates the latency of timed calls.
type Stats struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
	total     int64
	errors    int64
}

// Summary is a point-in-time copy of Stats.
type Summary struct {
	Total  int64
	Errors int64
	Min    time.Duration
	Mean   time.Duration
	P50    time.Duration
	P90    time.Duration
	P99    time.Duration
	Max    time.Duration
}

func NewStats() *Stats {
	return &Stats{
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, sigFigs),
	}
}

// Record adds one call. Durations outside the histogram range are clamped.
func (s *Stats) Record(d time.Duration, err error) {
	latencyUs := d.Microseconds()
	if latencyUs < minLatencyUs {
		latencyUs = minLatencyUs
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if err != nil {
		s.errors++
	}
	_ = s.histogram.RecordValue(latencyUs)
}

func (s *Stats) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.total == 0 {
		return Summary{}
	}
	return Summary{
		Total:  s.total,
		Errors: s.errors,
		Min:    us(s.histogram.Min()),
		Mean:   time.Duration(s.histogram.Mean() * float64(time.Microsecond)),
		P50:    us(s.histogram.ValueAtQuantile(50)),
		P90:    us(s.histogram.ValueAtQuantile(90)),
		P99:    us(s.histogram.ValueAtQuantile(99)),
		Max:    us(s.histogram.Max()),
	}
}

func us(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
