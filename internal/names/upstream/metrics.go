package upstream

import (
	"sync"
	"sync/atomic"
	"time"
)

// counters tracks calls made to one upstream service
type counters struct {
	calls   int64
	errors  int64
	latency int64 // total latency in nanoseconds
}

// Metrics is a point-in-time copy of the counters for one service
type Metrics struct {
	Service string
	Calls   int64
	Errors  int64
	Latency time.Duration
}

var registry sync.Map // service name -> *counters

func countersFor(service string) *counters {
	if c, ok := registry.Load(service); ok {
		return c.(*counters)
	}
	c, _ := registry.LoadOrStore(service, &counters{})
	return c.(*counters)
}

// recordCall records one upstream call. A non-nil err counts as a failure.
func recordCall(service string, duration time.Duration, err error) {
	c := countersFor(service)
	atomic.AddInt64(&c.calls, 1)
	atomic.AddInt64(&c.latency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&c.errors, 1)
	}
}

// Snapshot returns the current counters for every service that has been called.
func Snapshot() []Metrics {
	var out []Metrics
	registry.Range(func(key, value any) bool {
		c := value.(*counters)
		out = append(out, Metrics{
			Service: key.(string),
			Calls:   atomic.LoadInt64(&c.calls),
			Errors:  atomic.LoadInt64(&c.errors),
			Latency: time.Duration(atomic.LoadInt64(&c.latency)),
		})
		return true
	})
	return out
}

// SnapshotFor returns the counters of a single service.
func SnapshotFor(service string) Metrics {
	c := countersFor(service)
	return Metrics{
		Service: service,
		Calls:   atomic.LoadInt64(&c.calls),
		Errors:  atomic.LoadInt64(&c.errors),
		Latency: time.Duration(atomic.LoadInt64(&c.latency)),
	}
}

// ResetMetrics clears all counters (useful for testing)
func ResetMetrics() {
	registry.Range(func(key, _ any) bool {
		registry.Delete(key)
		return true
	})
}

// AverageLatency returns the average latency in milliseconds
func (m Metrics) AverageLatency() float64 {
	if m.Calls == 0 {
		return 0
	}
	return float64(m.Latency.Nanoseconds()) / float64(m.Calls) / 1e6
}

// ErrorRate returns the error rate as a percentage
func (m Metrics) ErrorRate() float64 {
	if m.Calls == 0 {
		return 0
	}
	return float64(m.Errors) / float64(m.Calls) * 100
}
