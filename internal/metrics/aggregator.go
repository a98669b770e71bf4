package metrics

import (
	"slices"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// AggregateResult is a point-in-time copy of everything a run recorded.
type AggregateResult struct {
	Latencies   []time.Duration // in recording order
	Successes   int64
	Completed   int64
	Creations   int64
	Failures    int64
	Errors      int64
	StatusCodes map[int]int64
	ErrorTypes  map[string]int64
}

// Total is the number of recorded attempts of any kind.
func (r AggregateResult) Total() int64 {
	return r.Successes + r.Completed + r.Creations + r.Failures + r.Errors
}

// Aggregator accumulates outcomes from concurrent workers.
type Aggregator struct {
	mu          sync.Mutex
	latencies   []time.Duration
	hist        *hdrhistogram.Histogram
	successes   int64
	completed   int64
	creations   int64
	failures    int64
	errors      int64
	statusCodes map[int]int64
	errorTypes  map[string]int64
}

func NewAggregator() *Aggregator {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	return &Aggregator{
		hist:        hdrhistogram.New(1, 60_000_000, 3),
		statusCodes: make(map[int]int64),
		errorTypes:  make(map[string]int64),
	}
}

// Record folds a single outcome into the aggregate.
func (a *Aggregator) Record(o Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if o.StatusCode > 0 {
		a.statusCodes[o.StatusCode]++
	}

	switch o.Kind {
	case OutcomeSuccess:
		a.successes++
		a.latencies = append(a.latencies, o.Latency)
		us := o.Latency.Microseconds()
		if us < a.hist.LowestTrackableValue() {
			us = a.hist.LowestTrackableValue()
		}
		if us > a.hist.HighestTrackableValue() {
			us = a.hist.HighestTrackableValue()
		}
		_ = a.hist.RecordValue(us)
	case OutcomeCompleted:
		a.completed++
	case OutcomeCreation:
		a.creations++
	case OutcomeFailure:
		a.failures++
	case OutcomeTransportError:
		a.errors++
		a.errorTypes[ErrorCategory(o.Err)]++
	}
}

// Snapshot returns a copy of the accumulated state.
func (a *Aggregator) Snapshot() AggregateResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	res := AggregateResult{
		Latencies:   slices.Clone(a.latencies),
		Successes:   a.successes,
		Completed:   a.completed,
		Creations:   a.creations,
		Failures:    a.failures,
		Errors:      a.errors,
		StatusCodes: make(map[int]int64, len(a.statusCodes)),
		ErrorTypes:  make(map[string]int64, len(a.errorTypes)),
	}
	for k, v := range a.statusCodes {
		res.StatusCodes[k] = v
	}
	for k, v := range a.errorTypes {
		res.ErrorTypes[k] = v
	}
	return res
}

// Stats summarises the aggregate for a run that took elapsed wall time.
func (a *Aggregator) Stats(elapsed time.Duration) Stats {
	snap := a.Snapshot()

	a.mu.Lock()
	var tail tailSummary
	if a.hist.TotalCount() > 0 {
		tail = tailSummary{
			stdDev: time.Duration(a.hist.StdDev() * float64(time.Microsecond)),
			p999:   time.Duration(a.hist.ValueAtQuantile(99.9)) * time.Microsecond,
		}
	}
	a.mu.Unlock()

	return summarize(snap, tail, elapsed)
}
