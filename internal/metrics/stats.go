package metrics

import (
	"slices"
	"strconv"
	"time"
)

// LatencySummary describes the distribution of timed responses.
//
// Available is false when no latency was recorded; every other field is then
// zero and reports render "n/a".
type LatencySummary struct {
	Available bool          `json:"available" yaml:"available"`
	Samples   int           `json:"samples" yaml:"samples"`
	Min       time.Duration `json:"-" yaml:"-"`
	Max       time.Duration `json:"-" yaml:"-"`
	Mean      time.Duration `json:"-" yaml:"-"`
	StdDev    time.Duration `json:"-" yaml:"-"`
	P50       time.Duration `json:"-" yaml:"-"`
	P75       time.Duration `json:"-" yaml:"-"`
	P95       time.Duration `json:"-" yaml:"-"`
	P99       time.Duration `json:"-" yaml:"-"`
	P999      time.Duration `json:"-" yaml:"-"`

	// JSON-friendly millisecond fields.
	MinMs    float64 `json:"min_ms" yaml:"min_ms"`
	MaxMs    float64 `json:"max_ms" yaml:"max_ms"`
	MeanMs   float64 `json:"mean_ms" yaml:"mean_ms"`
	StdDevMs float64 `json:"stddev_ms" yaml:"stddev_ms"`
	P50Ms    float64 `json:"p50_ms" yaml:"p50_ms"`
	P75Ms    float64 `json:"p75_ms" yaml:"p75_ms"`
	P95Ms    float64 `json:"p95_ms" yaml:"p95_ms"`
	P99Ms    float64 `json:"p99_ms" yaml:"p99_ms"`
	P999Ms   float64 `json:"p999_ms" yaml:"p999_ms"`
}

// Stats represents aggregated metrics for one run.
type Stats struct {
	Total          int64            `json:"total" yaml:"total"`
	Successes      int64            `json:"successes" yaml:"successes"`
	Completed      int64            `json:"completed" yaml:"completed"`
	Creations      int64            `json:"creations" yaml:"creations"`
	Failures       int64            `json:"failures" yaml:"failures"`
	Errors         int64            `json:"errors" yaml:"errors"`
	Duration       time.Duration    `json:"-" yaml:"-"`
	DurationMs     float64          `json:"duration_ms" yaml:"duration_ms"`
	RequestsPerSec float64          `json:"requests_per_sec" yaml:"requests_per_sec"`
	Latency        LatencySummary   `json:"latency" yaml:"latency"`
	StatusCodes    map[string]int64 `json:"status_codes,omitempty" yaml:"status_codes,omitempty"`
	ErrorTypes     map[string]int64 `json:"error_types,omitempty" yaml:"error_types,omitempty"`
}

// FailedTotal counts both failed responses and transport errors.
func (s Stats) FailedTotal() int64 {
	return s.Failures + s.Errors
}

type tailSummary struct {
	stdDev time.Duration
	p999   time.Duration
}

func summarize(res AggregateResult, tail tailSummary, elapsed time.Duration) Stats {
	total := res.Total()
	stats := Stats{
		Total:      total,
		Successes:  res.Successes,
		Completed:  res.Completed,
		Creations:  res.Creations,
		Failures:   res.Failures,
		Errors:     res.Errors,
		Duration:   elapsed,
		DurationMs: toMs(elapsed),
		Latency:    Summarize(res.Latencies),
	}
	if stats.Latency.Available {
		stats.Latency.StdDev = tail.stdDev
		stats.Latency.P999 = tail.p999
		stats.Latency.StdDevMs = toMs(tail.stdDev)
		stats.Latency.P999Ms = toMs(tail.p999)
	}
	if elapsed > 0 && total > 0 {
		stats.RequestsPerSec = float64(total) / elapsed.Seconds()
	}
	if len(res.StatusCodes) > 0 {
		stats.StatusCodes = make(map[string]int64, len(res.StatusCodes))
		for code, n := range res.StatusCodes {
			stats.StatusCodes[strconv.Itoa(code)] = n
		}
	}
	if len(res.ErrorTypes) > 0 {
		stats.ErrorTypes = make(map[string]int64, len(res.ErrorTypes))
		for k, v := range res.ErrorTypes {
			stats.ErrorTypes[k] = v
		}
	}
	return stats
}

// Summarize computes exact latency statistics from raw samples. The input is
// not modified.
func Summarize(latencies []time.Duration) LatencySummary {
	if len(latencies) == 0 {
		return LatencySummary{}
	}
	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	var sum time.Duration
	for _, l := range sorted {
		sum += l
	}

	s := LatencySummary{
		Available: true,
		Samples:   len(sorted),
		Min:       sorted[0],
		Max:       sorted[len(sorted)-1],
		Mean:      sum / time.Duration(len(sorted)),
	}
	s.P50, _ = Percentile(sorted, 50)
	s.P75, _ = Percentile(sorted, 75)
	s.P95, _ = Percentile(sorted, 95)
	s.P99, _ = Percentile(sorted, 99)

	s.MinMs = toMs(s.Min)
	s.MaxMs = toMs(s.Max)
	s.MeanMs = toMs(s.Mean)
	s.P50Ms = toMs(s.P50)
	s.P75Ms = toMs(s.P75)
	s.P95Ms = toMs(s.P95)
	s.P99Ms = toMs(s.P99)
	return s
}

func toMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
