// Package threshold evaluates pass/fail assertions against benchmark stats.
package threshold

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/torosent/loadbench/internal/metrics"
)

// Threshold represents a performance assertion that can pass or fail.
type Threshold struct {
	Metric    string  // e.g., "latency", "latency_ms", "failures"
	Aggregate string  // e.g., "p95", "avg", "rate", "count"
	Operator  string  // e.g., "<", "<=", ">", ">=", "=="
	Value     float64 // The threshold value to compare against
	Raw       string  // Original threshold string for display
}

// Result represents the outcome of evaluating a threshold.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
	Message   string
}

// ErrNoLatency is reported for latency thresholds when no response was timed.
var ErrNoLatency = errors.New("no latency samples")

type extractor func(stats metrics.Stats) (float64, error)

var thresholdPattern = regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)

// supported maps metric -> aggregate -> value extractor.
var supported = map[string]map[string]extractor{
	"latency":    latencyExtractors(time.Second),
	"latency_ms": latencyExtractors(time.Millisecond),
	"failures": {
		"count": func(s metrics.Stats) (float64, error) { return float64(s.FailedTotal()), nil },
		"rate":  func(s metrics.Stats) (float64, error) { return ratio(s.FailedTotal(), s.Total), nil },
	},
	"errors": {
		"count": func(s metrics.Stats) (float64, error) { return float64(s.Errors), nil },
		"rate":  func(s metrics.Stats) (float64, error) { return ratio(s.Errors, s.Total), nil },
	},
	"requests": {
		"count": func(s metrics.Stats) (float64, error) { return float64(s.Total), nil },
		"rate":  func(s metrics.Stats) (float64, error) { return s.RequestsPerSec, nil },
	},
}

func latencyExtractors(unit time.Duration) map[string]extractor {
	pick := func(get func(metrics.LatencySummary) time.Duration) extractor {
		return func(s metrics.Stats) (float64, error) {
			if !s.Latency.Available {
				return 0, ErrNoLatency
			}
			return float64(get(s.Latency)) / float64(unit), nil
		}
	}
	return map[string]extractor{
		"p50":    pick(func(l metrics.LatencySummary) time.Duration { return l.P50 }),
		"p75":    pick(func(l metrics.LatencySummary) time.Duration { return l.P75 }),
		"p95":    pick(func(l metrics.LatencySummary) time.Duration { return l.P95 }),
		"p99":    pick(func(l metrics.LatencySummary) time.Duration { return l.P99 }),
		"p999":   pick(func(l metrics.LatencySummary) time.Duration { return l.P999 }),
		"avg":    pick(func(l metrics.LatencySummary) time.Duration { return l.Mean }),
		"min":    pick(func(l metrics.LatencySummary) time.Duration { return l.Min }),
		"max":    pick(func(l metrics.LatencySummary) time.Duration { return l.Max }),
		"stddev": pick(func(l metrics.LatencySummary) time.Duration { return l.StdDev }),
	}
}

func ratio(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

// Evaluator evaluates thresholds against collected metrics.
type Evaluator struct {
	thresholds []Threshold
}

// NewEvaluator creates a new threshold evaluator.
func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
	}
}

// Evaluate checks all thresholds against the provided stats.
func (e *Evaluator) Evaluate(stats metrics.Stats) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(e.thresholds))
	for _, t := range e.thresholds {
		results = append(results, evaluateOne(t, stats))
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return false
		}
	}
	return true
}

func evaluateOne(t Threshold, stats metrics.Stats) Result {
	actual, err := extractMetricValue(t, stats)
	if err != nil {
		return Result{
			Threshold: t,
			Pass:      false,
			Message:   fmt.Sprintf("✗ %s: %v", t.Raw, err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "✓"
	if !pass {
		status = "✗"
	}

	return Result{
		Threshold: t,
		Actual:    actual,
		Pass:      pass,
		Message:   fmt.Sprintf("%s %s: %.4f %s %g", status, t.Raw, actual, t.Operator, t.Value),
	}
}

// Parse parses a threshold string into a Threshold struct.
// Supported formats:
//   - "latency:p95 < 0.5"        (latency percentile in seconds)
//   - "latency_ms:avg < 200"     (average latency in milliseconds)
//   - "failures:rate < 0.01"     (failed responses and transport errors as a fraction)
//   - "errors:count == 0"        (transport errors)
//   - "requests:rate > 100"      (requests per second)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := thresholdPattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected metric:aggregate operator value, e.g. 'latency:p95 < 0.5')", s)
	}

	metric, aggregate, operator, valueStr := matches[1], matches[2], matches[3], matches[4]

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	aggregates, ok := supported[metric]
	if !ok {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: latency, latency_ms, failures, errors, requests)", metric)
	}
	if _, ok := aggregates[aggregate]; !ok {
		return Threshold{}, fmt.Errorf("unsupported aggregate %q for %s", aggregate, metric)
	}
	if !isValidOperator(operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", operator)
	}

	return Threshold{
		Metric:    metric,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}, nil
}

// ParseMultiple parses multiple threshold strings.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var problems []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			problems = append(problems, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(problems, "; "))
	}

	return result, nil
}

func isValidOperator(operator string) bool {
	switch operator {
	case "<", "<=", ">", ">=", "==":
		return true
	}
	return false
}

func extractMetricValue(t Threshold, stats metrics.Stats) (float64, error) {
	fn, ok := supported[t.Metric][t.Aggregate]
	if !ok {
		return 0, fmt.Errorf("unknown metric %s:%s", t.Metric, t.Aggregate)
	}
	return fn(stats)
}

func compareValues(actual float64, operator string, expected float64) bool {
	epsilon := 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
