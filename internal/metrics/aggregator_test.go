package metrics_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/torosent/loadbench/internal/metrics"
)

func TestAggregatorCounters(t *testing.T) {
	a := metrics.NewAggregator()

	a.Record(metrics.Outcome{Kind: metrics.OutcomeSuccess, Latency: 10 * time.Millisecond, StatusCode: 200})
	a.Record(metrics.Outcome{Kind: metrics.OutcomeSuccess, Latency: 20 * time.Millisecond, StatusCode: 500})
	a.Record(metrics.Outcome{Kind: metrics.OutcomeCreation, StatusCode: 201})
	a.Record(metrics.Outcome{Kind: metrics.OutcomeFailure, StatusCode: 500})
	a.Record(metrics.Outcome{Kind: metrics.OutcomeCompleted, StatusCode: 200})
	a.Record(metrics.Outcome{Kind: metrics.OutcomeTransportError, Err: errors.New("boom")})

	res := a.Snapshot()
	if res.Successes != 2 {
		t.Errorf("expected 2 successes, got %d", res.Successes)
	}
	if res.Creations != 1 {
		t.Errorf("expected 1 creation, got %d", res.Creations)
	}
	if res.Failures != 1 {
		t.Errorf("expected 1 failure, got %d", res.Failures)
	}
	if res.Completed != 1 {
		t.Errorf("expected 1 completed, got %d", res.Completed)
	}
	if res.Errors != 1 {
		t.Errorf("expected 1 error, got %d", res.Errors)
	}
	if res.Total() != 6 {
		t.Errorf("expected total 6, got %d", res.Total())
	}
	if len(res.Latencies) != 2 {
		t.Fatalf("expected 2 latencies, got %d", len(res.Latencies))
	}
	if res.StatusCodes[500] != 2 || res.StatusCodes[200] != 2 || res.StatusCodes[201] != 1 {
		t.Errorf("unexpected status codes: %v", res.StatusCodes)
	}
}

func TestAggregatorOnlyTimesSuccesses(t *testing.T) {
	a := metrics.NewAggregator()
	a.Record(metrics.Outcome{Kind: metrics.OutcomeCreation, Latency: time.Second, StatusCode: 201})
	a.Record(metrics.Outcome{Kind: metrics.OutcomeFailure, Latency: time.Second, StatusCode: 500})

	if got := len(a.Snapshot().Latencies); got != 0 {
		t.Fatalf("expected no latency samples, got %d", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	a := metrics.NewAggregator()
	a.Record(metrics.Outcome{Kind: metrics.OutcomeSuccess, Latency: time.Millisecond, StatusCode: 200})

	snap := a.Snapshot()
	snap.Latencies[0] = time.Hour
	snap.StatusCodes[200] = 99

	again := a.Snapshot()
	if again.Latencies[0] != time.Millisecond {
		t.Errorf("snapshot latencies alias aggregator state")
	}
	if again.StatusCodes[200] != 1 {
		t.Errorf("snapshot status codes alias aggregator state")
	}
}

func TestConcurrentRecording(t *testing.T) {
	a := metrics.NewAggregator()

	var wg sync.WaitGroup
	workers := 10
	recordsPerWorker := 100

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			for j := 0; j < recordsPerWorker; j++ {
				if i%2 == 0 {
					a.Record(metrics.Outcome{Kind: metrics.OutcomeSuccess, Latency: time.Millisecond, StatusCode: 200})
				} else {
					a.Record(metrics.Outcome{Kind: metrics.OutcomeTransportError, Err: errors.New("refused")})
				}
			}
		}(i)
	}
	wg.Wait()

	res := a.Snapshot()
	expected := int64(workers * recordsPerWorker)
	if res.Total() != expected {
		t.Errorf("expected total %d, got %d", expected, res.Total())
	}
	if res.Successes != expected/2 || res.Errors != expected/2 {
		t.Errorf("lost updates: successes=%d errors=%d", res.Successes, res.Errors)
	}
	if int64(len(res.Latencies)) != res.Successes {
		t.Errorf("expected %d latencies, got %d", res.Successes, len(res.Latencies))
	}
}

func TestStatsLatencySummary(t *testing.T) {
	a := metrics.NewAggregator()
	for _, ms := range []int{100, 200, 300, 400, 500} {
		a.Record(metrics.Outcome{Kind: metrics.OutcomeSuccess, Latency: time.Duration(ms) * time.Millisecond, StatusCode: 200})
	}

	stats := a.Stats(time.Second)
	if !stats.Latency.Available {
		t.Fatal("expected latency summary to be available")
	}
	if stats.Latency.P50 != 300*time.Millisecond {
		t.Errorf("expected p50 300ms, got %s", stats.Latency.P50)
	}
	if stats.Latency.Min != 100*time.Millisecond || stats.Latency.Max != 500*time.Millisecond {
		t.Errorf("unexpected min/max %s/%s", stats.Latency.Min, stats.Latency.Max)
	}
	if stats.Latency.Mean != 300*time.Millisecond {
		t.Errorf("expected mean 300ms, got %s", stats.Latency.Mean)
	}
	if stats.RequestsPerSec != 5 {
		t.Errorf("expected 5 rps, got %f", stats.RequestsPerSec)
	}
	if stats.Latency.StdDev <= 0 {
		t.Errorf("expected non-zero stddev from histogram")
	}
}

func TestStatsMeanUsesExactSamples(t *testing.T) {
	a := metrics.NewAggregator()
	// Sub-microsecond parts are below the histogram's resolution.
	a.Record(metrics.Outcome{Kind: metrics.OutcomeSuccess, Latency: time.Millisecond + time.Nanosecond})
	a.Record(metrics.Outcome{Kind: metrics.OutcomeSuccess, Latency: 3*time.Millisecond + time.Nanosecond})

	stats := a.Stats(time.Second)
	if want := 2*time.Millisecond + time.Nanosecond; stats.Latency.Mean != want {
		t.Errorf("expected mean %s, got %s", want, stats.Latency.Mean)
	}
}

func TestStatsWithNoLatencies(t *testing.T) {
	a := metrics.NewAggregator()
	for i := 0; i < 4; i++ {
		a.Record(metrics.Outcome{Kind: metrics.OutcomeTransportError, Err: errors.New("refused")})
	}

	stats := a.Stats(10 * time.Millisecond)
	if stats.Latency.Available {
		t.Fatal("expected latency summary to be unavailable")
	}
	if stats.Latency.P50 != 0 || stats.Latency.P99 != 0 {
		t.Errorf("expected zero percentiles, got p50=%s p99=%s", stats.Latency.P50, stats.Latency.P99)
	}
	if stats.Errors != 4 {
		t.Errorf("expected 4 errors, got %d", stats.Errors)
	}
	if stats.FailedTotal() != 4 {
		t.Errorf("expected 4 failed total, got %d", stats.FailedTotal())
	}
}

func TestJSONReportSchema(t *testing.T) {
	a := metrics.NewAggregator()
	a.Record(metrics.Outcome{Kind: metrics.OutcomeSuccess, Latency: 15 * time.Millisecond, StatusCode: 200})
	a.Record(metrics.Outcome{Kind: metrics.OutcomeTransportError, Err: errors.New("boom")})

	data, err := json.Marshal(a.Stats(100 * time.Millisecond))
	if err != nil {
		t.Fatalf("failed to marshal stats: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	for _, field := range []string{"total", "successes", "failures", "errors", "creations", "duration_ms", "requests_per_sec", "latency", "status_codes", "error_types"} {
		if _, ok := parsed[field]; !ok {
			t.Errorf("missing field %q in JSON output", field)
		}
	}
	latency, ok := parsed["latency"].(map[string]interface{})
	if !ok {
		t.Fatalf("latency is not an object")
	}
	for _, field := range []string{"available", "p50_ms", "p75_ms", "p95_ms", "p99_ms"} {
		if _, ok := latency[field]; !ok {
			t.Errorf("missing latency field %q", field)
		}
	}
}
