// Package metrics aggregates per-request outcomes for a single benchmark run.
//
// # Outcomes
//
// Every request attempt is folded into an [Outcome]. The kind decides which
// counter moves and whether a latency sample is kept:
//   - [OutcomeSuccess]: a timed response; its latency enters the sample log
//   - [OutcomeCompleted]: an untimed non-failure (throughput runs)
//   - [OutcomeCreation]: a POST answered with 201 Created
//   - [OutcomeFailure]: a response outside the expected status set
//   - [OutcomeTransportError]: no response at all (refused, DNS, TLS, timeout)
//
// # Aggregator
//
// The [Aggregator] is owned by one run. Workers call [Aggregator.Record]
// concurrently; the owner reads it back with [Aggregator.Snapshot] and
// [Aggregator.Stats] once every worker has returned:
//
//	agg := metrics.NewAggregator()
//	agg.Record(metrics.Outcome{Kind: metrics.OutcomeSuccess, Latency: 12 * time.Millisecond})
//	stats := agg.Stats(elapsed)
//
// # Percentiles
//
// Latency percentiles are exact, computed with linear interpolation between
// the closest ranks of the sorted sample log (see [Percentile]). When no
// latency was recorded the summary is marked unavailable instead of failing;
// see [LatencySummary.Available].
//
// # Thread Safety
//
// Record is safe for concurrent use. Snapshot and Stats take the same lock
// and return copies.
package metrics
