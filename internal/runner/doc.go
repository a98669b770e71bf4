// Package runner provides the concurrent request-execution engine for loadbench.
//
// A run divides a fixed request budget across a fixed number of workers. Each
// worker executes its share strictly in sequence; workers run in parallel and
// fold every outcome into a per-run [metrics.Aggregator]. [Runner.Run] blocks
// until every worker has finished and only then reads the aggregate back.
//
// # Basic Usage
//
//	r := runner.New(runner.Options{
//		Concurrency:   10,
//		TotalRequests: 1000,
//		Requester:     runner.NewRequester(executor, runner.LatencyClassifier{}),
//	})
//	result := r.Run(ctx)
//
// # Request Budget
//
// [Shares] computes how many requests each worker executes. With
// [RemainderDrop] every worker gets floor(total/concurrency) and the
// remainder is not sent; [RemainderDistribute] hands the remainder to the
// first workers, one each.
//
// # Classification
//
// An [Executor] performs one attempt and reports what happened on the wire.
// A [Classifier] turns that [Attempt] into a [metrics.Outcome]:
//   - [LatencyClassifier]: every response is a timed success
//   - [ThroughputClassifier]: 201 on POST is a creation, 200 on GET is a
//     completion, anything else is a failure, and nothing is timed
//
// Transport errors are counted, never retried.
//
// # Middleware
//
// [WithLogging] reports failed attempts to a [FailureLogger].
package runner
