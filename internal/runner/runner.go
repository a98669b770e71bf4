package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/torosent/loadbench/internal/metrics"
)

// ErrNoRequester is recorded for every attempt of a run configured without a Requester.
var ErrNoRequester = errors.New("runner: no requester configured")

// Result captures execution summary.
type Result struct {
	Aggregate metrics.AggregateResult
	Stats     metrics.Stats
	Duration  time.Duration
	Shares    []int // requests assigned to each worker
}

// Runner executes one benchmark run.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Run executes the full request budget and blocks until every worker is done.
// Cancelling ctx does not shorten the budget; outstanding attempts fail fast
// and are counted as transport errors.
func (r *Runner) Run(ctx context.Context) Result {
	if ctx == nil {
		ctx = context.Background()
	}

	shares := Shares(r.opt.TotalRequests, r.opt.Concurrency, r.opt.Remainder)
	agg := metrics.NewAggregator()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(len(shares))
	for _, n := range shares {
		go func(n int) {
			defer wg.Done()
			for i := 0; i < n; i++ {
				agg.Record(r.attempt(ctx))
			}
		}(n)
	}
	wg.Wait()
	elapsed := time.Since(start)

	return Result{
		Aggregate: agg.Snapshot(),
		Stats:     agg.Stats(elapsed),
		Duration:  elapsed,
		Shares:    shares,
	}
}

func (r *Runner) attempt(ctx context.Context) metrics.Outcome {
	if r.opt.Requester == nil {
		return metrics.Outcome{Kind: metrics.OutcomeTransportError, Err: ErrNoRequester}
	}
	return r.opt.Requester.Do(ctx)
}
