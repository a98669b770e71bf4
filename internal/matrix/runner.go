package matrix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/torosent/loadbench/internal/runner"
	"github.com/torosent/loadbench/internal/tracing"
)

// Row summarizes one matrix entry run.
type Row struct {
	Endpoint    string        `json:"endpoint"`
	RequestType string        `json:"request_type"`
	PayloadSize int           `json:"payload_size"`
	Concurrency int           `json:"concurrency"`
	Duration    time.Duration `json:"-"`
	Creations   int64         `json:"creations"`
	Failures    int64         `json:"failures"`
	// Errors counts transport errors; they are not part of Failures.
	Errors int64 `json:"errors"`
}

// AverageDuration is the run duration divided by its concurrency.
func (r Row) AverageDuration() time.Duration {
	if r.Concurrency <= 0 {
		return r.Duration
	}
	return r.Duration / time.Duration(r.Concurrency)
}

// RequesterFactory returns the requester used for every request of entry.
type RequesterFactory func(entry Entry) (runner.Requester, error)

// ProgressFunc is called after each entry completes.
type ProgressFunc func(done, total int, row Row)

// ErrNoFactory is returned by Run when the Runner has no RequesterFactory.
var ErrNoFactory = errors.New("matrix: no requester factory configured")

// Options configure a matrix Runner.
type Options struct {
	Factory RequesterFactory
	// RequestsPerWorker is the number of requests each worker sends per entry.
	RequestsPerWorker int
	Logger            *slog.Logger
	OnProgress        ProgressFunc
	// Tracing wraps each entry in a span; nil disables it.
	Tracing *tracing.Provider
}

// Runner runs matrix entries one at a time.
type Runner struct {
	opt Options
}

func NewRunner(opt Options) *Runner {
	if opt.RequestsPerWorker <= 0 {
		opt.RequestsPerWorker = 1
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return &Runner{opt: opt}
}

// Run processes entries sequentially and returns one row per entry in
// processing order. A factory error stops the run and is returned together
// with the rows completed so far. A canceled ctx stops before the next entry.
func (r *Runner) Run(ctx context.Context, entries []Entry) ([]Row, error) {
	if r.opt.Factory == nil {
		return nil, ErrNoFactory
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]Row, 0, len(entries))
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return rows, err
		}

		requester, err := r.opt.Factory(entry)
		if err != nil {
			return rows, fmt.Errorf("entry %d (%s %s): %w", i, entry.RequestType, entry.Endpoint, err)
		}

		entryCtx, span := r.opt.Tracing.StartEntry(ctx, i+1, entry.RequestType, entry.Endpoint, entry.PayloadSize, entry.Concurrency)
		res := runner.New(runner.Options{
			Concurrency:   entry.Concurrency,
			TotalRequests: entry.Concurrency * r.opt.RequestsPerWorker,
			Requester:     requester,
		}).Run(entryCtx)

		row := Row{
			Endpoint:    entry.Endpoint,
			RequestType: entry.RequestType,
			PayloadSize: entry.PayloadSize,
			Concurrency: entry.Concurrency,
			Duration:    res.Duration,
			Creations:   res.Aggregate.Creations,
			Failures:    res.Aggregate.Failures,
			Errors:      res.Aggregate.Errors,
		}
		rows = append(rows, row)
		tracing.EndEntry(span, row.Creations, row.Failures, row.Errors)

		r.opt.Logger.Info("matrix entry complete",
			slog.Int("entry", i+1),
			slog.Int("of", len(entries)),
			slog.String("endpoint", row.Endpoint),
			slog.String("request_type", row.RequestType),
			slog.Int("payload_size", row.PayloadSize),
			slog.Int("concurrency", row.Concurrency),
			slog.Duration("duration", row.Duration),
			slog.Int64("creations", row.Creations),
			slog.Int64("failures", row.Failures),
			slog.Int64("errors", row.Errors),
		)
		if r.opt.OnProgress != nil {
			r.opt.OnProgress(i+1, len(entries), row)
		}
	}
	return rows, nil
}
