package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/torosent/loadbench/internal/config"
	"github.com/torosent/loadbench/internal/httpclient"
	"github.com/torosent/loadbench/internal/output"
	"github.com/torosent/loadbench/internal/runner"
	"github.com/torosent/loadbench/internal/threshold"
	"github.com/torosent/loadbench/internal/tracing"
)

const tracingShutdownTimeout = 5 * time.Second

func newBenchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Send a fixed number of requests to one endpoint and report latency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewLoader().LoadBench(cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.runBench(cmd.Context(), cfg)
		},
	}
	config.RegisterBenchFlags(cmd.Flags())
	return cmd
}

func (a *app) runBench(ctx context.Context, cfg *config.Config) error {
	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}
	policy, err := runner.ParseRemainderPolicy(cfg.Remainder)
	if err != nil {
		return err
	}

	runID := ulid.Make().String()
	tp, err := tracing.Init(ctx, cfg.Tracing, tracing.Run{ID: runID, Command: "bench"})
	if err != nil {
		return err
	}
	defer shutdownTracing(tp, a.logger)

	builder, err := httpclient.NewRequestBuilder(cfg)
	if err != nil {
		return err
	}
	exec := httpclient.NewExecutor(httpclient.NewClient(cfg.Timeout), builder, tp)

	var requester runner.Requester = runner.NewRequester(exec, runner.LatencyClassifier{})
	logger := a.logger.With(slog.String("run_id", runID))
	if cfg.LogErrors {
		requester = runner.WithLogging(requester, runner.NewSlogFailureLogger(logger, time.Second))
	}

	logger.Info("benchmark starting",
		slog.String("target", builder.Target()),
		slog.String("method", builder.Method()),
		slog.Int("concurrency", cfg.Concurrency),
		slog.Int("total", cfg.Total),
		slog.String("remainder", string(policy)),
	)

	runCtx, span := tp.StartRun(ctx)
	result := runner.New(runner.Options{
		Concurrency:   cfg.Concurrency,
		TotalRequests: cfg.Total,
		Remainder:     policy,
		Requester:     requester,
	}).Run(runCtx)
	span.End()

	logger.Info("benchmark complete",
		slog.Duration("duration", result.Duration),
		slog.Int64("requests", result.Stats.Total),
		slog.Int64("failed", result.Stats.FailedTotal()),
	)

	results := threshold.NewEvaluator(thresholds).Evaluate(result.Stats)
	report := output.NewReport(output.RunInfo{
		RunID:       runID,
		BaseURL:     cfg.BaseURL,
		Path:        cfg.Path,
		Target:      builder.Target(),
		Method:      builder.Method(),
		Concurrency: cfg.Concurrency,
		Requested:   cfg.Total,
	}, result.Stats, results)

	switch cfg.Format {
	case config.FormatJSON:
		err = output.PrintJSONReport(a.stdout, report)
	case config.FormatYAML:
		err = output.PrintYAMLReport(a.stdout, report)
	default:
		output.PrintReport(a.stdout, report)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if !threshold.AllPassed(results) {
		return errThresholdsFailed
	}
	return nil
}

func shutdownTracing(tp *tracing.Provider, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		logger.Warn("tracing shutdown failed", slog.String("error", err.Error()))
	}
}
