package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/torosent/loadbench/internal/config"
	"github.com/torosent/loadbench/internal/httpclient"
	"github.com/torosent/loadbench/internal/matrix"
	"github.com/torosent/loadbench/internal/output"
	"github.com/torosent/loadbench/internal/runner"
	"github.com/torosent/loadbench/internal/tracing"
)

func newMatrixCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Run every endpoint, request type, payload size and concurrency combination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewLoader().LoadMatrix(cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.runMatrix(cmd.Context(), cfg)
		},
	}
	config.RegisterMatrixFlags(cmd.Flags())
	return cmd
}

// matrixRand returns nil for seed 0 so sampling picks its own seed.
func matrixRand(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

func (a *app) runMatrix(ctx context.Context, cfg *config.MatrixConfig) error {
	design, err := matrix.ParseDesign(cfg.Design)
	if err != nil {
		return err
	}
	entries, err := matrix.Select(design, matrix.Build(matrix.DimensionsFromConfig(cfg)), cfg.Fraction, matrixRand(cfg.Seed))
	if err != nil {
		return err
	}

	runID := ulid.Make().String()
	tp, err := tracing.Init(ctx, cfg.Tracing, tracing.Run{ID: runID, Command: "matrix"})
	if err != nil {
		return err
	}
	defer shutdownTracing(tp, a.logger)

	logger := a.logger.With(slog.String("run_id", runID))
	factory := matrix.HTTPFactory{
		Client:  httpclient.NewClient(cfg.Timeout),
		Headers: cfg.Headers,
		Tracing: tp,
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		factory.FailureLogger = runner.NewSlogFailureLogger(logger, time.Second)
	}

	logger.Info("matrix starting",
		slog.String("config", cfg.ConfigFile),
		slog.String("design", string(design)),
		slog.Int("entries", len(entries)),
	)

	progress := output.NewMatrixProgress(a.stderr, 40)
	runCtx, span := tp.StartRun(ctx)
	rows, runErr := matrix.NewRunner(matrix.Options{
		Factory:           factory.Requester,
		RequestsPerWorker: cfg.RequestsPerWorker,
		Logger:            logger,
		OnProgress:        progress.Update,
		Tracing:           tp,
	}).Run(runCtx, entries)
	tracing.EndSpan(span, runErr)

	if len(rows) > 0 {
		path, err := output.SaveResults(cfg.OutputDir, rows, time.Now())
		if err != nil {
			return err
		}
		if errs, n := output.TransportErrors(rows); errs > 0 {
			logger.Warn("transport errors are not recorded in the results file",
				slog.Int64("errors", errs),
				slog.Int("entries", n),
				slog.String("path", path),
			)
		}
		output.PrintMatrixSummary(a.stdout, rows)
		fmt.Fprintf(a.stdout, "\nResults saved to %s\n", path)
	}
	if runErr != nil {
		return runErr
	}
	return nil
}
