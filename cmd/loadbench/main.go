package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/torosent/loadbench/internal/config"
)

// errThresholdsFailed makes the process exit non-zero after the report has
// been printed.
var errThresholdsFailed = errors.New("one or more thresholds failed")

// app carries the writers and logger shared by all subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr, logger: newLogger(stderr, slog.LevelInfo)}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if errors.Is(err, config.ErrHelpRequested) {
		return nil
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "loadbench",
		Short:         "HTTP benchmark and load-test matrix runner",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := cmd.Flags().GetString("log-level")
			if err != nil {
				return err
			}
			level, err := parseLogLevel(raw)
			if err != nil {
				return err
			}
			a.logger = newLogger(a.stderr, level)
			slog.SetDefault(a.logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmd.Help(); err != nil {
				return err
			}
			return config.ErrHelpRequested
		},
	}

	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	config.RegisterTracingFlags(root.PersistentFlags())

	root.AddCommand(newBenchCmd(a), newMatrixCmd(a), newVisualizeCmd(a))
	return root
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
