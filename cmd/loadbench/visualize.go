package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torosent/loadbench/internal/config"
	"github.com/torosent/loadbench/internal/dashboard"
	"github.com/torosent/loadbench/internal/output"
)

type visualizeOptions struct {
	dir         string
	file        string
	endpoint    string
	requestType string
	metric      string
	htmlOut     string
	terminal    bool
}

func newVisualizeCmd(a *app) *cobra.Command {
	opts := visualizeOptions{}
	cmd := &cobra.Command{
		Use:   "visualize [dir]",
		Short: "Chart a matrix results file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.dir = config.DefaultResultsDir
			if len(args) == 1 {
				opts.dir = args[0]
			}
			if opts.htmlOut != "" && opts.terminal {
				return fmt.Errorf("--html and --terminal are mutually exclusive")
			}
			return a.runVisualize(cmd, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.file, "file", "", "Results file name inside dir (defaults to the latest)")
	flags.StringVar(&opts.endpoint, "endpoint", "", "Endpoint to plot (defaults to the first in the file)")
	flags.StringVar(&opts.requestType, "request-type", "", "Request type to plot (defaults to the first in the file)")
	flags.StringVar(&opts.metric, "metric", string(output.MetricAverageDuration), "Metric: duration, average-duration or failures")
	flags.StringVar(&opts.htmlOut, "html", "", "Write an HTML chart to this path")
	flags.BoolVar(&opts.terminal, "terminal", false, "Show the chart in the terminal")
	return cmd
}

// resolveResultsFile picks the file to plot. A bare name is looked up in dir.
func resolveResultsFile(dir, file string) (string, error) {
	if file == "" {
		return output.LatestResultFile(dir)
	}
	if filepath.IsAbs(file) || strings.ContainsRune(file, filepath.Separator) {
		return file, nil
	}
	return filepath.Join(dir, file), nil
}

func (a *app) runVisualize(cmd *cobra.Command, opts visualizeOptions) error {
	metric, err := output.ParseChartMetric(opts.metric)
	if err != nil {
		return err
	}
	path, err := resolveResultsFile(opts.dir, opts.file)
	if err != nil {
		return err
	}
	rows, err := output.LoadResultsFile(path)
	if err != nil {
		return err
	}
	chart, err := output.BuildChart(rows, opts.endpoint, opts.requestType, metric)
	if err != nil {
		return err
	}
	source := filepath.Base(path)

	switch {
	case opts.htmlOut != "":
		f, err := os.Create(opts.htmlOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.htmlOut, err)
		}
		if err := output.GenerateHTMLChart(f, chart, source); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Chart written to %s\n", opts.htmlOut)
		return nil
	case opts.terminal:
		return dashboard.New(rows, chart, source).Run(cmd.Context())
	default:
		output.PrintChartTable(a.stdout, chart)
		return nil
	}
}
