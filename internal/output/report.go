package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/torosent/loadbench/internal/matrix"
	"github.com/torosent/loadbench/internal/metrics"
	"github.com/torosent/loadbench/internal/threshold"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	labelStyle = lipgloss.NewStyle().Width(19)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	subtle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RunInfo identifies a benchmark run.
type RunInfo struct {
	RunID       string `json:"run_id" yaml:"run_id"`
	BaseURL     string `json:"base_url" yaml:"base_url"`
	Path        string `json:"path" yaml:"path"`
	Target      string `json:"target" yaml:"target"`
	Method      string `json:"method" yaml:"method"`
	Concurrency int    `json:"concurrency" yaml:"concurrency"`
	Requested   int    `json:"requested" yaml:"requested"`
}

// ThresholdOutcome is the serializable form of a threshold result.
type ThresholdOutcome struct {
	Threshold string  `json:"threshold" yaml:"threshold"`
	Actual    float64 `json:"actual" yaml:"actual"`
	Pass      bool    `json:"pass" yaml:"pass"`
	Message   string  `json:"message,omitempty" yaml:"message,omitempty"`
}

// Report is everything printed at the end of a bench run.
type Report struct {
	Run        RunInfo            `json:"run" yaml:"run"`
	Stats      metrics.Stats      `json:"stats" yaml:"stats"`
	Thresholds []ThresholdOutcome `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

// NewReport assembles a report from run results.
func NewReport(info RunInfo, stats metrics.Stats, results []threshold.Result) Report {
	r := Report{Run: info, Stats: stats}
	for _, res := range results {
		r.Thresholds = append(r.Thresholds, ThresholdOutcome{
			Threshold: res.Threshold.Raw,
			Actual:    res.Actual,
			Pass:      res.Pass,
			Message:   res.Message,
		})
	}
	return r
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, r Report) {
	stats := r.Stats
	row := func(label, value string) {
		fmt.Fprintf(w, "%s%s\n", labelStyle.Render(label), value)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("--- Benchmark Results ---"))
	if r.Run.RunID != "" {
		row("Run ID:", subtle.Render(r.Run.RunID))
	}
	row("Base URL:", r.Run.BaseURL)
	row("Path:", r.Run.Path)
	row("Method:", r.Run.Method)
	row("Concurrency:", fmt.Sprintf("%d", r.Run.Concurrency))
	row("Total Requests:", fmt.Sprintf("%d", stats.Total))
	failed := fmt.Sprintf("%d", stats.FailedTotal())
	if stats.FailedTotal() > 0 {
		failed = failStyle.Render(failed)
	}
	row("Failed Requests:", failed)
	row("Duration:", stats.Duration.Round(time.Millisecond).String())
	row("Requests/sec:", fmt.Sprintf("%.2f", stats.RequestsPerSec))

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Latency:"))
	lat := stats.Latency
	row("  Min:", seconds(lat.Available, lat.Min))
	row("  Mean:", seconds(lat.Available, lat.Mean))
	row("  Median:", seconds(lat.Available, lat.P50))
	row("  75%:", seconds(lat.Available, lat.P75))
	row("  95%:", seconds(lat.Available, lat.P95))
	row("  99%:", seconds(lat.Available, lat.P99))
	row("  99.9%:", seconds(lat.Available, lat.P999))
	row("  Max:", seconds(lat.Available, lat.Max))
	row("  Std Dev:", seconds(lat.Available, lat.StdDev))

	if codes := metrics.FlattenStatusCodes(stats.StatusCodes); len(codes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Status Codes:"))
		for _, c := range codes {
			row("  "+c.Code+":", fmt.Sprintf("%d", c.Count))
		}
	}

	if len(stats.ErrorTypes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Transport Errors:"))
		for _, name := range sortedKeysByCount(stats.ErrorTypes) {
			fmt.Fprintf(w, "  %s: %d\n", name, stats.ErrorTypes[name])
		}
	}

	if len(r.Thresholds) > 0 {
		fmt.Fprintln(w)
		passed := 0
		for _, t := range r.Thresholds {
			if t.Pass {
				passed++
			}
		}
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Thresholds (%d/%d passed):", passed, len(r.Thresholds))))
		for _, t := range r.Thresholds {
			style := passStyle
			if !t.Pass {
				style = failStyle
			}
			fmt.Fprintf(w, "  %s\n", style.Render(t.Message))
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// PrintYAMLReport outputs a YAML-formatted report.
func PrintYAMLReport(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// seconds renders d in seconds with four decimals, or n/a.
func seconds(ok bool, d time.Duration) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.4f seconds", d.Seconds())
}

func sortedKeysByCount(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] == m[keys[j]] {
			return strings.Compare(keys[i], keys[j]) < 0
		}
		return m[keys[i]] > m[keys[j]]
	})
	return keys
}

// PrintMatrixSummary prints one line per matrix row in processing order.
func PrintMatrixSummary(w io.Writer, rows []matrix.Row) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("--- Matrix Results (%d entries) ---", len(rows))))
	for _, r := range rows {
		failures := fmt.Sprintf("failures=%d", r.Failures)
		if r.Failures > 0 || r.Errors > 0 {
			failures = failStyle.Render(fmt.Sprintf("failures=%d errors=%d", r.Failures, r.Errors))
		}
		fmt.Fprintf(w, "%-4s %s payload=%d concurrency=%d duration=%.2fs creations=%d %s\n",
			r.RequestType, r.Endpoint, r.PayloadSize, r.Concurrency, r.Duration.Seconds(), r.Creations, failures)
	}
	if errs, entries := TransportErrors(rows); errs > 0 {
		fmt.Fprintln(w, failStyle.Render(fmt.Sprintf(
			"Warning: %d transport errors in %d entries are not in the results CSV; those rows undercount failures.", errs, entries)))
	}
}

// TransportErrors sums Row.Errors and counts the rows that have any.
func TransportErrors(rows []matrix.Row) (total int64, entries int) {
	for _, r := range rows {
		if r.Errors > 0 {
			total += r.Errors
			entries++
		}
	}
	return total, entries
}
