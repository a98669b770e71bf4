package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// RegisterBenchFlags registers the flags of the bench command.
func RegisterBenchFlags(flags *pflag.FlagSet) {
	flags.String("base-url", "", "Base URL of the service under test")
	flags.String("path", "", "Path appended to the base URL")
	flags.String("method", "GET", "HTTP method to use (GET or POST)")
	flags.StringArray("header", nil, "Additional request header in key=value form (repeatable)")
	flags.String("body", "", "Inline request body payload for POST")
	flags.String("body-file", "", "Path to file containing the request body")

	flags.IntP("concurrency", "c", 1, "Number of concurrent workers")
	flags.IntP("total", "t", 0, "Total number of requests to send")
	flags.Duration("timeout", 30*time.Second, "Per-request timeout")
	flags.String("remainder", RemainderDrop, "How to handle total % concurrency: 'drop' or 'distribute'")

	flags.String("format", FormatText, "Report format: 'text', 'json' or 'yaml'")
	flags.StringArray("threshold", nil, "Performance threshold (repeatable, e.g. 'latency:p95 < 0.5')")
	flags.Bool("log-errors", false, "Log failed requests to stderr")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")
}

// RegisterMatrixFlags registers the flags of the matrix command.
func RegisterMatrixFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to matrix configuration file (default "+DefaultMatrixConfigFile+")")
	flags.String("design", DesignFull, "Test matrix design: 'full' or 'fractional'")
	flags.Float64("fraction", 0.5, "Fraction of the matrix to run with the fractional design")
	flags.Int64("seed", 0, "Random seed for the fractional design (0 picks one)")
	flags.String("output-dir", DefaultResultsDir, "Directory the results CSV is written to")
	flags.Int("requests-per-worker", 1, "Requests each worker sends per matrix entry")
	flags.Duration("timeout", 30*time.Second, "Per-request timeout")
}

// RegisterTracingFlags registers the OpenTelemetry flags shared by commands
// that issue requests.
func RegisterTracingFlags(flags *pflag.FlagSet) {
	flags.String("tracing-endpoint", "", "OTLP endpoint for request spans (host:port)")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.Bool("tracing-insecure", false, "Disable TLS for the OTLP exporter")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of request spans to sample")
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if changed(fs, "base-url") {
		val, err := fs.GetString("base-url")
		if err != nil {
			return err
		}
		cfg.BaseURL = strings.TrimSpace(val)
	}
	if changed(fs, "path") {
		val, err := fs.GetString("path")
		if err != nil {
			return err
		}
		cfg.Path = val
	}
	if changed(fs, "method") {
		val, err := fs.GetString("method")
		if err != nil {
			return err
		}
		cfg.Method = val
	}
	if changed(fs, "body") {
		val, err := fs.GetString("body")
		if err != nil {
			return err
		}
		cfg.Body = val
	}
	if changed(fs, "body-file") {
		val, err := fs.GetString("body-file")
		if err != nil {
			return err
		}
		cfg.BodyFile = val
	}
	if changed(fs, "concurrency") {
		val, err := fs.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = val
	}
	if changed(fs, "total") {
		val, err := fs.GetInt("total")
		if err != nil {
			return err
		}
		cfg.Total = val
	}
	if changed(fs, "timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if changed(fs, "remainder") {
		val, err := fs.GetString("remainder")
		if err != nil {
			return err
		}
		cfg.Remainder = val
	}
	if changed(fs, "format") {
		val, err := fs.GetString("format")
		if err != nil {
			return err
		}
		cfg.Format = val
	}
	if changed(fs, "log-errors") {
		val, err := fs.GetBool("log-errors")
		if err != nil {
			return err
		}
		cfg.LogErrors = val
	}
	if changed(fs, "threshold") {
		val, err := fs.GetStringArray("threshold")
		if err != nil {
			return err
		}
		cfg.Thresholds = val
	}
	if changed(fs, "header") {
		vals, err := fs.GetStringArray("header")
		if err != nil {
			return err
		}
		if err := parseHeaderFlags(&cfg.Headers, vals); err != nil {
			return err
		}
	}
	return applyTracingFlagOverrides(&cfg.Tracing, fs)
}

func applyMatrixFlagOverrides(cfg *MatrixConfig, fs *pflag.FlagSet) error {
	if changed(fs, "design") {
		val, err := fs.GetString("design")
		if err != nil {
			return err
		}
		cfg.Design = val
	}
	if changed(fs, "fraction") {
		val, err := fs.GetFloat64("fraction")
		if err != nil {
			return err
		}
		cfg.Fraction = val
	}
	if changed(fs, "seed") {
		val, err := fs.GetInt64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = val
	}
	if changed(fs, "output-dir") {
		val, err := fs.GetString("output-dir")
		if err != nil {
			return err
		}
		cfg.OutputDir = strings.TrimSpace(val)
	}
	if changed(fs, "requests-per-worker") {
		val, err := fs.GetInt("requests-per-worker")
		if err != nil {
			return err
		}
		cfg.RequestsPerWorker = val
	}
	if changed(fs, "timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	return applyTracingFlagOverrides(&cfg.Tracing, fs)
}

func applyTracingFlagOverrides(tc *TracingConfig, fs *pflag.FlagSet) error {
	if changed(fs, "tracing-endpoint") {
		val, err := fs.GetString("tracing-endpoint")
		if err != nil {
			return err
		}
		tc.Endpoint = strings.TrimSpace(val)
	}
	if changed(fs, "tracing-protocol") {
		val, err := fs.GetString("tracing-protocol")
		if err != nil {
			return err
		}
		tc.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if changed(fs, "tracing-insecure") {
		val, err := fs.GetBool("tracing-insecure")
		if err != nil {
			return err
		}
		tc.Insecure = val
	}
	if changed(fs, "tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		tc.SampleRate = val
	}
	return nil
}

func parseHeaderFlags(dst *map[string]string, vals []string) error {
	if *dst == nil {
		*dst = map[string]string{}
	}
	for _, entry := range vals {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("header must be in key=value format: %s", entry)
		}
		key := http.CanonicalHeaderKey(strings.TrimSpace(parts[0]))
		if key == "" {
			return fmt.Errorf("header key cannot be empty")
		}
		(*dst)[key] = strings.TrimSpace(parts[1])
	}
	return nil
}

// changed reports whether a flag exists in fs and was set explicitly.
func changed(fs *pflag.FlagSet, name string) bool {
	if fs == nil || fs.Lookup(name) == nil {
		return false
	}
	return fs.Changed(name)
}

func stringFlag(fs *pflag.FlagSet, name string) (string, error) {
	if fs == nil || fs.Lookup(name) == nil {
		return "", nil
	}
	val, err := fs.GetString(name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(val), nil
}
