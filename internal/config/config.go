// Package config loads and validates benchmark and test matrix configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrHelpRequested is returned when the user asks for usage output.
var ErrHelpRequested = errors.New("help requested")

// Remainder policies for splitting a request budget across workers.
const (
	RemainderDrop       = "drop"
	RemainderDistribute = "distribute"
)

// Report formats for bench mode.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config describes a single benchmark run against base_url/path.
type Config struct {
	BaseURL     string
	Path        string
	Method      string
	Headers     map[string]string
	Body        string
	BodyFile    string
	Total       int
	Concurrency int
	Timeout     time.Duration
	Remainder   string
	Format      string
	Thresholds  []string
	LogErrors   bool
	Tracing     TracingConfig
	ConfigFile  string
}

// TracingConfig configures OpenTelemetry export for request spans.
type TracingConfig struct {
	Endpoint    string
	Protocol    string
	ServiceName string
	SampleRate  float64
	Insecure    bool
	Propagate   *bool
}

// Enabled reports whether an OTLP endpoint is configured, either explicitly
// or through OTEL_EXPORTER_OTLP_ENDPOINT.
func (t TracingConfig) Enabled() bool {
	if strings.TrimSpace(t.Endpoint) != "" {
		return true
	}
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// ShouldPropagate reports whether W3C trace headers are injected into
// outgoing requests. Defaults to true.
func (t TracingConfig) ShouldPropagate() bool {
	if t.Propagate == nil {
		return true
	}
	return *t.Propagate
}

// TargetURL joins BaseURL and Path with exactly one slash.
func (c Config) TargetURL() string {
	base := strings.TrimSpace(c.BaseURL)
	path := strings.TrimSpace(c.Path)
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// defaultConfig returns a Config populated with the documented defaults.
func defaultConfig() *Config {
	return &Config{
		Method:      "GET",
		Headers:     map[string]string{},
		Concurrency: 1,
		Timeout:     30 * time.Second,
		Remainder:   RemainderDrop,
		Format:      FormatText,
		Tracing:     TracingConfig{SampleRate: 1.0},
	}
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if strings.TrimSpace(c.BaseURL) == "" {
		issues = append(issues, "base-url is required (use --help for usage information)")
	} else if issue := validateHTTPURL("base-url", c.TargetURL()); issue != "" {
		issues = append(issues, issue)
	}

	switch strings.ToUpper(c.Method) {
	case "GET", "POST":
	default:
		issues = append(issues, fmt.Sprintf("method must be GET or POST, got %q", c.Method))
	}

	if c.Total < 0 {
		issues = append(issues, "total must be >= 0")
	}
	if c.Concurrency < 1 {
		issues = append(issues, "concurrency must be >= 1")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}
	if c.Body != "" && strings.TrimSpace(c.BodyFile) != "" {
		issues = append(issues, "body and bodyFile are mutually exclusive")
	}

	switch c.Remainder {
	case "", RemainderDrop, RemainderDistribute:
	default:
		issues = append(issues, fmt.Sprintf("remainder must be %q or %q, got %q", RemainderDrop, RemainderDistribute, c.Remainder))
	}

	switch c.Format {
	case "", FormatText, FormatJSON, FormatYAML:
	default:
		issues = append(issues, fmt.Sprintf("format must be text, json or yaml, got %q", c.Format))
	}

	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateTracingConfig(t TracingConfig) []string {
	var issues []string
	if t.SampleRate < 0 || t.SampleRate > 1 {
		issues = append(issues, fmt.Sprintf("tracing sample_rate must be between 0.0 and 1.0, got %g", t.SampleRate))
	}
	switch strings.ToLower(t.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing protocol must be grpc or http, got %q", t.Protocol))
	}
	return issues
}

func validateHTTPURL(field, raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("%s: %v", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("%s must use http or https, got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Sprintf("%s must include a host, got %q", field, raw)
	}
	return ""
}
