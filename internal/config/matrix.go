package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultMatrixConfigFile is read when matrix mode is given no --config.
const DefaultMatrixConfigFile = "loadtest/test_config.json"

// DefaultResultsDir is where matrix result files are written.
const DefaultResultsDir = "loadtest/data"

// Matrix designs.
const (
	DesignFull       = "full"
	DesignFractional = "fractional"
)

// MatrixConfig holds the dimensions of a test matrix and how to run it.
type MatrixConfig struct {
	Endpoints         []string
	RequestTypes      []string
	PayloadSizes      []int
	ConcurrencyLevels []int
	// RequestsPerWorker is how many requests each worker sends per entry.
	RequestsPerWorker int
	Headers           map[string]string
	Timeout           time.Duration
	Design            string
	Fraction          float64
	Seed              int64
	OutputDir         string
	Tracing           TracingConfig
	ConfigFile        string
}

func defaultMatrixConfig() *MatrixConfig {
	return &MatrixConfig{
		RequestsPerWorker: 1,
		Headers:           map[string]string{},
		Timeout:           30 * time.Second,
		Design:            DesignFull,
		Fraction:          0.5,
		OutputDir:         DefaultResultsDir,
		Tracing:           TracingConfig{SampleRate: 1.0},
	}
}

func (c MatrixConfig) Validate() error {
	var issues []string

	if len(c.Endpoints) == 0 {
		issues = append(issues, "endpoints must list at least one URL")
	}
	for idx, ep := range c.Endpoints {
		if issue := validateHTTPURL(fmt.Sprintf("endpoints[%d]", idx), strings.TrimSpace(ep)); issue != "" {
			issues = append(issues, issue)
		}
	}

	if len(c.RequestTypes) == 0 {
		issues = append(issues, "request_types must list at least one method")
	}
	for idx, rt := range c.RequestTypes {
		switch strings.ToUpper(rt) {
		case "GET", "POST":
		default:
			issues = append(issues, fmt.Sprintf("request_types[%d] must be GET or POST, got %q", idx, rt))
		}
	}

	if len(c.PayloadSizes) == 0 {
		issues = append(issues, "payload_sizes must list at least one size")
	}
	for idx, size := range c.PayloadSizes {
		if size < 0 {
			issues = append(issues, fmt.Sprintf("payload_sizes[%d] must be >= 0", idx))
		}
	}

	if len(c.ConcurrencyLevels) == 0 {
		issues = append(issues, "concurrency_levels must list at least one level")
	}
	for idx, level := range c.ConcurrencyLevels {
		if level < 1 {
			issues = append(issues, fmt.Sprintf("concurrency_levels[%d] must be >= 1", idx))
		}
	}

	if c.RequestsPerWorker < 1 {
		issues = append(issues, "requests_per_worker must be >= 1")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}

	switch c.Design {
	case DesignFull:
	case DesignFractional:
		if c.Fraction < 0 || c.Fraction > 1 {
			issues = append(issues, fmt.Sprintf("fraction must be between 0 and 1, got %g", c.Fraction))
		}
	default:
		issues = append(issues, fmt.Sprintf("design must be %q or %q, got %q", DesignFull, DesignFractional, c.Design))
	}

	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
