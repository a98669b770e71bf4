package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestApplyConfigSettings(t *testing.T) {
	cfg := defaultConfig()
	settings := map[string]interface{}{
		"base_url":    "http://example.com",
		"path":        "items",
		"method":      "POST",
		"concurrency": 10,
		"total":       100,
		"timeout":     "5s",
		"remainder":   "distribute",
		"headers": map[string]interface{}{
			"content-type": "application/json",
		},
		"tracing": map[string]interface{}{
			"endpoint":    "localhost:4317",
			"sample_rate": 0.25,
			"propagate":   false,
		},
	}

	if err := applyConfigSettings(cfg, settings); err != nil {
		t.Fatalf("applyConfigSettings() error = %v", err)
	}

	if cfg.BaseURL != "http://example.com" {
		t.Errorf("BaseURL = %q, want http://example.com", cfg.BaseURL)
	}
	if cfg.Path != "items" {
		t.Errorf("Path = %q, want items", cfg.Path)
	}
	if cfg.Method != "POST" {
		t.Errorf("Method = %q, want POST", cfg.Method)
	}
	if cfg.Concurrency != 10 {
		t.Errorf("Concurrency = %d, want 10", cfg.Concurrency)
	}
	if cfg.Total != 100 {
		t.Errorf("Total = %d, want 100", cfg.Total)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.Remainder != RemainderDistribute {
		t.Errorf("Remainder = %q, want distribute", cfg.Remainder)
	}
	if cfg.Headers["Content-Type"] != "application/json" {
		t.Errorf("Headers[Content-Type] = %q, want application/json", cfg.Headers["Content-Type"])
	}
	if cfg.Tracing.Endpoint != "localhost:4317" {
		t.Errorf("Tracing.Endpoint = %q", cfg.Tracing.Endpoint)
	}
	if cfg.Tracing.SampleRate != 0.25 {
		t.Errorf("Tracing.SampleRate = %v, want 0.25", cfg.Tracing.SampleRate)
	}
	if cfg.Tracing.ShouldPropagate() {
		t.Error("Tracing.ShouldPropagate() = true, want false")
	}
}

func TestApplyMatrixSettings(t *testing.T) {
	cfg := defaultMatrixConfig()
	settings := map[string]interface{}{
		"endpoints":           []interface{}{"http://a.test/items", "http://b.test/items"},
		"request_types":       []interface{}{"GET", "POST"},
		"payload_sizes":       []interface{}{float64(100), float64(1000)},
		"concurrency_levels":  []interface{}{float64(1), float64(10)},
		"requests_per_worker": float64(3),
	}

	if err := applyMatrixSettings(cfg, settings); err != nil {
		t.Fatalf("applyMatrixSettings() error = %v", err)
	}

	if !reflect.DeepEqual(cfg.Endpoints, []string{"http://a.test/items", "http://b.test/items"}) {
		t.Errorf("Endpoints = %v", cfg.Endpoints)
	}
	if !reflect.DeepEqual(cfg.PayloadSizes, []int{100, 1000}) {
		t.Errorf("PayloadSizes = %v", cfg.PayloadSizes)
	}
	if !reflect.DeepEqual(cfg.ConcurrencyLevels, []int{1, 10}) {
		t.Errorf("ConcurrencyLevels = %v", cfg.ConcurrencyLevels)
	}
	if cfg.RequestsPerWorker != 3 {
		t.Errorf("RequestsPerWorker = %d, want 3", cfg.RequestsPerWorker)
	}
	if cfg.Design != DesignFull {
		t.Errorf("Design = %q, want full", cfg.Design)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := defaultConfig()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterBenchFlags(fs)
	RegisterTracingFlags(fs)

	args := []string{
		"--concurrency=5",
		"--method=POST",
		"--header=X-Test=123",
		"--header=Accept=a/b, c/d",
		"--tracing-protocol=HTTP",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if err := applyFlagOverrides(cfg, fs); err != nil {
		t.Fatalf("applyFlagOverrides() error = %v", err)
	}

	if cfg.Concurrency != 5 {
		t.Errorf("Concurrency = %d, want 5", cfg.Concurrency)
	}
	if cfg.Method != "POST" {
		t.Errorf("Method = %q, want POST", cfg.Method)
	}
	if cfg.Headers["X-Test"] != "123" {
		t.Errorf("Headers[X-Test] = %q, want 123", cfg.Headers["X-Test"])
	}
	if cfg.Headers["Accept"] != "a/b, c/d" {
		t.Errorf("Headers[Accept] = %q, want a/b, c/d", cfg.Headers["Accept"])
	}
	if cfg.Tracing.Protocol != "http" {
		t.Errorf("Tracing.Protocol = %q, want http", cfg.Tracing.Protocol)
	}
	if cfg.Total != 0 {
		t.Errorf("Total = %d, want untouched 0", cfg.Total)
	}
}

func TestApplyFlagOverridesRejectsMalformedHeader(t *testing.T) {
	cfg := defaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterBenchFlags(fs)
	if err := fs.Parse([]string{"--header=novalue"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := applyFlagOverrides(cfg, fs); err == nil {
		t.Fatal("expected error for header without '='")
	}
}
