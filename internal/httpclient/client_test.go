package httpclient

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/torosent/loadbench/internal/config"
)

func TestBuildRequestWithHeaders(t *testing.T) {
	cfg := &config.Config{
		Method:  "post",
		BaseURL: "http://example.com/",
		Path:    "/api",
		Headers: map[string]string{
			"content-type": "application/json",
			"X-Trace-Id":   "12345",
		},
		Body: `{"hello":"world"}`,
	}

	builder, err := NewRequestBuilder(cfg)
	if err != nil {
		t.Fatalf("expected builder, got error: %v", err)
	}

	req, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("expected request, got error: %v", err)
	}

	if req.Method != http.MethodPost {
		t.Fatalf("expected method POST, got %s", req.Method)
	}
	if req.URL.String() != "http://example.com/api" {
		t.Fatalf("expected URL http://example.com/api, got %s", req.URL.String())
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("expected canonical Content-Type header, got %q", req.Header.Get("Content-Type"))
	}
	if req.Header.Get("X-Trace-Id") != "12345" {
		t.Fatalf("expected X-Trace-Id header, got %q", req.Header.Get("X-Trace-Id"))
	}

	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	_ = req.Body.Close()
	if string(bodyBytes) != cfg.Body {
		t.Fatalf("expected body %q, got %q", cfg.Body, string(bodyBytes))
	}
	if req.ContentLength != int64(len(cfg.Body)) {
		t.Fatalf("expected content length %d, got %d", len(cfg.Body), req.ContentLength)
	}

	if req.GetBody == nil {
		t.Fatalf("expected request to support body replay")
	}
	replay, err := req.GetBody()
	if err != nil {
		t.Fatalf("expected replay body, got error: %v", err)
	}
	replayBytes, _ := io.ReadAll(replay)
	_ = replay.Close()
	if string(replayBytes) != cfg.Body {
		t.Fatalf("expected replay body %q, got %q", cfg.Body, string(replayBytes))
	}
}

func TestBuildGetIgnoresBody(t *testing.T) {
	builder, err := NewEndpointBuilder("get", "http://example.com/items", nil, NewPayloadSource(64))
	if err != nil {
		t.Fatalf("NewEndpointBuilder error = %v", err)
	}
	req, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}
	if req.Method != http.MethodGet {
		t.Fatalf("expected GET, got %s", req.Method)
	}
	if req.Body != http.NoBody || req.ContentLength != 0 {
		t.Fatalf("expected no body for GET, got length %d", req.ContentLength)
	}
}

func TestNewEndpointBuilderValidation(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		headers map[string]string
	}{
		{name: "empty target", target: "  "},
		{name: "empty header key", target: "http://example.com", headers: map[string]string{"": "value"}},
		{name: "header key with newline", target: "http://example.com", headers: map[string]string{"Bad\nKey": "value"}},
		{name: "header value with CR", target: "http://example.com", headers: map[string]string{"X-Test": "bad\rvalue"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEndpointBuilder("GET", tt.target, tt.headers, nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRequestBuilderMethodFallback(t *testing.T) {
	builder, err := NewRequestBuilder(&config.Config{BaseURL: "http://example.com"})
	if err != nil {
		t.Fatalf("NewRequestBuilder error = %v", err)
	}
	if builder.Method() != http.MethodGet {
		t.Fatalf("expected method GET, got %s", builder.Method())
	}
	if builder.Target() != "http://example.com" {
		t.Fatalf("expected target http://example.com, got %s", builder.Target())
	}
}

func TestBuildHeadersAreIsolatedPerRequest(t *testing.T) {
	builder, err := NewEndpointBuilder("GET", "http://example.com", map[string]string{"X-Run": "a"}, nil)
	if err != nil {
		t.Fatalf("NewEndpointBuilder error = %v", err)
	}
	first, _ := builder.Build(context.Background())
	first.Header.Set("X-Run", "mutated")

	second, _ := builder.Build(context.Background())
	if got := second.Header.Get("X-Run"); got != "a" {
		t.Fatalf("expected header a, got %q", got)
	}
}

func TestNewClientTimeout(t *testing.T) {
	client := NewClient(2 * time.Second)
	if client.Timeout != 2*time.Second {
		t.Fatalf("expected timeout 2s, got %s", client.Timeout)
	}
	if NewClient(-time.Second).Timeout != 0 {
		t.Fatal("expected negative timeout to be clamped to zero")
	}
	if _, ok := client.Transport.(*http.Transport); !ok {
		t.Fatalf("expected *http.Transport, got %T", client.Transport)
	}
}

func TestBuildLongHeaderValue(t *testing.T) {
	long := strings.Repeat("a", 2048)
	builder, err := NewEndpointBuilder("GET", "http://example.com", map[string]string{"X-Long": long}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}
	if req.Header.Get("X-Long") != long {
		t.Fatal("long header value was not preserved")
	}
}
