// Package tracing emits OpenTelemetry spans for loadbench runs: one span per
// command invocation, one per matrix entry and one per HTTP request, all
// tagged with the run's ULID.
package tracing

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/torosent/loadbench/internal/config"
)

const (
	instrumentationName = "github.com/torosent/loadbench"
	defaultServiceName  = "loadbench"
)

// Run identifies the command invocation spans belong to.
type Run struct {
	ID      string // ULID shared with log lines and reports
	Command string // "bench" or "matrix"
}

func (r Run) attributes() []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if r.ID != "" {
		attrs = append(attrs, RunIDKey.String(r.ID))
	}
	if r.Command != "" {
		attrs = append(attrs, CommandKey.String(r.Command))
	}
	return attrs
}

// Provider hands out spans for one run. The zero value and a nil *Provider
// produce no-op spans.
type Provider struct {
	sdk        *sdktrace.TracerProvider
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	propagate  bool
	run        Run
}

func newPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
}

// Init builds an OTLP-exporting provider for run. Without an endpoint (flag,
// config or OTEL_EXPORTER_OTLP_ENDPOINT) it returns a no-op provider.
func Init(ctx context.Context, cfg config.TracingConfig, run Run) (*Provider, error) {
	if !cfg.Enabled() {
		return &Provider{run: run}, nil
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	sampler, err := newSampler(cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	exporter, err := newExporter(ctx, cfg, endpoint)
	if err != nil {
		return nil, fmt.Errorf("tracing exporter: %w", err)
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName(cfg))),
		resource.WithAttributes(run.attributes()...),
	)
	if err != nil {
		return nil, fmt.Errorf("tracing resource: %w", err)
	}

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
	)
	prop := newPropagator()
	otel.SetTracerProvider(sdk)
	otel.SetTextMapPropagator(prop)

	return &Provider{
		sdk:        sdk,
		tracer:     sdk.Tracer(instrumentationName),
		propagator: prop,
		propagate:  cfg.ShouldPropagate(),
		run:        run,
	}, nil
}

// NewProvider tags spans from an existing TracerProvider with run.
func NewProvider(tp trace.TracerProvider, run Run, propagate bool) *Provider {
	return &Provider{
		tracer:     tp.Tracer(instrumentationName),
		propagator: newPropagator(),
		propagate:  propagate,
		run:        run,
	}
}

// Run returns the run the provider was built for.
func (p *Provider) Run() Run {
	if p == nil {
		return Run{}
	}
	return p.run
}

// Tracer returns the run's tracer, or a no-op tracer when tracing is off.
func (p *Provider) Tracer() trace.Tracer {
	if p == nil || p.tracer == nil {
		return noop.NewTracerProvider().Tracer(instrumentationName)
	}
	return p.tracer
}

// ShouldPropagate reports whether W3C trace headers go on outgoing requests.
func (p *Provider) ShouldPropagate() bool {
	return p != nil && p.tracer != nil && p.propagate
}

// Shutdown flushes spans still buffered by the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

func serviceName(cfg config.TracingConfig) string {
	if cfg.ServiceName != "" {
		return cfg.ServiceName
	}
	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		return name
	}
	return defaultServiceName
}

func newSampler(rate float64) (sdktrace.Sampler, error) {
	switch {
	case rate < 0 || rate > 1:
		return nil, fmt.Errorf("tracing sample_rate must be between 0.0 and 1.0, got %g", rate)
	case rate == 0:
		return sdktrace.NeverSample(), nil
	case rate == 1:
		return sdktrace.AlwaysSample(), nil
	default:
		return sdktrace.TraceIDRatioBased(rate), nil
	}
}

func newExporter(ctx context.Context, cfg config.TracingConfig, endpoint string) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(cfg.Protocol) {
	case "", "grpc":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
		if cfg.Insecure {
			opts = append(opts,
				otlptracegrpc.WithInsecure(),
				otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			)
		}
		return otlptracegrpc.New(ctx, opts...)
	case "http":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q: use \"grpc\" or \"http\"", cfg.Protocol)
	}
}
