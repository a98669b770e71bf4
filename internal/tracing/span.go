package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	RunIDKey       = attribute.Key("loadbench.run.id")
	CommandKey     = attribute.Key("loadbench.command")
	EntryIndexKey  = attribute.Key("loadbench.matrix.entry")
	PayloadSizeKey = attribute.Key("loadbench.payload.size")
	ConcurrencyKey = attribute.Key("loadbench.concurrency")
	CreationsKey   = attribute.Key("loadbench.creations")
	FailuresKey    = attribute.Key("loadbench.failures")
	ErrorsKey      = attribute.Key("loadbench.transport_errors")
	MethodKey      = attribute.Key("http.request.method")
	URLKey         = attribute.Key("url.full")
	StatusCodeKey  = attribute.Key("http.response.status_code")
)

// StartRun starts the root span of a bench or matrix invocation.
func (p *Provider) StartRun(ctx context.Context) (context.Context, trace.Span) {
	name := "loadbench"
	if cmd := p.Run().Command; cmd != "" {
		name += " " + cmd
	}
	return p.Tracer().Start(ctx, name, trace.WithAttributes(p.Run().attributes()...))
}

// StartEntry starts the span covering one matrix entry. index is 1-based.
func (p *Provider) StartEntry(ctx context.Context, index int, method, endpoint string, payloadSize, concurrency int) (context.Context, trace.Span) {
	attrs := append(p.Run().attributes(),
		EntryIndexKey.Int(index),
		MethodKey.String(method),
		URLKey.String(endpoint),
		PayloadSizeKey.Int(payloadSize),
		ConcurrencyKey.Int(concurrency),
	)
	return p.Tracer().Start(ctx, "matrix entry", trace.WithAttributes(attrs...))
}

// EndEntry records an entry's counters and ends its span.
func EndEntry(span trace.Span, creations, failures, transportErrors int64) {
	EndSpan(span, nil,
		CreationsKey.Int64(creations),
		FailuresKey.Int64(failures),
		ErrorsKey.Int64(transportErrors),
	)
}

// StartRequest starts a client span for one HTTP request.
func (p *Provider) StartRequest(ctx context.Context, method, target string) (context.Context, trace.Span) {
	attrs := append(p.Run().attributes(), MethodKey.String(method))
	if target != "" {
		attrs = append(attrs, URLKey.String(target))
	}
	return p.Tracer().Start(ctx, "HTTP "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// Inject writes the W3C trace context of ctx into headers when propagation
// is on.
func (p *Provider) Inject(ctx context.Context, headers http.Header) {
	if !p.ShouldPropagate() || p.propagator == nil {
		return
	}
	p.propagator.Inject(ctx, propagation.HeaderCarrier(headers))
}

// EndSpan sets attrs, records err if any and ends span.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
