package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/torosent/loadbench/internal/runner"
	"github.com/torosent/loadbench/internal/tracing"
)

// Executor performs one HTTP request per call and times it.
type Executor struct {
	client  *http.Client
	builder *RequestBuilder
	tracing *tracing.Provider
}

// NewExecutor returns an executor. A nil tracing provider disables spans.
func NewExecutor(client *http.Client, builder *RequestBuilder, tp *tracing.Provider) *Executor {
	if client == nil {
		client = NewClient(30 * time.Second)
	}
	return &Executor{client: client, builder: builder, tracing: tp}
}

// Execute sends the request and measures wall time from just before the send
// until the response body has been fully read and closed.
func (e *Executor) Execute(ctx context.Context) runner.Attempt {
	if ctx == nil {
		ctx = context.Background()
	}
	attempt := runner.Attempt{Method: e.builder.Method()}

	ctx, span := e.tracing.StartRequest(ctx, e.builder.Method(), e.builder.Target())

	req, err := e.builder.Build(ctx)
	if err != nil {
		attempt.Err = fmt.Errorf("build request: %w", err)
		tracing.EndSpan(span, attempt.Err)
		return attempt
	}
	e.tracing.Inject(ctx, req.Header)

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		attempt.Err = err
		tracing.EndSpan(span, err)
		return attempt
	}
	_, readErr := io.Copy(io.Discard, resp.Body)
	closeErr := resp.Body.Close()
	latency := time.Since(start)

	if readErr == nil {
		readErr = closeErr
	}
	if readErr != nil {
		attempt.Err = fmt.Errorf("read response body: %w", readErr)
		tracing.EndSpan(span, attempt.Err, tracing.StatusCodeKey.Int(resp.StatusCode))
		return attempt
	}

	attempt.StatusCode = resp.StatusCode
	attempt.Latency = latency
	tracing.EndSpan(span, nil, tracing.StatusCodeKey.Int(resp.StatusCode))
	return attempt
}
