package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/torosent/loadbench/internal/metrics"
)

type recordingLogger struct {
	mu       sync.Mutex
	failures []metrics.Outcome
}

func (r *recordingLogger) LogFailure(o metrics.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, o)
}

func TestWithLoggingOnlyLogsFailures(t *testing.T) {
	outcomes := []metrics.Outcome{
		{Kind: metrics.OutcomeSuccess, StatusCode: 200},
		{Kind: metrics.OutcomeFailure, StatusCode: 500},
		{Kind: metrics.OutcomeCreation, StatusCode: 201},
		{Kind: metrics.OutcomeTransportError, Err: errors.New("refused")},
	}
	i := 0
	inner := RequesterFunc(func(context.Context) metrics.Outcome {
		o := outcomes[i]
		i++
		return o
	})

	logger := &recordingLogger{}
	req := WithLogging(inner, logger)
	for range outcomes {
		req.Do(context.Background())
	}

	if len(logger.failures) != 2 {
		t.Fatalf("expected 2 logged failures, got %d", len(logger.failures))
	}
}

func TestWithLoggingNilLogger(t *testing.T) {
	inner := RequesterFunc(func(context.Context) metrics.Outcome { return metrics.Outcome{} })
	if got := WithLogging(inner, nil); got == nil {
		t.Fatal("expected inner requester back")
	}
}

func TestSlogFailureLoggerThrottles(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	l := NewSlogFailureLogger(logger, time.Hour)

	for i := 0; i < 20; i++ {
		l.LogFailure(metrics.Outcome{Kind: metrics.OutcomeFailure, StatusCode: 503})
	}

	lines := strings.Count(buf.String(), "request failed")
	if lines != 5 {
		t.Fatalf("expected 5 logged lines, got %d:\n%s", lines, buf.String())
	}
	if !strings.Contains(buf.String(), "status=503") {
		t.Errorf("expected status attribute in output: %s", buf.String())
	}
	if got := l.suppressed.Load(); got != 15 {
		t.Errorf("expected 15 suppressed, got %d", got)
	}
}
