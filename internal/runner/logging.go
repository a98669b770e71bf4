package runner

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/torosent/loadbench/internal/metrics"
)

// FailureLogger logs failed attempts.
type FailureLogger interface {
	LogFailure(o metrics.Outcome)
}

// loggingRequester wraps a Requester with failure logging.
type loggingRequester struct {
	inner  Requester
	logger FailureLogger
}

// WithLogging wraps a Requester to log failures.
func WithLogging(req Requester, logger FailureLogger) Requester {
	if logger == nil {
		return req
	}
	return &loggingRequester{
		inner:  req,
		logger: logger,
	}
}

func (l *loggingRequester) Do(ctx context.Context) metrics.Outcome {
	out := l.inner.Do(ctx)
	if out.Failed() {
		l.logger.LogFailure(out)
	}
	return out
}

// SlogFailureLogger writes failures to a slog.Logger, throttled so an
// unreachable target logs the first few failures and then at most one line
// per interval.
type SlogFailureLogger struct {
	logger     *slog.Logger
	sometimes  rate.Sometimes
	suppressed atomic.Int64
}

func NewSlogFailureLogger(logger *slog.Logger, interval time.Duration) *SlogFailureLogger {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &SlogFailureLogger{
		logger:    logger,
		sometimes: rate.Sometimes{First: 5, Interval: interval},
	}
}

func (l *SlogFailureLogger) LogFailure(o metrics.Outcome) {
	logged := false
	l.sometimes.Do(func() {
		logged = true
		attrs := []any{
			slog.String("kind", o.Kind.String()),
			slog.Int64("suppressed", l.suppressed.Swap(0)),
		}
		if o.StatusCode > 0 {
			attrs = append(attrs, slog.Int("status", o.StatusCode))
		}
		if o.Err != nil {
			attrs = append(attrs, slog.String("error", o.Err.Error()))
		}
		l.logger.Warn("request failed", attrs...)
	})
	if !logged {
		l.suppressed.Add(1)
	}
}
