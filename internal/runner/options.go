package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/torosent/loadbench/internal/metrics"
)

// Attempt describes what happened on the wire for one request.
type Attempt struct {
	Method     string
	StatusCode int
	Latency    time.Duration
	Err        error // transport-level failure; no response was received
}

// Executor performs exactly one request attempt.
type Executor interface {
	Execute(ctx context.Context) Attempt
}

// Classifier maps an attempt to an outcome.
type Classifier interface {
	Classify(a Attempt) metrics.Outcome
}

// Requester abstracts executing and classifying a single request.
type Requester interface {
	Do(ctx context.Context) metrics.Outcome
}

// RequesterFunc adapts a function to the Requester interface.
type RequesterFunc func(ctx context.Context) metrics.Outcome

func (f RequesterFunc) Do(ctx context.Context) metrics.Outcome { return f(ctx) }

// NewRequester pairs an executor with a classification strategy.
func NewRequester(exec Executor, classifier Classifier) Requester {
	return RequesterFunc(func(ctx context.Context) metrics.Outcome {
		return classifier.Classify(exec.Execute(ctx))
	})
}

// RemainderPolicy decides what happens to total % concurrency requests.
type RemainderPolicy string

const (
	RemainderDrop       RemainderPolicy = "drop"
	RemainderDistribute RemainderPolicy = "distribute"
)

// ParseRemainderPolicy accepts "drop", "distribute" or an empty string (drop).
func ParseRemainderPolicy(s string) (RemainderPolicy, error) {
	switch RemainderPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RemainderDrop:
		return RemainderDrop, nil
	case RemainderDistribute:
		return RemainderDistribute, nil
	default:
		return "", fmt.Errorf("unknown remainder policy %q (use drop or distribute)", s)
	}
}

// Options configure the Runner.
type Options struct {
	Concurrency   int             // number of worker goroutines
	TotalRequests int             // request budget for the whole run
	Remainder     RemainderPolicy // handling of total % concurrency
	Requester     Requester       // request executor (required)
}

func (o *Options) normalize() {
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.TotalRequests < 0 {
		o.TotalRequests = 0
	}
	if o.Remainder == "" {
		o.Remainder = RemainderDrop
	}
}

// Shares returns the number of requests each worker executes.
func Shares(total, concurrency int, policy RemainderPolicy) []int {
	if concurrency <= 0 {
		concurrency = 1
	}
	if total < 0 {
		total = 0
	}
	per := total / concurrency
	rem := total % concurrency

	shares := make([]int, concurrency)
	for i := range shares {
		shares[i] = per
		if policy == RemainderDistribute && i < rem {
			shares[i]++
		}
	}
	return shares
}
