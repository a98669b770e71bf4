package runner

import (
	"net/http"
	"strings"

	"github.com/torosent/loadbench/internal/metrics"
)

// LatencyClassifier times every received response regardless of status.
type LatencyClassifier struct{}

func (LatencyClassifier) Classify(a Attempt) metrics.Outcome {
	if a.Err != nil {
		return metrics.Outcome{Kind: metrics.OutcomeTransportError, Err: a.Err}
	}
	return metrics.Outcome{
		Kind:       metrics.OutcomeSuccess,
		Latency:    a.Latency,
		StatusCode: a.StatusCode,
	}
}

// ThroughputClassifier counts creations and failures and discards latency.
// POST 201 is a creation, GET 200 is a completion, everything else fails.
type ThroughputClassifier struct{}

func (ThroughputClassifier) Classify(a Attempt) metrics.Outcome {
	if a.Err != nil {
		return metrics.Outcome{Kind: metrics.OutcomeTransportError, Err: a.Err}
	}
	out := metrics.Outcome{Kind: metrics.OutcomeFailure, StatusCode: a.StatusCode}
	switch strings.ToUpper(a.Method) {
	case http.MethodPost:
		if a.StatusCode == http.StatusCreated {
			out.Kind = metrics.OutcomeCreation
		}
	case http.MethodGet, "":
		if a.StatusCode == http.StatusOK {
			out.Kind = metrics.OutcomeCompleted
		}
	}
	return out
}
