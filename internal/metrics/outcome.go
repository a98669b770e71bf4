package metrics

import "time"

// OutcomeKind classifies one request attempt.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeCompleted
	OutcomeCreation
	OutcomeFailure
	OutcomeTransportError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeCompleted:
		return "completed"
	case OutcomeCreation:
		return "creation"
	case OutcomeFailure:
		return "failure"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of a single request attempt.
type Outcome struct {
	Kind       OutcomeKind
	Latency    time.Duration // only meaningful for OutcomeSuccess
	StatusCode int           // zero for transport errors
	Err        error         // set for transport errors
}

// Failed reports whether the attempt counts against the run.
func (o Outcome) Failed() bool {
	return o.Kind == OutcomeFailure || o.Kind == OutcomeTransportError
}
