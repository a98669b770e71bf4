package matrix

import (
	"net/http"
	"strings"

	"github.com/torosent/loadbench/internal/httpclient"
	"github.com/torosent/loadbench/internal/runner"
	"github.com/torosent/loadbench/internal/tracing"
)

// HTTPFactory creates throughput-mode HTTP requesters for matrix entries.
type HTTPFactory struct {
	Client  *http.Client
	Headers map[string]string
	Tracing *tracing.Provider
	// FailureLogger, when set, logs failed requests.
	FailureLogger runner.FailureLogger
}

// Requester implements RequesterFactory. POST entries carry a payload of
// PayloadSize bytes whatever the casing of the request type.
func (f HTTPFactory) Requester(entry Entry) (runner.Requester, error) {
	var body httpclient.BodySource
	if strings.EqualFold(entry.RequestType, http.MethodPost) {
		body = httpclient.NewPayloadSource(entry.PayloadSize)
	}
	builder, err := httpclient.NewEndpointBuilder(entry.RequestType, entry.Endpoint, f.Headers, body)
	if err != nil {
		return nil, err
	}
	exec := httpclient.NewExecutor(f.Client, builder, f.Tracing)
	return runner.WithLogging(runner.NewRequester(exec, runner.ThroughputClassifier{}), f.FailureLogger), nil
}
