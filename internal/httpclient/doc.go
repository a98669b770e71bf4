// Package httpclient builds and executes the HTTP requests a benchmark sends.
//
// # Request Building
//
// [NewRequestBuilder] targets base_url/path from a bench configuration;
// [NewEndpointBuilder] targets a fully qualified endpoint URL, as used by the
// test matrix:
//
//	builder, err := httpclient.NewEndpointBuilder("POST", endpoint, headers, httpclient.NewPayloadSource(512))
//
// GET requests never carry a body. POST bodies come from an inline string, a
// file, or a generated payload of a given size.
//
// # Execution
//
// [Executor] implements [runner.Executor]. Each call sends one request and
// measures the time from just before the send until the response body has
// been drained, so the latency includes body reception. Any failure before a
// complete response is available is reported as a transport error:
//
//	exec := httpclient.NewExecutor(httpclient.NewClient(30*time.Second), builder, nil)
//	attempt := exec.Execute(ctx)
//
// The client timeout bounds every request; an expired request is a transport
// error like any other.
package httpclient
