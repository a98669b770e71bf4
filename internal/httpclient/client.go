package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/torosent/loadbench/internal/config"
)

type RequestBuilder struct {
	method  string
	target  string
	headers http.Header
	body    BodySource
}

// NewRequestBuilder builds requests against base_url/path from a bench config.
func NewRequestBuilder(cfg *config.Config) (*RequestBuilder, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	bodySource, err := NewBodySource(cfg)
	if err != nil {
		return nil, err
	}
	return NewEndpointBuilder(cfg.Method, cfg.TargetURL(), cfg.Headers, bodySource)
}

// NewEndpointBuilder builds requests against a fully qualified endpoint URL.
func NewEndpointBuilder(method, target string, hdrs map[string]string, body BodySource) (*RequestBuilder, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, errors.New("target URL is required")
	}

	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	if body == nil {
		body = emptyBodySource{}
	}

	headers := http.Header{}
	for key, value := range hdrs {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			return nil, fmt.Errorf("invalid header key %q", key)
		}
		if strings.ContainsAny(trimmedKey, "\r\n") {
			return nil, fmt.Errorf("invalid header key %q", key)
		}
		canonicalKey := http.CanonicalHeaderKey(trimmedKey)

		if strings.ContainsAny(value, "\r\n") {
			return nil, fmt.Errorf("invalid header value for %s", canonicalKey)
		}

		headers.Set(canonicalKey, value)
	}

	return &RequestBuilder{
		method:  method,
		target:  target,
		headers: headers,
		body:    body,
	}, nil
}

// Method returns the HTTP method requests are built with.
func (b *RequestBuilder) Method() string { return b.method }

// Target returns the request URL.
func (b *RequestBuilder) Target() string { return b.target }

func (b *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	if b == nil {
		return nil, errors.New("builder cannot be nil")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.ReadCloser = http.NoBody
	if b.method != http.MethodGet && b.method != http.MethodHead {
		r, err := b.body.NewReader()
		if err != nil {
			return nil, err
		}
		reader = r
	}

	req, err := http.NewRequestWithContext(ctx, b.method, b.target, reader)
	if err != nil {
		_ = reader.Close()
		return nil, err
	}

	req.Header = b.headers.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}

	if reader != http.NoBody {
		if length, ok := b.body.ContentLength(); ok {
			req.ContentLength = length
		}
		req.GetBody = func() (io.ReadCloser, error) {
			return b.body.NewReader()
		}
	}

	return req, nil
}

// NewClient returns a client tuned for load generation. timeout bounds each
// request including reading the response body; zero disables it.
func NewClient(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = 0
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          256,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
