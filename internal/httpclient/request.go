package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"fireworksbench/internal/config"
)

// RequestBuilder constructs the per-attempt *http.Request from an immutable
// run configuration. Construction validates the target URL, method, and
// headers once so that Build stays cheap on the hot path.
type RequestBuilder struct {
	method  string
	target  string
	headers http.Header
	body    []byte
}

func NewRequestBuilder(cfg *config.Config) (*RequestBuilder, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	target := strings.TrimSpace(cfg.TargetURL)
	if target == "" {
		return nil, errors.New("target URL is required")
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("target URL must use http or https, got %q", target)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("target URL has no host: %q", target)
	}

	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	if method == "" {
		method = http.MethodGet
	}
	if !validMethodToken(method) {
		return nil, fmt.Errorf("invalid HTTP method %q", cfg.Method)
	}

	headers := http.Header{}
	for key, value := range cfg.Headers {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" || strings.ContainsAny(trimmedKey, "\r\n") {
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
		body:    append([]byte(nil), cfg.Body...),
	}, nil
}

// Build returns a fresh request bound to ctx. Requests never share body
// readers, so attempts can safely run back to back or concurrently.
func (b *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if len(b.body) > 0 {
		reader = bytes.NewReader(b.body)
	}

	req, err := http.NewRequestWithContext(ctx, b.method, b.target, reader)
	if err != nil {
		return nil, err
	}

	for key, values := range b.headers {
		for _, val := range values {
			req.Header.Add(key, val)
		}
	}

	if len(b.body) > 0 {
		req.ContentLength = int64(len(b.body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b.body)), nil
		}
	}

	return req, nil
}

// validMethodToken reports whether s is a valid HTTP method token per
// RFC 7230 section 3.2.6.
func validMethodToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case strings.ContainsRune("!#$%&'*+-.^_`|~", r):
		default:
			return false
		}
	}
	return true
}
