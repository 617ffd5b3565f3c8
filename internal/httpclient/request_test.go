package httpclient_test

import (
	"context"
	"io"
	"testing"

	"fireworksbench/internal/config"
	"fireworksbench/internal/httpclient"
)

func TestNewRequestBuilderValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  *config.Config
	}{
		{"nil config", nil},
		{"empty target", &config.Config{}},
		{"bad scheme", &config.Config{TargetURL: "ftp://example.com"}},
		{"no host", &config.Config{TargetURL: "http://"}},
		{"unparseable", &config.Config{TargetURL: "http://exa mple.com"}},
		{"bad method", &config.Config{TargetURL: "http://example.com", Method: "GE T"}},
		{"bad header key", &config.Config{TargetURL: "http://example.com", Headers: map[string]string{"X-Bad\r\n": "v"}}},
		{"bad header value", &config.Config{TargetURL: "http://example.com", Headers: map[string]string{"X-Ok": "v\r\nInjected: yes"}}},
	}
	for _, tc := range cases {
		if _, err := httpclient.NewRequestBuilder(tc.cfg); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestBuildRequest(t *testing.T) {
	cfg := &config.Config{
		TargetURL: "http://example.com/path",
		Method:    "post",
		Headers:   map[string]string{"x-run": "bench", "Content-Type": "application/json"},
		Body:      `{"hello":"world"}`,
	}
	builder, err := httpclient.NewRequestBuilder(cfg)
	if err != nil {
		t.Fatalf("new request builder: %v", err)
	}

	req, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if req.Method != "POST" {
		t.Errorf("method = %q, want POST (normalized)", req.Method)
	}
	if got := req.Header.Get("X-Run"); got != "bench" {
		t.Errorf("X-Run header = %q, want bench", got)
	}
	if req.ContentLength != int64(len(cfg.Body)) {
		t.Errorf("content length = %d, want %d", req.ContentLength, len(cfg.Body))
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != cfg.Body {
		t.Errorf("body = %q, want %q", body, cfg.Body)
	}
}

// TestBuildReturnsIndependentBodies ensures back-to-back attempts don't
// share a body reader.
func TestBuildReturnsIndependentBodies(t *testing.T) {
	builder, err := httpclient.NewRequestBuilder(&config.Config{
		TargetURL: "http://example.com",
		Method:    "PUT",
		Body:      "payload",
	})
	if err != nil {
		t.Fatalf("new request builder: %v", err)
	}

	for i := 0; i < 3; i++ {
		req, err := builder.Build(context.Background())
		if err != nil {
			t.Fatalf("build %d: %v", i, err)
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read body %d: %v", i, err)
		}
		if string(body) != "payload" {
			t.Fatalf("build %d: body = %q, want full payload", i, body)
		}
	}
}

func TestDefaultMethodIsGet(t *testing.T) {
	builder, err := httpclient.NewRequestBuilder(&config.Config{TargetURL: "https://example.com"})
	if err != nil {
		t.Fatalf("new request builder: %v", err)
	}
	req, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if req.Method != "GET" {
		t.Errorf("method = %q, want GET", req.Method)
	}
}
