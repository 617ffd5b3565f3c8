package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fireworksbench/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{"http://example.com"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TargetURL != "http://example.com" {
		t.Errorf("target = %q, want positional URL", cfg.TargetURL)
	}
	if cfg.Method != "GET" {
		t.Errorf("method = %q, want GET", cfg.Method)
	}
	if cfg.Concurrency != 10 {
		t.Errorf("concurrency = %d, want 10", cfg.Concurrency)
	}
	if cfg.Duration != 60*time.Second {
		t.Errorf("duration = %s, want 60s", cfg.Duration)
	}
	if cfg.Rate != 0 {
		t.Errorf("rate = %f, want 0 (unlimited)", cfg.Rate)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("timeout = %s, want 30s", cfg.Timeout)
	}
	if cfg.PacingModel != config.PacingSpaced {
		t.Errorf("pacing model = %q, want spaced", cfg.PacingModel)
	}
	if cfg.WindowSize != 10000 {
		t.Errorf("window size = %d, want 10000", cfg.WindowSize)
	}
	if cfg.Format != config.FormatText {
		t.Errorf("format = %q, want text", cfg.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFlags(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{
		"--target", "https://api.example.com/v1",
		"--method", "post",
		"-c", "32",
		"-r", "250.5",
		"-d", "90s",
		"-t", "1000",
		"--timeout", "5s",
		"--retries", "3",
		"--pacing-model", "poisson",
		"--format", "json",
		"--header", "X-Token=abc",
		"--header", "accept=application/json",
		"--body", `{"k":"v"}`,
		"--quiet",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TargetURL != "https://api.example.com/v1" {
		t.Errorf("target = %q", cfg.TargetURL)
	}
	if cfg.Method != "POST" {
		t.Errorf("method = %q, want POST (normalized)", cfg.Method)
	}
	if cfg.Concurrency != 32 || cfg.Rate != 250.5 || cfg.Total != 1000 || cfg.Retries != 3 {
		t.Errorf("load control flags not applied: %+v", cfg)
	}
	if cfg.Duration != 90*time.Second || cfg.Timeout != 5*time.Second {
		t.Errorf("durations not applied: %s / %s", cfg.Duration, cfg.Timeout)
	}
	if cfg.PacingModel != config.PacingPoisson || cfg.Format != config.FormatJSON || !cfg.Quiet {
		t.Errorf("model/format/quiet not applied: %+v", cfg)
	}
	if cfg.Headers["X-Token"] != "abc" {
		t.Errorf("X-Token header = %q", cfg.Headers["X-Token"])
	}
	if cfg.Headers["Accept"] != "application/json" {
		t.Errorf("Accept header not canonicalized: %v", cfg.Headers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config should validate: %v", err)
	}
}

func TestLoadJSONHeaders(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{
		"http://example.com",
		"--headers-json", `{"authorization":"Bearer tok","X-Trace-Id":"42"}`,
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Headers["Authorization"] != "Bearer tok" {
		t.Errorf("Authorization = %q", cfg.Headers["Authorization"])
	}
	if cfg.Headers["X-Trace-Id"] != "42" {
		t.Errorf("X-Trace-Id = %q", cfg.Headers["X-Trace-Id"])
	}

	if _, err := config.NewLoader().Load([]string{"http://example.com", "--headers-json", "not json"}); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := config.NewLoader().Load([]string{"http://example.com", "--headers-json", `["a"]`}); err == nil {
		t.Error("expected error for non-object JSON")
	}
}

func TestLoadConfigFileWithFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	content := strings.Join([]string{
		"target: http://file.example.com",
		"method: delete",
		"rate: 25",
		"duration: 2s",
		"concurrency: 3",
		"headers:",
		"  x-source: file",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path, "-r", "50"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TargetURL != "http://file.example.com" {
		t.Errorf("target = %q, want file value", cfg.TargetURL)
	}
	if cfg.Method != "DELETE" {
		t.Errorf("method = %q, want DELETE", cfg.Method)
	}
	if cfg.Rate != 50 {
		t.Errorf("rate = %f, want flag override 50", cfg.Rate)
	}
	if cfg.Duration != 2*time.Second {
		t.Errorf("duration = %s, want 2s from file", cfg.Duration)
	}
	if cfg.Concurrency != 3 {
		t.Errorf("concurrency = %d, want 3 from file", cfg.Concurrency)
	}
	if cfg.Headers["X-Source"] != "file" {
		t.Errorf("file headers not canonicalized: %v", cfg.Headers)
	}
}

func TestLoadBodyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "body.json")
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0o644); err != nil {
		t.Fatalf("write body file: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"http://example.com", "--body-file", path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Body != `{"from":"file"}` {
		t.Errorf("body = %q, want file contents", cfg.Body)
	}

	if _, err := config.NewLoader().Load([]string{"http://example.com", "--body-file", filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected error for missing body file")
	}
}

func TestLoadHelp(t *testing.T) {
	if _, err := config.NewLoader().Load(nil); !errors.Is(err, config.ErrHelpRequested) {
		t.Errorf("no args: err = %v, want help requested", err)
	}
	if _, err := config.NewLoader().Load([]string{"--help"}); !errors.Is(err, config.ErrHelpRequested) {
		t.Errorf("--help: err = %v, want help requested", err)
	}
}
