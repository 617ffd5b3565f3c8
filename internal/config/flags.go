package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tidwall/gjson"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fireworksbench [flags] [target-url]",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

func configureFlags(flags *pflag.FlagSet) {
	// Request shape
	flags.String("target", "", "Target URL to load test (may also be given as a positional argument)")
	flags.String("method", "GET", "HTTP method to use")
	flags.StringSlice("header", nil, "Additional request header in key=value form (repeatable)")
	flags.String("headers-json", "", `Request headers as a JSON object, e.g. '{"Accept":"application/json"}'`)
	flags.String("body", "", "Inline request body payload")
	flags.String("body-file", "", "Path to file containing the request body")

	// Load control
	flags.IntP("concurrency", "c", 10, "Number of concurrent workers")
	flags.Float64P("rate", "r", 0, "Target requests per second across all workers (0 means unlimited)")
	flags.DurationP("duration", "d", 60*time.Second, "How long to run the test (e.g. 30s, 1m)")
	flags.IntP("total", "t", 0, "Total number of requests to send (0 means unlimited)")
	flags.Duration("timeout", 30*time.Second, "Per-attempt timeout")
	flags.Int("retries", 0, "Number of retries per request on transport errors and timeouts")
	flags.String("pacing-model", PacingSpaced, "Pacing model: 'spaced', 'poisson', or 'bucket'")
	flags.Int("window-size", 10000, "Raw latency samples retained per status class (0=unbounded)")

	// Output
	flags.String("format", FormatText, "Report format: 'text', 'json', or 'yaml'")
	flags.StringP("output", "o", "", "Append the report to this file in addition to stdout")
	flags.String("log-file", "", "Append run lifecycle logs to this file")
	flags.Bool("log-errors", false, "Log each failed request to stderr")
	flags.BoolP("quiet", "q", false, "Suppress the live progress line")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")
}

func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values on top of config-file
// settings.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("target") {
		val, err := fs.GetString("target")
		if err != nil {
			return err
		}
		cfg.TargetURL = strings.TrimSpace(val)
	}
	if fs.Changed("method") {
		val, err := fs.GetString("method")
		if err != nil {
			return err
		}
		cfg.Method = val
	}
	if fs.Changed("body") {
		val, err := fs.GetString("body")
		if err != nil {
			return err
		}
		cfg.Body = val
		cfg.BodyFile = ""
	}
	if fs.Changed("body-file") {
		val, err := fs.GetString("body-file")
		if err != nil {
			return err
		}
		cfg.BodyFile = val
		cfg.Body = ""
	}
	if fs.Changed("concurrency") {
		val, err := fs.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = val
	}
	if fs.Changed("rate") {
		val, err := fs.GetFloat64("rate")
		if err != nil {
			return err
		}
		cfg.Rate = val
	}
	if fs.Changed("duration") {
		val, err := fs.GetDuration("duration")
		if err != nil {
			return err
		}
		cfg.Duration = val
	}
	if fs.Changed("total") {
		val, err := fs.GetInt("total")
		if err != nil {
			return err
		}
		cfg.Total = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("retries") {
		val, err := fs.GetInt("retries")
		if err != nil {
			return err
		}
		cfg.Retries = val
	}
	if fs.Changed("pacing-model") {
		val, err := fs.GetString("pacing-model")
		if err != nil {
			return err
		}
		cfg.PacingModel = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("window-size") {
		val, err := fs.GetInt("window-size")
		if err != nil {
			return err
		}
		cfg.WindowSize = val
	}
	if fs.Changed("format") {
		val, err := fs.GetString("format")
		if err != nil {
			return err
		}
		cfg.Format = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("output") {
		val, err := fs.GetString("output")
		if err != nil {
			return err
		}
		cfg.OutputFile = strings.TrimSpace(val)
	}
	if fs.Changed("log-file") {
		val, err := fs.GetString("log-file")
		if err != nil {
			return err
		}
		cfg.LogFile = strings.TrimSpace(val)
	}
	if fs.Changed("log-errors") {
		val, err := fs.GetBool("log-errors")
		if err != nil {
			return err
		}
		cfg.LogErrors = val
	}
	if fs.Changed("quiet") {
		val, err := fs.GetBool("quiet")
		if err != nil {
			return err
		}
		cfg.Quiet = val
	}

	vals, err := fs.GetStringSlice("header")
	if err != nil {
		return err
	}
	if len(vals) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = map[string]string{}
		}
		for _, entry := range vals {
			parts := strings.SplitN(entry, "=", 2)
			if len(parts) != 2 {
				return fmt.Errorf("header must be in key=value format: %s", entry)
			}
			key := http.CanonicalHeaderKey(strings.TrimSpace(parts[0]))
			if key == "" {
				return fmt.Errorf("header key cannot be empty")
			}
			cfg.Headers[key] = strings.TrimSpace(parts[1])
		}
	}

	if fs.Changed("headers-json") {
		val, err := fs.GetString("headers-json")
		if err != nil {
			return err
		}
		if err := applyJSONHeaders(cfg, val); err != nil {
			return err
		}
	}

	return nil
}

// applyJSONHeaders merges a JSON object of headers into the config.
func applyJSONHeaders(cfg *Config, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if !gjson.Valid(raw) {
		return fmt.Errorf("headers-json is not valid JSON: %s", raw)
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return fmt.Errorf("headers-json must be a JSON object, got: %s", raw)
	}
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
	var iterErr error
	parsed.ForEach(func(key, value gjson.Result) bool {
		canonical := http.CanonicalHeaderKey(strings.TrimSpace(key.String()))
		if canonical == "" {
			iterErr = fmt.Errorf("headers-json contains an empty header key")
			return false
		}
		cfg.Headers[canonical] = value.String()
		return true
	})
	return iterErr
}
