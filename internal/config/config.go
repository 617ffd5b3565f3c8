package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Pacing model names accepted by the CLI and config file.
const (
	PacingSpaced  = "spaced"
	PacingPoisson = "poisson"
	PacingBucket  = "bucket"
)

// Report format names.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the fully resolved run configuration. It is built once by the
// Loader and read-only for the rest of the run.
type Config struct {
	TargetURL string            `mapstructure:"target" validate:"required,url"`
	Method    string            `mapstructure:"method"`
	Headers   map[string]string `mapstructure:"headers"`
	Body      string            `mapstructure:"body"`
	BodyFile  string            `mapstructure:"body_file"`

	Duration    time.Duration `mapstructure:"duration" validate:"gt=0"`
	Concurrency int           `mapstructure:"concurrency" validate:"gt=0"`
	Rate        float64       `mapstructure:"rate" validate:"gte=0"`
	Total       int           `mapstructure:"total" validate:"gte=0"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Retries     int           `mapstructure:"retries" validate:"gte=0"`
	PacingModel string        `mapstructure:"pacing_model" validate:"oneof=spaced poisson bucket"`
	WindowSize  int           `mapstructure:"window_size" validate:"gte=0"`

	Format     string `mapstructure:"format" validate:"oneof=text json yaml"`
	OutputFile string `mapstructure:"output"`
	LogFile    string `mapstructure:"log_file"`
	LogErrors  bool   `mapstructure:"log_errors"`
	Quiet      bool   `mapstructure:"quiet"`

	ConfigFile string `mapstructure:"-"`
}

// defaults mirrors the documented flag defaults.
func defaults() *Config {
	return &Config{
		Method:      "GET",
		Headers:     map[string]string{},
		Duration:    60 * time.Second,
		Concurrency: 10,
		Timeout:     30 * time.Second,
		PacingModel: PacingSpaced,
		WindowSize:  10000,
		Format:      FormatText,
	}
}

var validate = validator.New()

// ValidationError aggregates every configuration issue found.
type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate checks the configuration before any request is issued. A non-nil
// return is a setup error: the run must never start.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	issues := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, describeFieldError(fe))
	}
	return ValidationError{issues: issues}
}

func describeFieldError(fe validator.FieldError) string {
	name := flagName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", name)
	case "gt":
		return fmt.Sprintf("%s must be positive", name)
	case "gte":
		return fmt.Sprintf("%s must not be negative", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

// flagName maps struct field names to the flag names users typed.
func flagName(field string) string {
	switch field {
	case "TargetURL":
		return "target"
	case "PacingModel":
		return "pacing-model"
	case "WindowSize":
		return "window-size"
	case "OutputFile":
		return "output"
	case "LogFile":
		return "log-file"
	default:
		return strings.ToLower(field)
	}
}
