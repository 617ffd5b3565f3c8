package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help.
var ErrHelpRequested = errors.New("help requested")

func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and an optional config file into a
// Config. Precedence: defaults < config file < flags. The target URL may be
// supplied either with --target or as the first positional argument.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	if len(args) == 0 && configPath == "" {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}

	cfg := defaults()
	cfg.ConfigFile = configPath

	if configPath != "" {
		fileViper := viper.New()
		fileViper.SetConfigFile(configPath)
		if err := fileViper.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := fileViper.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	if cfg.TargetURL == "" {
		if rest := flagSet.Args(); len(rest) > 0 {
			cfg.TargetURL = strings.TrimSpace(rest[0])
		}
	}

	cfg.Method = strings.ToUpper(strings.TrimSpace(cfg.Method))
	cfg.TargetURL = strings.TrimSpace(cfg.TargetURL)
	cfg.BodyFile = strings.TrimSpace(cfg.BodyFile)

	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
	canonicalizeHeaders(cfg)

	if err := resolveBodyFile(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// canonicalizeHeaders normalizes header keys from any source (file or flag)
// to their canonical MIME form.
func canonicalizeHeaders(cfg *Config) {
	if len(cfg.Headers) == 0 {
		return
	}
	canonical := make(map[string]string, len(cfg.Headers))
	for key, value := range cfg.Headers {
		canonical[http.CanonicalHeaderKey(strings.TrimSpace(key))] = value
	}
	cfg.Headers = canonical
}

// resolveBodyFile reads the body file into Body so the rest of the program
// only ever deals with in-memory payloads.
func resolveBodyFile(cfg *Config) error {
	if cfg.BodyFile == "" {
		return nil
	}
	data, err := os.ReadFile(cfg.BodyFile)
	if err != nil {
		return fmt.Errorf("read body file: %w", err)
	}
	cfg.Body = string(data)
	return nil
}
