package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kabalen/tanong/internal/nlu"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" {
			errs = append(errs, errors.New("server.tls.cert_file is required when tls is set"))
		}
		if cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls.key_file is required when tls is set"))
		}
	}

	// Directory
	if cfg.Directory.Driver != "" && !cfg.Directory.Driver.IsValid() {
		errs = append(errs, fmt.Errorf("directory.driver %q is invalid; valid values: sqlite, postgres, mock", cfg.Directory.Driver))
	}
	switch cfg.Directory.Driver {
	case DriverPostgres:
		if cfg.Directory.DSN == "" {
			errs = append(errs, errors.New("directory.dsn is required when driver is postgres"))
		}
	case DriverSQLite:
		if cfg.Directory.Path == "" {
			errs = append(errs, errors.New("directory.path is required when driver is sqlite"))
		}
	case DriverMock:
		slog.Warn("directory.driver is mock; lookups will serve canned data")
	}

	// Lexicon
	if cfg.Lexicon.Watch && cfg.Lexicon.OverlayPath == "" {
		errs = append(errs, errors.New("lexicon.watch requires lexicon.overlay_path"))
	}
	if cfg.Lexicon.PollInterval < 0 {
		errs = append(errs, fmt.Errorf("lexicon.poll_interval %s must not be negative", cfg.Lexicon.PollInterval))
	}
	if cfg.Lexicon.PollInterval > 0 && cfg.Lexicon.PollInterval < 100*time.Millisecond {
		slog.Warn("lexicon.poll_interval is very short; overlay hashing will burn CPU",
			"interval", cfg.Lexicon.PollInterval)
	}

	// Pipeline thresholds: zero means default, otherwise (0, 1].
	for _, th := range []struct {
		name string
		val  float64
	}{
		{"pipeline.fuzzy_threshold", cfg.Pipeline.FuzzyThreshold},
		{"pipeline.word_similarity", cfg.Pipeline.WordSimilarity},
		{"pipeline.overlap_ratio", cfg.Pipeline.OverlapRatio},
		{"pipeline.unknown_cutoff", cfg.Pipeline.UnknownCutoff},
	} {
		if th.val < 0 || th.val > 1 {
			errs = append(errs, fmt.Errorf("%s %.3f is out of range (0, 1]", th.name, th.val))
		}
	}

	// Session
	if cfg.Session.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("session.idle_timeout %s must not be negative", cfg.Session.IdleTimeout))
	}

	return errors.Join(errs...)
}

// Thresholds overlays the configured scoring thresholds on the built-in
// defaults and returns the result. Zero fields keep their default.
func (p PipelineConfig) Thresholds() nlu.Thresholds {
	th := nlu.DefaultThresholds()
	if p.FuzzyThreshold > 0 {
		th.FuzzyContain = p.FuzzyThreshold
	}
	if p.WordSimilarity > 0 {
		th.WordSimilarity = p.WordSimilarity
	}
	if p.OverlapRatio > 0 {
		th.OverlapRatio = p.OverlapRatio
	}
	if p.UnknownCutoff > 0 {
		th.UnknownCutoff = p.UnknownCutoff
	}
	return th
}
