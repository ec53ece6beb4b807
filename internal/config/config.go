// Package config provides the configuration schema and loader for the
// Tanong campus assistant server.
package config

import "time"

// LogLevel controls log verbosity for the Tanong server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Driver selects the campus directory backend.
type Driver string

const (
	// DriverSQLite stores the directory in a local SQLite file.
	DriverSQLite Driver = "sqlite"

	// DriverPostgres connects to a shared PostgreSQL directory.
	DriverPostgres Driver = "postgres"

	// DriverMock serves canned directory data; development only.
	DriverMock Driver = "mock"
)

// IsValid reports whether d is a recognised directory driver.
func (d Driver) IsValid() bool {
	switch d {
	case DriverSQLite, DriverPostgres, DriverMock:
		return true
	}
	return false
}

// Config is the root configuration structure for Tanong.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Directory DirectoryConfig `yaml:"directory"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Session   SessionConfig   `yaml:"session"`
}

// ServerConfig holds network and logging settings for the Tanong server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// DirectoryConfig selects and configures the campus directory backend.
type DirectoryConfig struct {
	// Driver selects the backend implementation.
	Driver Driver `yaml:"driver"`

	// DSN is the PostgreSQL connection string. Required for the postgres
	// driver, ignored otherwise.
	DSN string `yaml:"dsn"`

	// Path is the SQLite database file path. Required for the sqlite
	// driver, ignored otherwise.
	Path string `yaml:"path"`
}

// LexiconConfig controls the optional vocabulary overlay file.
type LexiconConfig struct {
	// OverlayPath points to a YAML overlay merged over the built-in
	// vocabulary. Empty means built-ins only.
	OverlayPath string `yaml:"overlay_path"`

	// Watch enables polling the overlay file for changes so the vocabulary
	// can be updated without a restart. Requires OverlayPath.
	Watch bool `yaml:"watch"`

	// PollInterval is how often the overlay file is checked for changes.
	// Zero uses the watcher's default.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// PipelineConfig tunes the classifier's scoring thresholds. A zero value
// leaves the corresponding built-in default in place.
type PipelineConfig struct {
	// FuzzyThreshold is the whole-string fuzzy match cutoff in (0, 1].
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`

	// WordSimilarity is the per-word similarity cutoff for overlap scoring.
	WordSimilarity float64 `yaml:"word_similarity"`

	// OverlapRatio is the minimum fraction of pattern words that must match.
	OverlapRatio float64 `yaml:"overlap_ratio"`

	// UnknownCutoff is the confidence below which a turn is unknown.
	UnknownCutoff float64 `yaml:"unknown_cutoff"`
}

// SessionConfig tunes conversation session handling.
type SessionConfig struct {
	// IdleTimeout is how long a session may sit idle before its context is
	// evicted. Zero uses the manager's default.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}
