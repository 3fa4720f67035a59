package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/livetree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "livetree.json"

	// DefaultDevtoolsAddr is the default devtools listen address.
	DefaultDevtoolsAddr = "localhost:7070"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "livetree"

	// DefaultBuffer is the default per-client mutation buffer.
	DefaultBuffer = 256
)

// Config represents the complete livetree.json configuration.
type Config struct {
	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Devtools contains inspector server configuration.
	Devtools DevtoolsConfig `json:"devtools"`

	// Snapshot contains snapshot sink configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers the collector and serves /metrics on the devtools
	// server.
	Enabled bool `json:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// DevtoolsConfig contains inspector server settings.
type DevtoolsConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`

	// Buffer is the number of mutations queued per stream client before
	// the client is dropped.
	Buffer int `json:"buffer,omitempty"`
}

// SnapshotConfig contains snapshot sink settings.
type SnapshotConfig struct {
	// Dir is a directory for file snapshots. Empty disables them.
	Dir string `json:"dir,omitempty"`

	// S3 configures uploads to S3. An empty bucket disables them.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 sink settings.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Devtools: DevtoolsConfig{
			Addr:   DefaultDevtoolsAddr,
			Buffer: DefaultBuffer,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for livetree.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadOrDefault is Load, returning defaults when the file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return New(), nil
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E020").
				WithDetail("No livetree.json found in " + filepath.Dir(path)).
				WithSuggestion("Create livetree.json or run without a config file to use defaults")
		}
		return nil, errors.New("E020").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E020").
			WithDetail("Failed to parse livetree.json: " + err.Error()).
			WithSuggestion("Check that livetree.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E020").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E020").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Devtools.Addr == "" {
		c.Devtools.Addr = DefaultDevtoolsAddr
	}
	if c.Devtools.Buffer == 0 {
		c.Devtools.Buffer = DefaultBuffer
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E021").
			WithDetail("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E021").
			WithDetail("log.format must be text or json")
	}
	if c.Devtools.Buffer < 0 {
		return errors.New("E021").
			WithDetail("devtools.buffer must not be negative")
	}
	if c.Snapshot.S3.Bucket != "" && c.Snapshot.S3.Region == "" {
		return errors.New("E021").
			WithDetail("snapshot.s3.region is required when a bucket is set")
	}
	return nil
}

// LogLevel returns the configured slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// Logger builds a logger writing to w in the configured format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
