package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/hashnav/internal/errors"
)

const (
	// ConfigFileName is the JSON configuration file name.
	ConfigFileName = "hashnav.json"

	// DefaultAddress is the default bridge listen address.
	DefaultAddress = "localhost:7070"

	// DefaultReadTimeout bounds the wait for the next browser message.
	DefaultReadTimeout = 60 * time.Second

	// DefaultWriteTimeout bounds a single websocket write.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultSendBuffer is the per-session queue of pending hash writes.
	DefaultSendBuffer = 64

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace prefixes metric names and names the tracer.
	DefaultNamespace = "hashnav"

	// DefaultSQLitePath is the link database used by the sqlite backend.
	DefaultSQLitePath = "hashnav-links.db"
)

// Link store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// configFileNames are tried in order by Load.
var configFileNames = []string{ConfigFileName, "hashnav.yaml", "hashnav.yml"}

// Config is the complete hashnav configuration.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
	Links   LinksConfig   `json:"links" yaml:"links"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig configures the browser bridge.
type ServerConfig struct {
	// Address is the HTTP listen address (host:port).
	Address string `json:"address,omitempty" yaml:"address,omitempty"`

	// AllowedOrigins lists origins allowed to open the websocket.
	// Empty means same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`

	// ReadTimeout is a duration string, e.g. "60s".
	ReadTimeout string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`

	// WriteTimeout is a duration string, e.g. "10s".
	WriteTimeout string `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`

	// SendBuffer is the number of hash writes a session may queue.
	SendBuffer int `json:"sendBuffer,omitempty" yaml:"sendBuffer,omitempty"`
}

// LogConfig configures slog output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// LinksConfig selects and configures the shared-link store.
type LinksConfig struct {
	Backend string       `json:"backend,omitempty" yaml:"backend,omitempty"`
	SQLite  SQLiteConfig `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
	S3      S3Config     `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// SQLiteConfig configures the sqlite link store.
type SQLiteConfig struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// S3Config configures the S3 link store. Credentials come from the AWS SDK's
// default chain (environment, shared profiles, SSO, instance roles).
type S3Config struct {
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// PathStyle forces path-style addressing, usually with Endpoint.
	PathStyle bool `json:"pathStyle,omitempty" yaml:"pathStyle,omitempty"`
}

// New returns a configuration with every default applied.
func New() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads the first of hashnav.json, hashnav.yaml, hashnav.yml found in dir.
func Load(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E100").
		WithDetail("No hashnav.json, hashnav.yaml, or hashnav.yml found in " + dir).
		WithSuggestion("Run 'hashnav serve' without --config to use defaults, or create hashnav.json")
}

// LoadFile reads configuration from path. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").WithField(path)
		}
		return nil, errors.New("E102").WithField(path).Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E102").
			WithField(path).
			WithSuggestion("Check that the file is valid " + formatName(path)).
			Wrap(err)
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

// SaveTo writes the configuration to path in the format its extension implies.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E103").WithField(path).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E103").WithField(path).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the configuration file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = DefaultReadTimeout.String()
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = DefaultWriteTimeout.String()
	}
	if c.Server.SendBuffer == 0 {
		c.Server.SendBuffer = DefaultSendBuffer
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}
	if c.Links.Backend == "" {
		c.Links.Backend = BackendMemory
	}
	if c.Links.SQLite.Path == "" {
		c.Links.SQLite.Path = DefaultSQLitePath
	}
}

// ApplyEnv applies HASHNAV_* overrides using lookup (usually os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("HASHNAV_ADDR"); ok && v != "" {
		c.Server.Address = v
	}
	if v, ok := lookup("HASHNAV_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("HASHNAV_LINKS_BACKEND"); ok && v != "" {
		c.Links.Backend = strings.ToLower(v)
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Address); err != nil {
		return errors.New("E101").
			WithField("server.address").
			WithSuggestion(`Use "host:port", e.g. "localhost:7070"`).
			Wrap(err)
	}
	if _, err := c.ReadTimeout(); err != nil {
		return errors.New("E101").WithField("server.readTimeout").Wrap(err)
	}
	if _, err := c.WriteTimeout(); err != nil {
		return errors.New("E101").WithField("server.writeTimeout").Wrap(err)
	}
	if c.Server.SendBuffer < 0 {
		return errors.New("E101").WithField("server.sendBuffer").
			WithDetail("sendBuffer must not be negative.")
	}
	if _, err := c.SlogLevel(); err != nil {
		return errors.New("E101").WithField("log.level").
			WithSuggestion("Use debug, info, warn, or error").Wrap(err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E101").WithField("log.format").
			WithSuggestion(`Use "text" or "json"`)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E101").WithField("metrics.path").
			WithSuggestion(`Paths start with "/", e.g. "/metrics"`)
	}

	switch c.Links.Backend {
	case BackendMemory, BackendSQLite:
	case BackendS3:
		if c.Links.S3.Bucket == "" {
			return errors.New("E101").WithField("links.s3.bucket").
				WithDetail("The s3 backend needs a bucket name.")
		}
		if c.Links.S3.Region == "" {
			return errors.New("E101").WithField("links.s3.region")
		}
	default:
		return errors.New("E402").WithField("links.backend")
	}
	return nil
}

// ReadTimeout parses Server.ReadTimeout.
func (c *Config) ReadTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.ReadTimeout)
}

// WriteTimeout parses Server.WriteTimeout.
func (c *Config) WriteTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.WriteTimeout)
}

// SlogLevel maps Log.Level to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// NewLogger builds the slog logger described by Log, writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func formatName(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}
