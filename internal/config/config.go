package config

import (
	"encoding/json"
	stderrors "errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/pagekit/internal/errors"
	"github.com/vango-dev/pagekit/pkg/datetime"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "pagekit.json"

	// DefaultPort is the default server port.
	DefaultPort = 44344

	// DefaultHost is the default server host.
	DefaultHost = "0.0.0.0"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = "10s"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "pagekit"
)

// Config represents pagekit.json.
type Config struct {
	// Server contains the dispatch server settings.
	Server ServerConfig `json:"server,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Timezone is the zone datetimes are rendered in: an IANA name, a
	// fixed offset such as "+05:30", or "" for the local zone.
	Timezone string `json:"timezone,omitempty"`

	configPath string
}

// ServerConfig contains server settings.
type ServerConfig struct {
	Host  string `json:"host,omitempty"`
	Port  int    `json:"port,omitempty"`
	Debug bool   `json:"debug,omitempty"`

	// ShutdownTimeout is how long in-flight requests get on shutdown
	// (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// AllowedOrigins are extra origins allowed to open remote history
	// sockets. Same-origin pages are always allowed.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`

	// File, when set, receives log output instead of stderr.
	File string `json:"file,omitempty"`

	// Quiet discards all log output.
	Quiet bool `json:"quiet,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
	}
}

// Load loads pagekit.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads the configuration at path and fills in defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("config.missing").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				Wrap(err)
		}
		return nil, errors.New("config.parse").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("config.parse").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration back to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("config.parse").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("config.parse").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the configuration file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, "server.port: must be between 1 and 65535")
	}
	if _, err := c.ShutdownTimeout(); err != nil {
		problems = append(problems, "server.shutdownTimeout: "+err.Error())
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, "log.level: must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, "log.format: must be text or json")
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, "timezone: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New("config.invalid").WithDetail(strings.Join(problems, "; "))
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return datetime.LoadLocation(c.Timezone)
}

// ShutdownTimeout parses Server.ShutdownTimeout.
func (c *Config) ShutdownTimeout() (time.Duration, error) {
	if c.Server.ShutdownTimeout == "" {
		return time.ParseDuration(DefaultShutdownTimeout)
	}
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, stderrors.New("must not be negative")
	}
	return d, nil
}

// Exists reports whether dir contains pagekit.json.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil && !info.IsDir()
}

// FindProjectRoot walks up from startDir to the first directory that
// contains pagekit.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("config.missing").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest pagekit.json above the working
// directory. Without one it returns the defaults.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return LoadNearest(wd)
}

// LoadNearest loads the nearest pagekit.json at or above dir, or returns
// the defaults when there is none.
func LoadNearest(dir string) (*Config, error) {
	root, err := FindProjectRoot(dir)
	if err != nil {
		var pe *errors.Error
		if stderrors.As(err, &pe) && pe.Kind == "config.missing" {
			return New(), nil
		}
		return nil, err
	}
	return Load(root)
}
