package config

import (
	"encoding/json"
	stderrors "errors"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/vpbrowse/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vpbrowse.json"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultBasePath is the path the app is served under.
	DefaultBasePath = "/"

	// DefaultStaticDir is the default asset directory.
	DefaultStaticDir = "public"

	// DefaultAPIBaseURL is the Video Promotion API endpoint.
	DefaultAPIBaseURL = "https://pt.protoawe.com/api/video-promotion/v1"

	// DefaultTimeout bounds a single API request.
	DefaultTimeout = "10s"

	// DefaultTagCacheTTL is how long the tag list is cached.
	DefaultTagCacheTTL = "1h"

	// DefaultReloadInterval is how often watched files are polled.
	DefaultReloadInterval = "500ms"
)

// Environment variables overriding file values.
const (
	EnvPSID      = "VPBROWSE_API_PSID"
	EnvAccessKey = "VPBROWSE_API_ACCESS_KEY"
	EnvPort      = "VPBROWSE_PORT"
)

// Config represents the complete vpbrowse.json configuration.
type Config struct {
	// Name is the site name, used as the page title.
	Name string `json:"name,omitempty"`

	// BasePath is the path prefix the app is served under, e.g. "/app/".
	BasePath string `json:"basePath,omitempty"`

	// API configures the Video Promotion API client and proxy.
	API APIConfig `json:"api,omitempty"`

	// Server configures the HTTP server.
	Server ServerConfig `json:"server,omitempty"`

	// UI tunes the pages.
	UI UIConfig `json:"ui,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// APIConfig configures access to the Video Promotion API.
type APIConfig struct {
	// BaseURL is the API endpoint.
	BaseURL string `json:"baseURL,omitempty"`

	// PSID and AccessKey are the API credentials. They are only used
	// server side; the browser talks to the /api proxy.
	PSID      string `json:"psid,omitempty"`
	AccessKey string `json:"accessKey,omitempty"`

	// Timeout bounds a single request (e.g., "10s").
	Timeout string `json:"timeout,omitempty"`

	// TagCacheTTL is how long the tag list is cached (e.g., "1h").
	TagCacheTTL string `json:"tagCacheTTL,omitempty"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// StaticDir is the directory assets are served from when no S3
	// bucket is configured.
	StaticDir string `json:"staticDir,omitempty"`

	// S3 serves assets from a bucket instead of StaticDir.
	S3 S3Config `json:"s3,omitempty"`

	// Metrics exposes Prometheus metrics at /metrics.
	Metrics bool `json:"metrics,omitempty"`

	// Tracing records OpenTelemetry spans per request.
	Tracing bool `json:"tracing,omitempty"`

	// Reload enables live reload during development.
	Reload ReloadConfig `json:"reload,omitempty"`
}

// S3Config locates assets in an S3 bucket.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// ReloadConfig contains live reload settings.
type ReloadConfig struct {
	// Enabled turns on the reload websocket and file watcher.
	Enabled bool `json:"enabled,omitempty"`

	// Watch contains paths to watch for changes.
	Watch []string `json:"watch,omitempty"`

	// Interval is the polling interval (e.g., "500ms").
	Interval string `json:"interval,omitempty"`
}

// UIConfig contains page settings.
type UIConfig struct {
	PageSize      int    `json:"pageSize,omitempty"`
	FeaturedCount int    `json:"featuredCount,omitempty"`
	SidebarCount  int    `json:"sidebarCount,omitempty"`
	PrimaryColor  string `json:"primaryColor,omitempty"`
	LabelColor    string `json:"labelColor,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for vpbrowse.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path and applies
// environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without one to use defaults")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional loads dir's config file, falling back to defaults when
// there is none. Environment overrides apply either way.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !stderrors.Is(err, errors.New("E121")) {
		return nil, err
	}
	cfg = New()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides credentials and port from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvPSID); v != "" {
		c.API.PSID = v
	}
	if v := getenv(EnvAccessKey); v != "" {
		c.API.AccessKey = v
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E122").
				WithDetailf("%s=%q is not a port number", EnvPort, v).
				Wrap(err)
		}
		c.Server.Port = port
	}
	return nil
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
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	// Credentials may be in the file.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "Video Browser"
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}

	// API
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultAPIBaseURL
	}
	if c.API.Timeout == "" {
		c.API.Timeout = DefaultTimeout
	}
	if c.API.TagCacheTTL == "" {
		c.API.TagCacheTTL = DefaultTagCacheTTL
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = DefaultStaticDir
	}
	if c.Server.Reload.Interval == "" {
		c.Server.Reload.Interval = DefaultReloadInterval
	}
	if c.Server.Reload.Watch == nil {
		c.Server.Reload.Watch = []string{c.Server.StaticDir}
	}

	// UI
	if c.UI.PageSize == 0 {
		c.UI.PageSize = 20
	}
	if c.UI.FeaturedCount == 0 {
		c.UI.FeaturedCount = 10
	}
	if c.UI.SidebarCount == 0 {
		c.UI.SidebarCount = 6
	}
	if c.UI.PrimaryColor == "" {
		c.UI.PrimaryColor = "7dba27"
	}
	if c.UI.LabelColor == "" {
		c.UI.LabelColor = "fff"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535")
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		return errors.New("E122").
			WithDetailf("basePath %q must start with /", c.BasePath)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("E122").
			WithDetailf("api.baseURL %q is not an http(s) URL", c.API.BaseURL)
	}

	durations := []struct {
		name, value string
	}{
		{"api.timeout", c.API.Timeout},
		{"api.tagCacheTTL", c.API.TagCacheTTL},
		{"server.reload.interval", c.Server.Reload.Interval},
	}
	for _, d := range durations {
		if v, err := time.ParseDuration(d.value); err != nil || v < 0 {
			return errors.New("E122").
				WithDetailf("%s %q is not a duration", d.name, d.value).
				WithSuggestion(`Use Go duration syntax, e.g. "10s" or "1h"`)
		}
	}

	if c.UI.PageSize < 0 || c.UI.FeaturedCount < 0 || c.UI.SidebarCount < 0 {
		return errors.New("E122").
			WithDetail("ui list sizes must not be negative")
	}
	return nil
}

// Address returns the listen address of the server.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the URL the app is reachable at.
func (c *Config) URL() string {
	return "http://" + c.Address() + c.BasePath
}

// StaticPath returns the absolute path to the asset directory.
func (c *Config) StaticPath() string {
	if filepath.IsAbs(c.Server.StaticDir) {
		return c.Server.StaticDir
	}
	return filepath.Join(c.Dir(), c.Server.StaticDir)
}

// APITimeout returns the parsed API timeout. Call Validate first.
func (c *Config) APITimeout() time.Duration {
	return mustDuration(c.API.Timeout)
}

// TagCacheTTL returns the parsed tag cache TTL. Call Validate first.
func (c *Config) TagCacheTTL() time.Duration {
	return mustDuration(c.API.TagCacheTTL)
}

// ReloadInterval returns the parsed polling interval. Call Validate first.
func (c *Config) ReloadInterval() time.Duration {
	return mustDuration(c.Server.Reload.Interval)
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// vpbrowse.json.
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
			return "", errors.New("E121").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
