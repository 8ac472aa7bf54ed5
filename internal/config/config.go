package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/saas-mcp/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server      ServerConfig         `toml:"server"`
	APIs        APIConfig            `toml:"apis"`
	Templates   map[string]string    `toml:"templates"`
	HealthCheck HealthCheckConfig    `toml:"healthcheck"`
	Parallel    ParallelConfig       `toml:"parallel"`
	Scan        ScanConfig           `toml:"scan"`
	Browser     BrowserConfig        `toml:"browser"`
	Metrics     MetricsConfig        `toml:"metrics"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name      string `toml:"name"`
	Transport string `toml:"transport"` // stdio or http
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
}

// APIConfig holds base URLs of the external REST APIs.
type APIConfig struct {
	StripeURL        string `toml:"stripe_url"`
	VercelURL        string `toml:"vercel_url"`
	RequestTimeoutMs int    `toml:"request_timeout_ms"`
}

// HealthCheckConfig contains api_healthcheck settings.
type HealthCheckConfig struct {
	DefaultTimeoutMs int `toml:"default_timeout_ms"`
}

// ParallelConfig bounds the parallel tool.
type ParallelConfig struct {
	DefaultConcurrency int `toml:"default_concurrency"`
	MaxConcurrency     int `toml:"max_concurrency"`
	MaxTasks           int `toml:"max_tasks"`
}

// ScanConfig contains critical_first settings.
type ScanConfig struct {
	MaxFiles int `toml:"max_files"`
}

// BrowserConfig contains browser_test settings.
type BrowserConfig struct {
	Headless  bool   `toml:"headless"`
	TimeoutMs int    `toml:"timeout_ms"`
	ExecPath  string `toml:"exec_path"`
}

// MetricsConfig controls the Prometheus endpoint in HTTP mode.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// RequestTimeout returns the outbound HTTP timeout.
func (c APIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// Timeout returns the browser session timeout.
func (c BrowserConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Address returns host:port for the HTTP transport.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Missing files are skipped; unreadable or malformed files are errors.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies SAAS_MCP_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if transport := os.Getenv("SAAS_MCP_TRANSPORT"); transport != "" {
		config.Server.Transport = transport
	}
	if port := os.Getenv("SAAS_MCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SAAS_MCP_HOST"); host != "" {
		config.Server.Host = host
	}
	if level := os.Getenv("SAAS_MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if u := os.Getenv("SAAS_MCP_STRIPE_URL"); u != "" {
		config.APIs.StripeURL = u
	}
	if u := os.Getenv("SAAS_MCP_VERCEL_URL"); u != "" {
		config.APIs.VercelURL = u
	}
	if v := os.Getenv("SAAS_MCP_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Metrics.Enabled = b
		}
	}
	if p := os.Getenv("SAAS_MCP_CHROME_PATH"); p != "" {
		config.Browser.ExecPath = p
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, transport string, port int, host string) {
	if transport != "" {
		config.Server.Transport = transport
	}
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the values a running server depends on.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid server.transport %q (want stdio or http)", c.Server.Transport)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.HealthCheck.DefaultTimeoutMs <= 0 {
		return fmt.Errorf("healthcheck.default_timeout_ms must be positive")
	}
	if c.Parallel.DefaultConcurrency <= 0 || c.Parallel.MaxConcurrency < c.Parallel.DefaultConcurrency {
		return fmt.Errorf("parallel concurrency must satisfy 0 < default_concurrency <= max_concurrency")
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	for name, url := range c.Templates {
		if !strings.HasPrefix(url, "https://github.com/") {
			return fmt.Errorf("template %q must be a https://github.com/ URL, got %q", name, url)
		}
	}
	return nil
}
