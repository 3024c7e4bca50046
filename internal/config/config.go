// internal/config/config.go
//
// This package handles configuration and the .staffdesk directory structure.
// The console keeps its config file, session file, and logs under one root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DirName is the name of the directory we create under the config root
	DirName = ".staffdesk"

	// HomeEnv overrides the config root.
	HomeEnv = "STAFFDESK_HOME"

	DefaultBaseURL              = "http://127.0.0.1:8780"
	DefaultTimeout              = 15 * time.Second
	DefaultRedirectDelay        = 1000 * time.Millisecond
	DefaultNotificationDuration = 1000 * time.Millisecond
	DefaultDevHost              = "127.0.0.1"
	DefaultDevPort              = 8780
	DefaultDevTokenTTL          = 8 * time.Hour
	defaultDevSigningKey        = "staffdesk-dev-signing-key"
)

const defaultConfigYAML = `# staffdesk configuration
version: 1

# REST backend the console talks to.
api:
  base_url: http://127.0.0.1:8780
  timeout: 15s

# Timing of the notify-then-redirect step after every submission.
ui:
  redirect_delay: 1s
  notification_duration: 1s

# In-memory backend started by "staffdesk serve-dev".
dev_server:
  host: 127.0.0.1
  port: 8780
  signing_key: staffdesk-dev-signing-key
  token_ttl: 8h
`

// APIConfig points the gateway at the backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// UIConfig controls workflow timers.
type UIConfig struct {
	RedirectDelay        time.Duration `yaml:"redirect_delay"`
	NotificationDuration time.Duration `yaml:"notification_duration"`
}

// DevServerConfig configures the development backend.
type DevServerConfig struct {
	Host       string        `yaml:"host"`
	Port       int           `yaml:"port"`
	SigningKey string        `yaml:"signing_key"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
}

// Settings models .staffdesk/config.yaml.
type Settings struct {
	Version   int             `yaml:"version"`
	API       APIConfig       `yaml:"api"`
	UI        UIConfig        `yaml:"ui"`
	DevServer DevServerConfig `yaml:"dev_server"`
}

// envOverrides holds the raw environment values layered over the file.
type envOverrides struct {
	BaseURL              string        `env:"STAFFDESK_BASE_URL"`
	Timeout              time.Duration `env:"STAFFDESK_TIMEOUT"`
	RedirectDelay        time.Duration `env:"STAFFDESK_REDIRECT_DELAY"`
	NotificationDuration time.Duration `env:"STAFFDESK_NOTIFY_DURATION"`
	DevAddr              string        `env:"STAFFDESK_DEV_ADDR"`
	DevSigningKey        string        `env:"STAFFDESK_DEV_SIGNING_KEY"`
}

// Config holds the runtime configuration for the console.
type Config struct {
	// Root is the directory holding .staffdesk/
	Root string

	// Dir is Root/.staffdesk
	Dir string

	Settings Settings
}

// DefaultRoot resolves the config root: $STAFFDESK_HOME, then the user config dir.
func DefaultRoot() (string, error) {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return filepath.Clean(home), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user config dir: %w", err)
	}
	return filepath.Join(base, "staffdesk"), nil
}

// InitDir creates the .staffdesk directory structure under root.
//
// Structure created:
// .staffdesk/
// ├── config.yaml
// ├── session.yaml  <- written by "staffdesk login"
// └── logs/
func InitDir(root string) error {
	dir := filepath.Join(root, DirName)
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure %s: %w", dir, err)
	}
	return ensureConfigFile(filepath.Join(dir, "config.yaml"))
}

// New creates a Config populated from config.yaml and the environment.
func New(root string) (*Config, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("config: root directory is required")
	}
	cfg := &Config{
		Root:     root,
		Dir:      filepath.Join(root, DirName),
		Settings: defaultSettings(),
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Settings.normalize()
	if err := cfg.Settings.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ConfigPath returns the on-disk location for the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, "config.yaml")
}

// SessionPath returns the path of the persisted session.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, "session.yaml")
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.Dir, "logs")
}

// JournalPath returns the activity journal rendered in the TUI log panel.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journal.log")
}

// TracePath returns the HTTP trace log.
func (c *Config) TracePath() string {
	return filepath.Join(c.LogsDir(), "staffdesk.log")
}

// BaseURL returns the configured backend URL.
func (c *Config) BaseURL() string {
	return c.Settings.API.BaseURL
}

// RedirectDelay is how long a settled workflow waits before navigating.
func (c *Config) RedirectDelay() time.Duration {
	return c.Settings.UI.RedirectDelay
}

// NotificationDuration is how long a notification stays visible.
func (c *Config) NotificationDuration() time.Duration {
	return c.Settings.UI.NotificationDuration
}

func (c *Config) load() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	parsed := defaultSettings()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.Settings = parsed
	return nil
}

func (c *Config) applyEnv() error {
	var raw envOverrides
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	s := &c.Settings
	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		s.API.BaseURL = v
	}
	if raw.Timeout > 0 {
		s.API.Timeout = raw.Timeout
	}
	if raw.RedirectDelay > 0 {
		s.UI.RedirectDelay = raw.RedirectDelay
	}
	if raw.NotificationDuration > 0 {
		s.UI.NotificationDuration = raw.NotificationDuration
	}
	if v := strings.TrimSpace(raw.DevSigningKey); v != "" {
		s.DevServer.SigningKey = v
	}
	if v := strings.TrimSpace(raw.DevAddr); v != "" {
		host, port, err := splitHostPort(v)
		if err != nil {
			return fmt.Errorf("config: STAFFDESK_DEV_ADDR: %w", err)
		}
		s.DevServer.Host = host
		s.DevServer.Port = port
	}
	return nil
}

func defaultSettings() Settings {
	return Settings{
		Version: 1,
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		UI: UIConfig{
			RedirectDelay:        DefaultRedirectDelay,
			NotificationDuration: DefaultNotificationDuration,
		},
		DevServer: DevServerConfig{
			Host:       DefaultDevHost,
			Port:       DefaultDevPort,
			SigningKey: defaultDevSigningKey,
			TokenTTL:   DefaultDevTokenTTL,
		},
	}
}

func (s *Settings) normalize() {
	if s.Version == 0 {
		s.Version = 1
	}
	s.API.BaseURL = strings.TrimRight(strings.TrimSpace(s.API.BaseURL), "/")
	if s.API.Timeout <= 0 {
		s.API.Timeout = DefaultTimeout
	}
	if s.UI.RedirectDelay <= 0 {
		s.UI.RedirectDelay = DefaultRedirectDelay
	}
	if s.UI.NotificationDuration <= 0 {
		s.UI.NotificationDuration = DefaultNotificationDuration
	}
	s.DevServer.Host = strings.TrimSpace(s.DevServer.Host)
	if s.DevServer.Host == "" {
		s.DevServer.Host = DefaultDevHost
	}
	if s.DevServer.TokenTTL <= 0 {
		s.DevServer.TokenTTL = DefaultDevTokenTTL
	}
}

func (s *Settings) validate() error {
	if s.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if s.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(s.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", s.API.BaseURL)
	}
	if s.DevServer.Port < 0 || s.DevServer.Port > 65535 {
		return fmt.Errorf("dev_server.port out of range: %d", s.DevServer.Port)
	}
	if strings.TrimSpace(s.DevServer.SigningKey) == "" {
		return fmt.Errorf("dev_server.signing_key is required")
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func splitHostPort(addr string) (string, int, error) {
	host, rawPort, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil || port < 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port %q", rawPort)
	}
	return host, port, nil
}
