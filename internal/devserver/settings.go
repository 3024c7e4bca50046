package devserver

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/staffdesk/internal/config"
)

const (
	// DefaultMaxBodyBytes limits request payloads to 1 MB.
	DefaultMaxBodyBytes int64 = 1 << 20
	// DefaultReadTimeout guards hung clients.
	DefaultReadTimeout = 15 * time.Second
	// DefaultWriteTimeout bounds handler writes.
	DefaultWriteTimeout = 15 * time.Second
	// DefaultIdleTimeout bounds keep-alive connections.
	DefaultIdleTimeout = 60 * time.Second
)

// Settings captures runtime configuration for the development backend.
type Settings struct {
	Host         string
	Port         int
	SigningKey   string
	TokenTTL     time.Duration
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SettingsFromConfig builds Settings from the dev_server section of the
// console config. Env overrides were already applied by config.New.
func SettingsFromConfig(cfg *config.Config) Settings {
	settings := Settings{
		Host:     config.DefaultDevHost,
		Port:     config.DefaultDevPort,
		TokenTTL: config.DefaultDevTokenTTL,
	}
	if cfg != nil {
		raw := cfg.Settings.DevServer
		if host := strings.TrimSpace(raw.Host); host != "" {
			settings.Host = host
		}
		if isValidPort(raw.Port) || raw.Port == 0 {
			settings.Port = raw.Port
		}
		settings.SigningKey = raw.SigningKey
		if raw.TokenTTL > 0 {
			settings.TokenTTL = raw.TokenTTL
		}
	}
	settings.normalize()
	return settings
}

func (s *Settings) normalize() {
	if s == nil {
		return
	}
	s.Host = strings.TrimSpace(s.Host)
	if s.Host == "" {
		s.Host = config.DefaultDevHost
	}
	if s.Port != 0 && !isValidPort(s.Port) {
		s.Port = config.DefaultDevPort
	}
	if s.TokenTTL <= 0 {
		s.TokenTTL = config.DefaultDevTokenTTL
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
}

// Address returns the TCP bind address in host:port form.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the HTTP base URL for the server.
func (s Settings) URL() string {
	return "http://" + s.Address()
}

func isValidPort(port int) bool {
	return port > 0 && port <= 65535
}
