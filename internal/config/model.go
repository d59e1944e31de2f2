package config

import (
	"time"

	"github.com/proxysurf/launcher/internal/models"
	"github.com/proxysurf/launcher/internal/sessions"
)

// Config represents the application configuration structure
type Config struct {
	Browser BrowserConfig `mapstructure:"browser"`
	Proxy   ProxyConfig   `mapstructure:"proxy"`
	Target  TargetConfig  `mapstructure:"target"`
	Session SessionConfig `mapstructure:"session"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// BrowserConfig selects the engine and how it is launched.
type BrowserConfig struct {
	Engine   string   `mapstructure:"engine"`
	Headless bool     `mapstructure:"headless"`
	Args     []string `mapstructure:"args"`
}

// ProxyConfig is the proxy pass-through sourced from the environment.
type ProxyConfig struct {
	Server   string `mapstructure:"server"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// TargetConfig is where the launched browser navigates to.
type TargetConfig struct {
	URL string `mapstructure:"url"`
	// Timeout bounds the initial navigation, in seconds. Zero keeps
	// the automation library default.
	Timeout int `mapstructure:"timeout"`
}

// SessionConfig controls storage-state persistence.
type SessionConfig struct {
	Persist bool `mapstructure:"persist"`
	// Dir overrides the default ~/.config/proxysurf snapshot directory.
	Dir string `mapstructure:"dir"`
	// Interval between periodic snapshot refreshes, in seconds.
	Interval int `mapstructure:"interval"`
	// Strategy is "memory" (cache, flush at shutdown) or "disk"
	// (write-through every interval).
	Strategy string `mapstructure:"strategy"`
}

// LoggingConfig mirrors the logrus setup knobs.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func (c *Config) GetEngine() models.Engine {
	return models.ParseEngine(c.Browser.Engine)
}

func (c *Config) SetEngine(engine models.Engine) {
	c.Browser.Engine = engine.String()
}

func (p ProxyConfig) Enabled() bool {
	return len(p.Server) > 0
}

func (c *Config) GetSessionDir() string {
	if len(c.Session.Dir) > 0 {
		return c.Session.Dir
	}
	return sessions.DefaultDir()
}

func (c *Config) GetRefreshInterval() time.Duration {
	if c.Session.Interval <= 0 {
		return 0
	}
	return time.Duration(c.Session.Interval) * time.Second
}

func (c *Config) GetStrategy() (sessions.Strategy, error) {
	return sessions.ParseStrategy(c.Session.Strategy)
}

func (c *Config) GetNavigationTimeout() time.Duration {
	if c.Target.Timeout <= 0 {
		return 0
	}
	return time.Duration(c.Target.Timeout) * time.Second
}
