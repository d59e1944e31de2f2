package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxysurf/launcher/internal/models"
	"github.com/proxysurf/launcher/internal/sessions"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, models.EngineChromium, cfg.GetEngine())
	assert.False(t, cfg.Browser.Headless)
	assert.False(t, cfg.Session.Persist)
	assert.Equal(t, 30, cfg.Session.Interval)
	assert.Equal(t, "memory", cfg.Session.Strategy)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_ProxyPassthroughEnv(t *testing.T) {
	t.Setenv("PROXY_SERVER", "http://proxy.example.com:8080")
	t.Setenv("PROXY_USERNAME", "alice")
	t.Setenv("PROXY_PASSWORD", "hunter2")
	t.Setenv("TARGET_URL", "https://example.com/login")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://proxy.example.com:8080", cfg.Proxy.Server)
	assert.Equal(t, "alice", cfg.Proxy.Username)
	assert.Equal(t, "hunter2", cfg.Proxy.Password)
	assert.Equal(t, "https://example.com/login", cfg.Target.URL)
	assert.True(t, cfg.Proxy.Enabled())
}

func TestLoad_PrefixedEnv(t *testing.T) {
	t.Setenv("PROXYSURF_BROWSER_ENGINE", "firefox")
	t.Setenv("PROXYSURF_SESSION_PERSIST", "true")
	t.Setenv("PROXYSURF_SESSION_INTERVAL", "5")
	t.Setenv("PROXYSURF_SESSION_STRATEGY", "disk")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, models.EngineFirefox, cfg.GetEngine())
	assert.True(t, cfg.Session.Persist)
	assert.Equal(t, 5, cfg.Session.Interval)

	strategy, err := cfg.GetStrategy()
	require.NoError(t, err)
	assert.Equal(t, sessions.StrategyDisk, strategy)
}

func TestConfig_GetEngine_Fallback(t *testing.T) {
	cfg := &Config{}
	cfg.Browser.Engine = "netscape"

	assert.Equal(t, models.DefaultEngine, cfg.GetEngine())
}

func TestConfig_GetRefreshInterval(t *testing.T) {
	cfg := &Config{}

	cfg.Session.Interval = 45
	assert.Equal(t, 45*time.Second, cfg.GetRefreshInterval())

	cfg.Session.Interval = 0
	assert.Equal(t, time.Duration(0), cfg.GetRefreshInterval())

	cfg.Session.Interval = -1
	assert.Equal(t, time.Duration(0), cfg.GetRefreshInterval())
}

func TestConfig_GetNavigationTimeout(t *testing.T) {
	cfg := &Config{}

	cfg.Target.Timeout = 20
	assert.Equal(t, 20*time.Second, cfg.GetNavigationTimeout())

	cfg.Target.Timeout = 0
	assert.Equal(t, time.Duration(0), cfg.GetNavigationTimeout())
}

func TestConfig_GetStrategy_Invalid(t *testing.T) {
	cfg := &Config{}
	cfg.Session.Strategy = "both"

	_, err := cfg.GetStrategy()
	assert.Error(t, err)
}

func TestProxyConfig_Enabled(t *testing.T) {
	assert.False(t, ProxyConfig{}.Enabled())
	assert.True(t, ProxyConfig{Server: "proxy:8080"}.Enabled())
}
