package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxysurf/launcher/internal/models"
)

func TestLaunchOptions_NoProxy(t *testing.T) {
	launch := launchOptions(LaunchOptions{
		Engine:   models.EngineChromium,
		Headless: true,
	})

	require.NotNil(t, launch.Headless)
	assert.True(t, *launch.Headless)
	assert.Nil(t, launch.Proxy)
}

func TestLaunchOptions_ProxyWithoutCredentials(t *testing.T) {
	launch := launchOptions(LaunchOptions{
		Engine:      models.EngineChromium,
		ProxyServer: "http://proxy.internal:3128",
	})

	require.NotNil(t, launch.Proxy)
	assert.Equal(t, "http://proxy.internal:3128", launch.Proxy.Server)
	// No empty credentials for an unauthenticated proxy
	assert.Nil(t, launch.Proxy.Username)
	assert.Nil(t, launch.Proxy.Password)
}

func TestLaunchOptions_ProxyWithCredentials(t *testing.T) {
	launch := launchOptions(LaunchOptions{
		Engine:        models.EngineFirefox,
		ProxyServer:   "http://proxy.internal:3128",
		ProxyUsername: "user",
		ProxyPassword: "secret",
	})

	require.NotNil(t, launch.Proxy)
	require.NotNil(t, launch.Proxy.Username)
	require.NotNil(t, launch.Proxy.Password)
	assert.Equal(t, "user", *launch.Proxy.Username)
	assert.Equal(t, "secret", *launch.Proxy.Password)
}

func TestLaunchOptions_Args(t *testing.T) {
	args := []string{"--no-sandbox", "--disable-dev-shm-usage"}

	launch := launchOptions(LaunchOptions{
		Engine: models.EngineChromium,
		Args:   args,
	})

	assert.Equal(t, args, launch.Args)
}

func TestContextOptions_WithoutStorageState(t *testing.T) {
	context := contextOptions(LaunchOptions{Engine: models.EngineChromium})
	assert.Nil(t, context.StorageStatePath)
}

func TestContextOptions_WithStorageState(t *testing.T) {
	context := contextOptions(LaunchOptions{
		Engine:           models.EngineFirefox,
		StorageStatePath: "/tmp/state/firefox.json",
	})

	require.NotNil(t, context.StorageStatePath)
	assert.Equal(t, "/tmp/state/firefox.json", *context.StorageStatePath)
}
