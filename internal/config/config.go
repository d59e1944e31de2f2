package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	if err := setupViperConfig(v, configFile); err != nil {
		return nil, err
	}

	bindEnvironmentVariables(v)

	config, err := readAndUnmarshalConfig(v)
	if err != nil {
		return nil, err
	}

	if err := setupLogging(config, v); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile loads the .env file if it exists
func loadEnvFile() error {
	if err := gotenv.Load(); err != nil {
		// .env file not found, that's okay - continue with other sources
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}
	return nil
}

// setupViperConfig configures viper with file paths and defaults
func setupViperConfig(v *viper.Viper, configFile string) error {
	// Set configuration file details
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/proxysurf")
	v.AddConfigPath("~/.config/proxysurf")

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
	}

	if err := setupHomeConfigPath(v); err != nil {
		return err
	}

	// Set default values
	setDefaults(v)

	// Set environment variable settings
	v.SetEnvPrefix("PROXYSURF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)

	return nil
}

// setupHomeConfigPath adds the home directory config path if available
func setupHomeConfigPath(v *viper.Viper) error {
	home := os.Getenv("HOME")
	if len(home) == 0 {
		return nil
	}

	// Get the user's home directory
	usr, err := user.Current()
	if err != nil {
		logrus.Fatalf("Failed to get current user: %v", err)
	}

	configPath := filepath.Join(usr.HomeDir, ".config", "proxysurf")
	v.AddConfigPath(configPath)

	return nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("browser.engine", "chromium")
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.args", []string{})

	v.SetDefault("session.persist", false)
	v.SetDefault("session.interval", 30)
	v.SetDefault("session.strategy", "memory")

	v.SetDefault("target.timeout", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// bindEnvironmentVariables binds all environment variables to viper
func bindEnvironmentVariables(v *viper.Viper) {

	// Proxy credentials. The bare variable names are the pass-through
	// contract with the environment; the prefixed names follow the
	// PROXYSURF_* convention of everything else.
	v.BindEnv("proxy.server", "PROXYSURF_PROXY_SERVER", "PROXY_SERVER")
	v.BindEnv("proxy.username", "PROXYSURF_PROXY_USERNAME", "PROXY_USERNAME")
	v.BindEnv("proxy.password", "PROXYSURF_PROXY_PASSWORD", "PROXY_PASSWORD")

	// Navigation target
	v.BindEnv("target.url", "PROXYSURF_TARGET_URL", "TARGET_URL")
	v.BindEnv("target.timeout", "PROXYSURF_TARGET_TIMEOUT")

	// Browser settings
	v.BindEnv("browser.engine", "PROXYSURF_BROWSER_ENGINE")
	v.BindEnv("browser.headless", "PROXYSURF_BROWSER_HEADLESS")

	bindSessionEnvVars(v)
	bindLoggingEnvVars(v)
}

// bindSessionEnvVars binds session persistence environment variables
func bindSessionEnvVars(v *viper.Viper) {
	v.BindEnv("session.persist", "PROXYSURF_SESSION_PERSIST")
	v.BindEnv("session.dir", "PROXYSURF_SESSION_DIR")
	v.BindEnv("session.interval", "PROXYSURF_SESSION_INTERVAL")
	v.BindEnv("session.strategy", "PROXYSURF_SESSION_STRATEGY")
}

// bindLoggingEnvVars binds logging configuration environment variables
func bindLoggingEnvVars(v *viper.Viper) {
	v.BindEnv("logging.level", "PROXYSURF_LOGGING_LEVEL")
	v.BindEnv("logging.format", "PROXYSURF_LOGGING_FORMAT")
}

// readAndUnmarshalConfig reads the configuration file and unmarshals it
func readAndUnmarshalConfig(v *viper.Viper) (*Config, error) {
	// Read configuration file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setupLogging configures the logging system based on the config
func setupLogging(config *Config, v *viper.Viper) error {
	// Set logging level
	logrusLevel, err := logrus.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	logrus.SetLevel(logrusLevel)

	// Set logging format
	switch strings.ToLower(config.Logging.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		logrus.WithFields(logrus.Fields{
			"format": config.Logging.Format,
		}).Warn("Unknown log format")
	}

	// Dump out the config settings if in debug mode
	if logrusLevel >= logrus.DebugLevel {
		for key, value := range v.AllSettings() {
			// Never echo proxy credentials, even at debug level
			if key == "proxy" {
				continue
			}
			logrus.Debugf("Config '%s': %v\n", key, value)
		}
	}

	return nil
}
