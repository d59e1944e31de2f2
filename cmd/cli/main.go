package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/proxysurf/launcher/internal/config"
	"github.com/proxysurf/launcher/internal/models"
)

// Global configuration instance
var cfg *config.Config

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")

	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	return config.Load(configFile)
}

func preRunConfigE(cmd *cobra.Command, _ []string) error {
	// Load configuration before any command runs
	var err error
	cfg, err = loadConfig(cmd)

	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// check if verbose flag is set
	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	return nil
}

var rootCmd = &cobra.Command{
	Use:   "proxysurf [engine]",
	Short: "Proxysurf - launch a proxied browser with persistent sessions",
	Long: `Proxysurf launches a browser through a proxy whose credentials are
sourced from the environment (PROXY_SERVER, PROXY_USERNAME,
PROXY_PASSWORD), navigates to TARGET_URL, and optionally restores and
persists the session's storage state (cookies, local storage) across
runs.

The optional positional argument selects the browser engine: chromium
(default), firefox or webkit. Unrecognized names fall back to chromium.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: preRunConfigE,
	RunE:              runLaunchE,
}

func init() {

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is ~/.config/proxysurf/config.yaml)")

	// Launch flags
	rootCmd.Flags().BoolP("persist", "p", false, "Restore and persist session storage state across runs")
	rootCmd.Flags().Int("interval", 0, "Snapshot refresh interval in seconds (default 30)")
	rootCmd.Flags().String("strategy", "", "Snapshot refresh strategy: memory or disk (default memory)")
	rootCmd.Flags().String("url", "", "Override the target URL from the environment")
	rootCmd.Flags().Bool("headless", false, "Run the browser headless")
}

// applyLaunchFlags folds the command line onto the loaded configuration.
// The positional engine argument and the launch flags always win over
// config file and environment.
func applyLaunchFlags(cmd *cobra.Command, args []string) {
	if len(args) > 0 {
		cfg.SetEngine(models.ParseEngine(args[0]))
	}

	if persist, err := cmd.Flags().GetBool("persist"); err == nil && persist {
		cfg.Session.Persist = true
	}

	if interval, err := cmd.Flags().GetInt("interval"); err == nil && interval > 0 {
		cfg.Session.Interval = interval
	}

	if strategy, err := cmd.Flags().GetString("strategy"); err == nil && len(strategy) > 0 {
		cfg.Session.Strategy = strategy
	}

	if url, err := cmd.Flags().GetString("url"); err == nil && len(url) > 0 {
		cfg.Target.URL = url
	}

	if headless, err := cmd.Flags().GetBool("headless"); err == nil && headless {
		cfg.Browser.Headless = true
	}
}

func GetCommandOptions() *cobra.Command {
	return rootCmd
}
