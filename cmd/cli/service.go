package cli

import (
	"fmt"
	"os"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/proxysurf/launcher/internal/launcher"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Service management commands",
	Long:  `Manage the proxied browser session as a system service`,
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the launcher as a system service",
	Long:  `Install Proxysurf as a system service that will start automatically on boot`,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := launcher.CreateService(cfg)
		if err != nil {
			fmt.Printf("Failed to create service: %v\n", err)
			os.Exit(1)
		}

		err = s.Install()
		if err != nil {
			fmt.Printf("Failed to install service: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Proxysurf service installed successfully")
		fmt.Println("   Use 'proxysurf service start' to start the service")
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the service",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := launcher.CreateService(cfg)
		if err != nil {
			fmt.Printf("Failed to create service: %v\n", err)
			os.Exit(1)
		}

		err = s.Start()
		if err != nil {
			fmt.Printf("Failed to start service: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Proxysurf service started successfully")
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the service",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := launcher.CreateService(cfg)
		if err != nil {
			fmt.Printf("Failed to create service: %v\n", err)
			os.Exit(1)
		}

		err = s.Stop()
		if err != nil {
			fmt.Printf("Failed to stop service: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Proxysurf service stopped successfully")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the service status",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := launcher.CreateService(cfg)
		if err != nil {
			fmt.Printf("Failed to create service: %v\n", err)
			os.Exit(1)
		}

		status, err := s.Status()
		if err != nil {
			fmt.Printf("Failed to get service status: %v\n", err)
			os.Exit(1)
		}

		var statusText string
		switch status {
		case service.StatusRunning:
			statusText = "🟢 Running"
		case service.StatusStopped:
			statusText = "Stopped"
		case service.StatusUnknown:
			statusText = "🟡 Unknown"
		default:
			statusText = "Unknown state"
		}

		fmt.Printf("Proxysurf Service Status: %s\n", statusText)
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "remove",
	Short: "Uninstall the service",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := launcher.CreateService(cfg)
		if err != nil {
			fmt.Printf("Failed to create service: %v\n", err)
			os.Exit(1)
		}

		err = s.Uninstall()
		if err != nil {
			fmt.Printf("Failed to uninstall service: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Proxysurf service uninstalled")
	},
}

var serviceRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the launcher under the service manager",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := launcher.CreateService(cfg)
		if err != nil {
			fmt.Printf("Failed to create service: %v\n", err)
			os.Exit(1)
		}

		if err := s.Run(); err != nil {
			fmt.Printf("Service exited with error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serviceCmd.AddCommand(installCmd)
	serviceCmd.AddCommand(startCmd)
	serviceCmd.AddCommand(stopCmd)
	serviceCmd.AddCommand(statusCmd)
	serviceCmd.AddCommand(uninstallCmd)
	serviceCmd.AddCommand(serviceRunCmd)
	rootCmd.AddCommand(serviceCmd)
}
