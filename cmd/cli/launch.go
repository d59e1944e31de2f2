package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proxysurf/launcher/internal/launcher"
)

// runLaunchE is the root command: launch the browser and block until a
// termination signal flushes the session and exits.
func runLaunchE(cmd *cobra.Command, args []string) error {
	applyLaunchFlags(cmd, args)

	if len(cfg.Target.URL) == 0 {
		fmt.Println(warningStyle.Render("No target URL configured (set TARGET_URL or pass --url), opening a blank page"))
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Launching %s", cfg.GetEngine())))

	return launcher.Run(cfg, nil)
}
