package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/proxysurf/launcher/internal/common"
	"github.com/proxysurf/launcher/internal/models"
	"github.com/proxysurf/launcher/internal/sessions"
)

// Saved session state management from the command line

// sessionCmd represents the sessions command
var sessionCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved session snapshots",
	Long:  `Inspect and remove the storage-state snapshot files saved per browser engine.`,
}

// sessionListCmd represents the sessions list command
var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved session snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listSessions()
	},
}

// sessionRemoveCmd represents the sessions remove command
var sessionRemoveCmd = &cobra.Command{
	Use:   "remove [engine]",
	Short: "Remove a saved session snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeSession(args)
	},
}

// sessionPathCmd represents the sessions path command
var sessionPathCmd = &cobra.Command{
	Use:   "path [engine]",
	Short: "Print the snapshot file path for an engine",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessions.NewStore(cfg.GetSessionDir())
		if err != nil {
			return err
		}
		fmt.Println(store.Path(engineFromArgs(args)))
		return nil
	},
}

func engineFromArgs(args []string) models.Engine {
	if len(args) > 0 {
		return models.ParseEngine(args[0])
	}
	return models.DefaultEngine
}

// listSessions displays all saved snapshots with their state
func listSessions() error {
	fmt.Println(headerStyle.Render("Saved Sessions"))
	fmt.Println()

	store, err := sessions.NewStore(cfg.GetSessionDir())
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	saved, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(saved) == 0 {
		fmt.Println(infoStyle.Render("ℹ️  No saved sessions found"))
		return nil
	}

	for _, session := range saved {
		fmt.Println(headerStyle.Render(fmt.Sprintf("Engine: %s", session.Engine)))
		fmt.Println("  " + activeStyle.Render(fmt.Sprintf("Updated: %s (%s)",
			session.Modified.Format("2006-01-02 15:04:05"),
			common.FormatDurationSince(session.Modified))))
		fmt.Println("  " + infoStyle.Render(fmt.Sprintf("Size: %d bytes", session.Size)))
		fmt.Println("  " + infoStyle.Render(fmt.Sprintf("Path: %s", session.Path)))
		fmt.Println()
	}

	return nil
}

// removeSession deletes a snapshot file after confirmation
func removeSession(args []string) error {
	fmt.Println(headerStyle.Render("Remove Session"))
	fmt.Println()

	store, err := sessions.NewStore(cfg.GetSessionDir())
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	engine := engineFromArgs(args)

	saved, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	var exists bool
	for _, session := range saved {
		if session.Engine == engine {
			exists = true
			break
		}
	}

	if !exists {
		fmt.Println(infoStyle.Render(fmt.Sprintf("ℹ️  No saved session for %s", engine)))
		return nil
	}

	var confirm bool
	confirmForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Confirm removal").
				Description(fmt.Sprintf("Are you sure you want to remove the saved session for %s?", engine)).
				Value(&confirm),
		),
	)

	if err := confirmForm.Run(); err != nil {
		return err
	}

	if !confirm {
		fmt.Println(warningStyle.Render("Removal cancelled"))
		return nil
	}

	if err := store.Remove(engine); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	fmt.Println(activeStyle.Render(fmt.Sprintf("Removed saved session for %s", engine)))
	return nil
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionRemoveCmd)
	sessionCmd.AddCommand(sessionPathCmd)
	rootCmd.AddCommand(sessionCmd)
}
