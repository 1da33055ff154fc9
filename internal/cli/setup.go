package cli

import (
	"fmt"

	"bearmcp/internal/tui/helpers"
	"bearmcp/internal/tui/setupmenu"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive first-time setup",
	Long: `Launches a wizard that stores your Bear API token (OS keyring, with a
config-file fallback) and writes the initial configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := helpers.NewUIContext(0, 0, cfg, appLogger) // Dimensions set by the tea program
		menu := setupmenu.NewSetupModel(ctx)
		program := tea.NewProgram(menu, tea.WithAltScreen())

		finalModel, err := program.Run()
		if err != nil {
			return fmt.Errorf("setup failed: %w", err)
		}

		setup := finalModel.(*setupmenu.SetupModel)
		if setup.Cancelled {
			return fmt.Errorf("setup cancelled by user")
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Setup complete. Run `bearmcp serve` or add bearmcp to your MCP client.")
		return nil
	},
}
