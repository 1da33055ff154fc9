// Package cli defines the bearmcp command tree.
package cli

import (
	"bearmcp/internal/bear"
	"bearmcp/internal/config"
	"bearmcp/internal/logging"
	"bearmcp/internal/token"

	"github.com/spf13/cobra"
)

var (
	appLogger *logging.AppLogger
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bearmcp",
	Short: "MCP server and CLI for the Bear note-taking app",
	Long: `bearmcp exposes Bear's x-callback-url actions as Model Context Protocol
tools, so AI assistants can create, search and organize Bear notes.

Run without arguments it serves MCP over stdio, which is how MCP clients
launch it. The remaining commands are conveniences for humans: first-time
setup, token management, and direct note access from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		appLogger = logging.NewAppLogger()

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default action: serve MCP over stdio
		return runServe(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(toolsCmd)
}

// newClient builds a Bear client with the ambient token resolved for this
// process.
func newClient() *bear.Client {
	ambient := token.Resolve(cfg)
	if ambient == "" {
		appLogger.Debug("No ambient Bear API token; token-requiring tools need a per-call token")
	}
	return bear.NewClient(cfg, ambient, appLogger)
}
