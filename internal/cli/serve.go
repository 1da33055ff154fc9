package cli

import (
	"bearmcp/internal/bear"
	"bearmcp/internal/mcp"
	"bearmcp/internal/token"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Model Context Protocol on stdin/stdout",
	Long: `Starts the MCP server on the stdio transport. This is what MCP clients
(Claude Desktop and friends) execute; they send JSON-RPC on stdin and read
responses from stdout. All logging goes to stderr.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ambient := token.Resolve(cfg)
	if ambient == "" {
		appLogger.Warn("No Bear API token configured; data-returning tools will require a per-call token")
	}

	client := bear.NewClient(cfg, ambient, appLogger)
	server := mcp.NewServer(cfg, client, appLogger)
	return server.Start()
}
