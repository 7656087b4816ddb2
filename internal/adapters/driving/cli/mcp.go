package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/dvsage-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server communicates over stdio using JSON-RPC and exposes an "ask"
tool backed by the same retrieval pipeline as the ask command.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "dvsage": {
        "command": "/path/to/dvsage",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{Ask: askService})
	if err != nil {
		return err
	}
	return server.Run(cmd.Context())
}
