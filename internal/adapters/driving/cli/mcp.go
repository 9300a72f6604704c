package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medagent/internal/adapters/driving/mcp"
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

Tools:
  search_conditions       find stored conditions closest to a symptom query
  ask_medical_assistant   answer a question grounded on stored conditions

Resources:
  medagent://corpus/stats          collection size and store backend
  medagent://conditions/{query}    conditions for a URL-escaped query

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead, for example with the MCP Inspector.

Examples:
  medagent mcp serve
  medagent mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "medagent": {
        "command": "/path/to/medagent",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if searchService == nil {
		if err := ensureServices(cmd.Context(), false); err != nil {
			return err
		}
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search: searchService,
		Chat:   chatService,
		Corpus: corpusService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
