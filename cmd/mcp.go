package cmd

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/Xu-Jack11/aipartner/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing knowledge base search, web search and the ask pipeline to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Stdout carries the protocol; the logger writes to stderr.
		logger := newLogger(cfg)

		p, err := createPipeline(cfg, logger, nil)
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		logger.Info().Str("provider", p.provider.Name()).Msg("aipartner MCP server started on stdio")

		srv := mcpserver.NewServer(p.kb, p.web, p.provider)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
