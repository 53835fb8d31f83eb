package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/ultrascore/backend/internal/delivery/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve analyze_product and score_attributes as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireGemini(); err != nil {
			return err
		}

		analysis, err := newAnalysisService(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		logger.Info("starting MCP server on stdio")
		return server.ServeStdio(mcptools.NewServer(analysis, logger))
	},
}
