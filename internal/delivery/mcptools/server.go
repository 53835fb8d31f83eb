package mcptools

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	serverName    = "ultrascore"
	serverVersion = "1.0.0"
)

// NewServer creates an MCP server exposing the analysis and scoring tools
func NewServer(analyzer Analyzer, logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	analyzeTool := NewAnalyzeTool(analyzer, logger)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	scoreTool := NewScoreTool()
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	return s
}
