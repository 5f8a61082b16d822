// Package mcp exposes the engine operations as MCP tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/figbridge/figbridge/pkg/engine"
	"github.com/figbridge/figbridge/pkg/mcplog"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for figbridge, exposing ingestion,
// transformation, token extraction, analysis and alias tools.
type Server struct {
	mcpServer *server.MCPServer
	engine    *engine.Engine
	logger    *mcplog.Logger // may be nil when call logging is disabled
}

// NewServer creates a new MCP server backed by the given engine. logger may
// be nil to disable JSONL tool-call logging.
func NewServer(eng *engine.Engine, logger *mcplog.Logger) *Server {
	s := &Server{engine: eng, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer(
		"figbridge",
		serverVersion,
		opts...,
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: ingestComponentsTool(), Handler: s.handleIngestComponents},
		server.ServerTool{Tool: getComponentsTool(), Handler: s.handleGetComponents},
		server.ServerTool{Tool: transformComponentsTool(), Handler: s.handleTransformComponents},
		server.ServerTool{Tool: extractTokensTool(), Handler: s.handleExtractTokens},
		server.ServerTool{Tool: analyzeComponentsTool(), Handler: s.handleAnalyzeComponents},
		server.ServerTool{Tool: searchComponentsTool(), Handler: s.handleSearchComponents},
		server.ServerTool{Tool: updateComponentNameTool(), Handler: s.handleUpdateComponentName},
		server.ServerTool{Tool: deleteSessionTool(), Handler: s.handleDeleteSession},
		server.ServerTool{Tool: listSessionsTool(), Handler: s.handleListSessions},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
