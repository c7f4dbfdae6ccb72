// Package mcp exposes the import transform as MCP tools over stdio.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/transform-imports/pkg/config"
	"github.com/gnana997/transform-imports/pkg/mcplog"
	"github.com/gnana997/transform-imports/pkg/parser"
)

const serverName = "transform-imports"

// Server implements the MCP server, exposing the import transform and the
// case style catalogue as tools.
type Server struct {
	mcpServer *server.MCPServer
	parser    *parser.Manager
	defaults  config.Table
	callLog   *mcplog.Logger // nil disables call logging
	logger    *slog.Logger
}

// NewServer creates an MCP server. Defaults is the table used when a call
// does not pass its own config; it may be empty.
func NewServer(pm *parser.Manager, defaults config.Table, callLog *mcplog.Logger, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		parser:   pm,
		defaults: defaults,
		callLog:  callLog,
		logger:   logger,
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer(serverName, version, opts...)
	s.mcpServer.AddTools(
		server.ServerTool{Tool: transformImportsTool(), Handler: s.handleTransformImports},
		server.ServerTool{Tool: listCaseStylesTool(), Handler: s.handleListCaseStyles},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP on stdio", "tools", len(RegisteredTools()))
	return server.ServeStdio(s.mcpServer)
}
