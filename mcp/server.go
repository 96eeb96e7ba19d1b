// Package mcp implements a stdio MCP server so AI agents can normalize
// expressions, render continued fractions and run analyses.
package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/pcfscope/server/catalog"
	"github.com/pcfscope/server/normalize"
	"github.com/pcfscope/server/settings"
)

type Server struct {
	version    string
	store      *settings.Store
	catalog    *catalog.Catalog
	normalizer *normalize.Normalizer
}

func NewServer(version string, store *settings.Store, cat *catalog.Catalog) *Server {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Server{
		version:    version,
		store:      store,
		catalog:    cat,
		normalizer: normalize.New(cat),
	}
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("pcfscope", s.version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	srv.AddTools(s.tools()...)
	return srv
}

// Run serves MCP over stdin/stdout until ctx is cancelled or stdin closes.
// Logs go to stderr so they never mix with protocol output.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("MCP server starting", "version", s.version)
	return server.NewStdioServer(s.MCPServer()).Listen(ctx, os.Stdin, os.Stdout)
}
