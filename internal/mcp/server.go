// Package mcp exposes the knowledge base, web search and completion
// pipeline as Model Context Protocol tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/Xu-Jack11/aipartner/internal/knowledge"
	"github.com/Xu-Jack11/aipartner/internal/llm"
	"github.com/Xu-Jack11/aipartner/internal/websearch"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the study assistant tools.
type Server struct {
	kb       *knowledge.Base
	web      *websearch.Client
	provider llm.Provider
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. A nil web client disables the
// web_search tool and a nil provider disables ask.
func NewServer(kb *knowledge.Base, web *websearch.Client, provider llm.Provider) *Server {
	s := &Server{
		kb:       kb,
		web:      web,
		provider: provider,
	}

	s.mcp = server.NewMCPServer(
		"aipartner",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchKnowledgeBaseTool, s.handleSearchKnowledgeBase)
	if s.web != nil {
		s.mcp.AddTool(webSearchTool, s.handleWebSearch)
	}
	if s.provider != nil {
		s.mcp.AddTool(askTool, s.handleAsk)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
