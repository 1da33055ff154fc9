package mcp

import (
	"context"
	"errors"
	"fmt"

	"bearmcp/internal/bear"
	"bearmcp/internal/config"
	"bearmcp/internal/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "bearmcp"
	serverVersion = "1.0.0"
)

// Server represents an MCP server instance using mcp-go
type Server struct {
	config    *config.Config
	logger    *logging.AppLogger
	client    *bear.Client
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, client *bear.Client, logger *logging.AppLogger) *Server {
	return &Server{
		config: cfg,
		logger: logger,
		client: client,
	}
}

// Start initializes the server, registers the tool catalog and serves the
// stdio transport until EOF or termination.
func (s *Server) Start() error {
	s.logger.Info("Initializing MCP server")

	s.mcpServer = server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(true),
	)

	count := s.registerTools()
	s.logger.Info("Tool catalog registered", "toolCount", count)

	s.logger.Info("MCP server created, starting stdio communication")
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the MCP server
func (s *Server) Stop() error {
	s.logger.Info("Stopping MCP server")
	// The mcp-go server handles cleanup when the stdio transport ends
	return nil
}

// registerTools adds one MCP tool per catalog entry and returns the count.
func (s *Server) registerTools() int {
	catalog := bear.Catalog()
	for _, tool := range catalog {
		s.mcpServer.AddTool(buildTool(tool), s.makeHandler(tool))
	}
	return len(catalog)
}

// buildTool translates a catalog entry into an mcp-go tool definition.
func buildTool(t bear.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}

	for _, p := range t.Params {
		switch p.Type {
		case bear.TypeBool:
			propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
			if p.Required {
				propOpts = append(propOpts, mcp.Required())
			}
			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))

		default:
			propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
			if p.Required {
				propOpts = append(propOpts, mcp.Required())
			}
			if len(p.Enum) > 0 {
				propOpts = append(propOpts, mcp.Enum(p.Enum...))
			}
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}

	if t.RequiresToken {
		opts = append(opts, mcp.WithString("token",
			mcp.Description("Bear API token; optional when an ambient token is configured"),
		))
	}

	return mcp.NewTool(t.Name, opts...)
}

// makeHandler returns the generic handler for one catalog entry. Invalid
// arguments surface as protocol-level errors; everything downstream of a
// dispatched URL (open failures, decode failures, timeouts) is reported as
// a tool-execution failure.
func (s *Server) makeHandler(t bear.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.logger.Debug("Tool invoked", "tool", t.Name, "action", t.Action)

		out, err := t.Execute(ctx, s.client, req.GetArguments())
		if err != nil {
			s.logger.Error("Tool execution failed",
				"tool", t.Name,
				"action", t.Action,
				"error", err,
			)
			if errors.Is(err, bear.ErrInvalidParams) {
				return nil, err
			}
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", t.Action, err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}
}
