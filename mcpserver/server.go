package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/isdmx/saferun/config"
	"github.com/isdmx/saferun/sandbox"
)

// MCPServer represents the MCP server
type MCPServer struct {
	config    *config.Config
	logger    *zap.Logger
	runner    sandbox.Runner
	mcpServer *server.MCPServer
}

// toolResult is the JSON payload returned for every tool call.
type toolResult struct {
	Output string `json:"output,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// New creates a new MCPServer
func New(cfg *config.Config, logger *zap.Logger, runner sandbox.Runner) *MCPServer {
	s := &MCPServer{
		config: cfg,
		logger: logger,
		runner: runner,
	}

	s.mcpServer = server.NewMCPServer("saferun-executor", "A secure Python code execution server")
	s.registerExecutePythonTool()

	return s
}

// registerExecutePythonTool registers the execute_python tool
func (s *MCPServer) registerExecutePythonTool() {
	tool := mcp.Tool{
		Name:        "execute_python",
		Description: "Execute untrusted Python code in a network-isolated, resource-limited sandbox",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Python source code to execute",
				},
			},
			Required: []string{"code"},
		},
	}

	s.mcpServer.AddTool(tool, s.handleExecutePython)
}

// handleExecutePython handles the execute_python tool
func (s *MCPServer) handleExecutePython(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return nil, fmt.Errorf("code parameter is required: %w", err)
	}

	s.logger.Info("executing code in sandbox", zap.Int("code_len", len(code)))

	outcome := s.runner.Run(ctx, code)

	var result toolResult
	if outcome.OK() {
		result.Output = outcome.Stdout
	} else {
		result.Kind = string(outcome.Kind)
		result.Error = outcome.Message
		result.Stdout = outcome.Stdout
		result.Stderr = outcome.Stderr
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(payload),
			},
		},
		IsError: !outcome.OK(),
	}, nil
}

// ServeStdio starts the server on stdio
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server on stdio")
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP starts the server on HTTP
func (s *MCPServer) ServeHTTP() error {
	port := s.config.Server.HTTPPort
	s.logger.Info("starting MCP server on HTTP", zap.Int("port", port))

	httpServer := server.NewStreamableHTTPServer(s.mcpServer)
	return httpServer.Start(fmt.Sprintf(":%d", port))
}
