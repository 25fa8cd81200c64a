// Package mcpserver provides the Model Context Protocol (MCP) server
// implementation.
//
// The mcpserver package implements an MCP-compliant server that exposes the
// execute_python tool over stdio or streamable HTTP. It uses the
// mark3labs/mcp-go library for the protocol details and delegates the
// actual execution to the sandbox supervisor.
//
// Usage:
//
//	server := mcpserver.New(config, logger, runner)
//	err := server.ServeStdio() // or server.ServeHTTP()
package mcpserver
