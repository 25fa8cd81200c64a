// Package main is the entry point for the saferun execution server.
//
// Saferun accepts untrusted Python code over HTTP (or MCP) and executes it
// inside a resource-constrained, network-isolated container sandbox,
// returning captured output or a classified failure.
package main
