// Package main is the entry point for the saferun execution server.
//
// The application uses Uber's fx framework for dependency injection and
// lifecycle management, with zap for structured logging and viper for
// configuration.
package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/isdmx/saferun/config"
	"github.com/isdmx/saferun/httpserver"
	"github.com/isdmx/saferun/logger"
	"github.com/isdmx/saferun/mcpserver"
	"github.com/isdmx/saferun/metrics"
	"github.com/isdmx/saferun/sandbox"
)

func main() {
	app := fx.New(
		// Provide dependencies
		fx.Provide(
			// Config
			config.New,

			// Logger with configuration
			logger.NewFromConfig,

			// Prometheus collector
			metrics.NewCollector,

			// Execution supervisor based on config
			sandbox.NewRunner,

			// Collaborator layers
			httpserver.New,
			mcpserver.New,
		),

		// Start the appropriate transport based on config
		fx.Invoke(
			func(lc fx.Lifecycle, cfg *config.Config, httpSrv *httpserver.Server, mcpSrv *mcpserver.MCPServer) {
				switch cfg.Server.Transport {
				case "http":
					lc.Append(fx.Hook{
						OnStart: func(context.Context) error {
							go func() {
								if err := httpSrv.Start(); err != nil {
									panic(err)
								}
							}()
							return nil
						},
						OnStop: httpSrv.Shutdown,
					})
				case "mcp-stdio":
					go func() {
						if err := mcpSrv.ServeStdio(); err != nil {
							panic(err)
						}
					}()
				case "mcp-http":
					go func() {
						if err := mcpSrv.ServeHTTP(); err != nil {
							panic(err)
						}
					}()
				default:
					panic("unsupported transport: " + cfg.Server.Transport)
				}
			},
		),

		// Use the application logger for fx logs
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	// Start the application
	app.Run()
}
