package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/isdmx/saferun/config"
	"github.com/isdmx/saferun/logger"
	"github.com/isdmx/saferun/mcpserver"
	"github.com/isdmx/saferun/metrics"
	"github.com/isdmx/saferun/sandbox"
)

// stubRunner answers with a canned result per staged script, standing in
// for the container runtime so the wiring can be exercised without Docker.
type stubRunner struct{}

func (stubRunner) RunCommand(_ context.Context, args []string) (string, string, int, error) {
	script := args[len(args)-1]
	if strings.Contains(script, "script.py") {
		return "4\n", "", 0, nil
	}
	return "", "unexpected invocation", 1, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Transport: "http",
			HTTPPort:  8080,
		},
		Backend: config.BackendConfig{
			Runtime: "docker",
			Image:   "python:3.11-slim",
		},
		Limits: config.LimitsConfig{
			TimeoutSec:   10,
			MemoryMB:     128,
			CPUs:         1.0,
			PidsLimit:    64,
			MaxCodeChars: 5000,
		},
		Logging: config.LoggingConfig{
			Mode:  "development",
			Level: "debug",
		},
	}
}

func TestConfigLoggerSupervisorIntegration(t *testing.T) {
	cfg := testConfig()

	log, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level)
	require.NoError(t, err)
	defer func() { _ = log.Sync() }()

	policy := sandbox.LimitPolicy{
		Timeout:      cfg.Limits.Timeout(),
		MemoryMB:     cfg.Limits.MemoryMB,
		CPUs:         cfg.Limits.CPUs,
		PidsLimit:    cfg.Limits.PidsLimit,
		MaxCodeChars: cfg.Limits.MaxCodeChars,
		Image:        cfg.Backend.Image,
	}

	sup, err := sandbox.NewSupervisor(log, policy, cfg.Backend.Runtime,
		sandbox.WithCommandRunner(stubRunner{}),
		sandbox.WithCollector(metrics.NewCollector()),
	)
	require.NoError(t, err)

	outcome := sup.Run(context.Background(), "print(2+2)")
	require.True(t, outcome.OK())
	assert.Equal(t, "4\n", outcome.Stdout)

	rejected := sup.Run(context.Background(), strings.Repeat("a", cfg.Limits.MaxCodeChars+1))
	assert.Equal(t, sandbox.FailureTooLong, rejected.Kind)
}

func TestSupervisorMCPServerIntegration(t *testing.T) {
	cfg := testConfig()
	log := zaptest.NewLogger(t)

	policy := sandbox.LimitPolicy{
		Timeout:      cfg.Limits.Timeout(),
		MemoryMB:     cfg.Limits.MemoryMB,
		CPUs:         cfg.Limits.CPUs,
		PidsLimit:    cfg.Limits.PidsLimit,
		MaxCodeChars: cfg.Limits.MaxCodeChars,
		Image:        cfg.Backend.Image,
	}

	sup, err := sandbox.NewSupervisor(log, policy, cfg.Backend.Runtime,
		sandbox.WithCommandRunner(stubRunner{}))
	require.NoError(t, err)

	server := mcpserver.New(cfg, log, sup)
	require.NotNil(t, server)
}

