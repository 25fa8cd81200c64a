package sandbox

import (
	"go.uber.org/zap"

	"github.com/isdmx/saferun/config"
	"github.com/isdmx/saferun/metrics"
)

// NewRunner builds the execution supervisor from application configuration.
// The limit policy is fixed here, once, for the lifetime of the process.
func NewRunner(logger *zap.Logger, cfg *config.Config, collector *metrics.Collector) (Runner, error) {
	policy := LimitPolicy{
		Timeout:            cfg.Limits.Timeout(),
		MemoryMB:           cfg.Limits.MemoryMB,
		CPUs:               cfg.Limits.CPUs,
		PidsLimit:          cfg.Limits.PidsLimit,
		MaxCodeChars:       cfg.Limits.MaxCodeChars,
		Image:              cfg.Backend.Image,
		NetworkEnabled:     cfg.Limits.NetworkEnabled,
		FilesystemWritable: cfg.Limits.FilesystemWritable,
	}

	return NewSupervisor(logger, policy, cfg.Backend.Runtime, WithCollector(collector))
}
