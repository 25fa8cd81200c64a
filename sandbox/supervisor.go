package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/isdmx/saferun/metrics"
)

// Supervisor owns the full lifecycle of one execution: length check,
// workspace staging, backend launch, the timeout race, teardown, and
// outcome classification. Run may be called concurrently; every invocation
// owns a private workspace and container, and the only shared state is the
// read-only policy and the concurrency-safe metrics collector.
type Supervisor struct {
	logger    *zap.Logger
	policy    LimitPolicy
	backend   Backend
	collector *metrics.Collector
	cmdRunner CommandRunner
	fs        FileSystem
}

// SupervisorOption defines a functional option for Supervisor
type SupervisorOption func(*Supervisor)

// WithCommandRunner sets the CommandRunner for Supervisor
func WithCommandRunner(cmdRunner CommandRunner) SupervisorOption {
	return func(s *Supervisor) {
		s.cmdRunner = cmdRunner
	}
}

// WithFileSystem sets the FileSystem for Supervisor
func WithFileSystem(fs FileSystem) SupervisorOption {
	return func(s *Supervisor) {
		s.fs = fs
	}
}

// WithCollector sets the metrics collector for Supervisor
func WithCollector(collector *metrics.Collector) SupervisorOption {
	return func(s *Supervisor) {
		s.collector = collector
	}
}

// WithBackend overrides the isolation backend for Supervisor
func WithBackend(backend Backend) SupervisorOption {
	return func(s *Supervisor) {
		s.backend = backend
	}
}

// NewSupervisor creates a Supervisor driving the named container runtime
// ("docker" or "podman") under the given policy.
func NewSupervisor(logger *zap.Logger, policy LimitPolicy, runtime string, opts ...SupervisorOption) (*Supervisor, error) {
	backend, err := NewBackend(logger, runtime)
	if err != nil {
		return nil, err
	}

	s := &Supervisor{
		logger:    logger,
		policy:    policy,
		backend:   backend,
		cmdRunner: &RealCommandRunner{},
		fs:        &RealFileSystem{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Policy returns the supervisor's limit policy.
func (s *Supervisor) Policy() LimitPolicy {
	return s.policy
}

// Run executes one submission end to end and returns its classified
// outcome. It never returns a Go error: infrastructure faults surface as
// BackendUnavailable outcomes, distinct from user-code failures. The
// workspace is released and the container reaped on every exit path.
func (s *Supervisor) Run(ctx context.Context, code string) Outcome {
	if len(code) > s.policy.MaxCodeChars {
		// Rejected before any workspace or process exists.
		return Failure(FailureTooLong,
			fmt.Sprintf("code too long (max %d characters)", s.policy.MaxCodeChars), "", "")
	}

	start := time.Now()
	if s.collector != nil {
		s.collector.ActiveExecutions.Inc()
		defer s.collector.ActiveExecutions.Dec()
	}

	outcome := s.supervise(ctx, code)

	if s.collector != nil {
		s.collector.ExecutionsTotal.WithLabelValues(outcomeLabel(outcome)).Inc()
		s.collector.ExecutionDuration.Observe(time.Since(start).Seconds())
	}

	s.logger.Info("execution finished",
		zap.String("outcome", outcomeLabel(outcome)),
		zap.Duration("duration", time.Since(start)),
		zap.Int("stdout_len", len(outcome.Stdout)),
		zap.Int("stderr_len", len(outcome.Stderr)))

	return outcome
}

// supervise stages the code, races the sandbox process against the
// deadline, and classifies whatever it observed.
func (s *Supervisor) supervise(ctx context.Context, code string) Outcome {
	ws, err := AcquireWorkspace(s.fs, code)
	if err != nil {
		// Staging failure is an infrastructure fault, not the user's code.
		return Failure(FailureBackendUnavailable, err.Error(), "", "")
	}
	defer func() {
		if releaseErr := ws.Release(s.fs); releaseErr != nil {
			s.logger.Error("workspace release failed",
				zap.String("workspace", ws.Root), zap.Error(releaseErr))
		}
	}()

	s.logger.Debug("sandbox launching",
		zap.String("id", ws.ID),
		zap.String("backend", s.backend.Name()),
		zap.Int("memory_mb", s.policy.MemoryMB),
		zap.Float64("cpus", s.policy.CPUs),
		zap.Duration("timeout", s.policy.Timeout))

	runCtx, cancel := context.WithTimeout(ctx, s.policy.Timeout)
	defer cancel()

	// The timeout is a race: RunCommand blocks until the process exits or
	// runCtx expires, whichever comes first. On expiry the client process
	// is killed and the loser is actively cancelled below by tearing down
	// the container, descendants included.
	stdout, stderr, exitCode, runErr := s.cmdRunner.RunCommand(runCtx, s.backend.RunArgs(ws, s.policy))

	timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded)

	// Safety net on every non-clean path: --rm does not fire when the
	// client was killed mid-run or the daemon misbehaved.
	if timedOut || runErr != nil || exitCode != 0 {
		s.backend.ForceRemove(ws)
	}

	raw := RawResult{
		TimedOut: timedOut,
		StartErr: runErr,
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
	}

	return Classify(raw, s.policy)
}

func outcomeLabel(o Outcome) string {
	if o.OK() {
		return "success"
	}
	return string(o.Kind)
}
