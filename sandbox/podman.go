package sandbox

import "go.uber.org/zap"

// PodmanBackend drives the Podman CLI as the isolation primitive. Podman's
// run surface is flag-compatible with Docker's, so it shares the argv
// builder.
type PodmanBackend struct {
	logger *zap.Logger
}

// Name returns the runtime binary name.
func (*PodmanBackend) Name() string {
	return "podman"
}

// RunArgs builds the hardened podman run invocation for one execution.
func (*PodmanBackend) RunArgs(ws Workspace, policy LimitPolicy) []string {
	return runArgs("podman", ws, policy)
}

// ForceRemove kills and removes the execution's container.
func (p *PodmanBackend) ForceRemove(ws Workspace) {
	forceRemove(p.logger, "podman", ws)
}
