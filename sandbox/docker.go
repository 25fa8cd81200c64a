package sandbox

import "go.uber.org/zap"

// DockerBackend drives the Docker CLI as the isolation primitive.
type DockerBackend struct {
	logger *zap.Logger
}

// Name returns the runtime binary name.
func (*DockerBackend) Name() string {
	return "docker"
}

// RunArgs builds the hardened docker run invocation for one execution.
func (*DockerBackend) RunArgs(ws Workspace, policy LimitPolicy) []string {
	return runArgs("docker", ws, policy)
}

// ForceRemove kills and removes the execution's container. A removed or
// already-gone container is not an error.
func (d *DockerBackend) ForceRemove(ws Workspace) {
	forceRemove(d.logger, "docker", ws)
}
