package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Backend translates a (workspace, policy) pair into an invocation of the
// external isolation primitive. The primitive is a black box reached
// through a narrow argv surface: RunArgs builds the launch command, the
// supervisor waits on it, and ForceRemove is the kill switch that tears
// down the container and every process inside it.
type Backend interface {
	// Name returns the runtime binary this backend drives.
	Name() string
	// RunArgs builds the full launch argv for one execution. The container
	// is named after the workspace ID so it can be addressed for removal.
	RunArgs(ws Workspace, policy LimitPolicy) []string
	// ForceRemove kills and removes the named container. Used both as the
	// timeout kill path and as a safety net when --rm did not fire.
	ForceRemove(ws Workspace)
}

const forceRemoveTimeout = 5 * time.Second

// containerName derives the container name for a workspace.
func containerName(ws Workspace) string {
	return "saferun-" + ws.ID
}

// runArgs builds the hardened launch argv shared by the docker and podman
// backends (their CLI surfaces are compatible).
//
// Isolation guarantees:
//   - workspace mounted read-only at a fixed in-sandbox path
//   - read-only root filesystem (writable tmpfs at /tmp only if the policy
//     allows it)
//   - no network stack unless the policy enables one
//   - memory ceiling with swap disabled (exceeding it is an OOM kill)
//   - CPU share and process-count ceilings
//   - non-root user, all capabilities dropped, no-new-privileges
//   - container removed by the runtime once the process exits
func runArgs(runtime string, ws Workspace, policy LimitPolicy) []string {
	memory := strconv.Itoa(policy.MemoryMB) + "m"

	args := []string{
		runtime, "run", "--rm",
		"--name", containerName(ws),
		"-v", ws.Root + ":" + MountPath + ":ro",
		"--workdir", MountPath,
		"--read-only",
		"--memory", memory,
		"--memory-swap", memory,
		"--cpus", strconv.FormatFloat(policy.CPUs, 'f', 2, 64),
		"--pids-limit", strconv.Itoa(policy.PidsLimit),
		"--user", "65534:65534",
		"--cap-drop", "ALL",
		"--security-opt", "no-new-privileges:true",
	}

	if policy.NetworkEnabled {
		args = append(args, "--network", "bridge")
	} else {
		args = append(args, "--network", "none")
	}

	if policy.FilesystemWritable {
		args = append(args, "--tmpfs", "/tmp:rw,noexec,nosuid,size=64m")
	}

	args = append(args, policy.Image, "python", MountPath+"/"+ScriptName)

	return args
}

// forceRemove removes a container by name. Errors are logged but not
// returned; "no such container" is expected when --rm already cleaned up.
func forceRemove(logger *zap.Logger, runtime string, ws Workspace) {
	ctx, cancel := context.WithTimeout(context.Background(), forceRemoveTimeout)
	defer cancel()

	name := containerName(ws)
	out, err := exec.CommandContext(ctx, runtime, "rm", "-f", name).CombinedOutput()
	if err != nil && !bytes.Contains(bytes.ToLower(out), []byte("no such container")) {
		logger.Warn("container force remove failed",
			zap.String("runtime", runtime),
			zap.String("container", name),
			zap.String("output", string(out)),
			zap.Error(err))
	}
}

// NewBackend creates an isolation backend for the named container runtime.
func NewBackend(logger *zap.Logger, runtime string) (Backend, error) {
	switch runtime {
	case "docker":
		return &DockerBackend{logger: logger}, nil
	case "podman":
		return &PodmanBackend{logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", runtime)
	}
}
