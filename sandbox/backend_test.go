package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func argPair(args []string, flag string) (string, bool) {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func TestNewBackend(t *testing.T) {
	logger := zaptest.NewLogger(t)

	docker, err := NewBackend(logger, "docker")
	require.NoError(t, err)
	assert.Equal(t, "docker", docker.Name())

	podman, err := NewBackend(logger, "podman")
	require.NoError(t, err)
	assert.Equal(t, "podman", podman.Name())

	_, err = NewBackend(logger, "firecracker")
	require.Error(t, err)
}

func TestRunArgsIsolationFlags(t *testing.T) {
	ws := Workspace{ID: "test-id", Root: "/tmp/saferun-test"}
	backend := &DockerBackend{logger: zaptest.NewLogger(t)}

	args := backend.RunArgs(ws, testPolicy())

	require.Equal(t, "docker", args[0])
	require.Equal(t, "run", args[1])
	assert.Contains(t, args, "--rm")
	assert.Contains(t, args, "--read-only")

	name, ok := argPair(args, "--name")
	require.True(t, ok)
	assert.Equal(t, "saferun-test-id", name)

	mount, ok := argPair(args, "-v")
	require.True(t, ok)
	assert.Equal(t, "/tmp/saferun-test:/app:ro", mount)

	memory, ok := argPair(args, "--memory")
	require.True(t, ok)
	assert.Equal(t, "128m", memory)

	// Swap pinned to the memory ceiling disables paging entirely.
	swap, ok := argPair(args, "--memory-swap")
	require.True(t, ok)
	assert.Equal(t, memory, swap)

	cpus, ok := argPair(args, "--cpus")
	require.True(t, ok)
	assert.Equal(t, "1.00", cpus)

	pids, ok := argPair(args, "--pids-limit")
	require.True(t, ok)
	assert.Equal(t, "64", pids)

	user, ok := argPair(args, "--user")
	require.True(t, ok)
	assert.Equal(t, "65534:65534", user)

	caps, ok := argPair(args, "--cap-drop")
	require.True(t, ok)
	assert.Equal(t, "ALL", caps)

	secOpt, ok := argPair(args, "--security-opt")
	require.True(t, ok)
	assert.Equal(t, "no-new-privileges:true", secOpt)

	network, ok := argPair(args, "--network")
	require.True(t, ok)
	assert.Equal(t, "none", network)

	// No writable tmpfs unless the policy allows it.
	_, ok = argPair(args, "--tmpfs")
	assert.False(t, ok)

	// Image, then the interpreter invocation, terminate the argv.
	require.GreaterOrEqual(t, len(args), 3)
	assert.Equal(t, []string{"python:3.11-slim", "python", "/app/script.py"}, args[len(args)-3:])
}

func TestRunArgsNetworkEnabled(t *testing.T) {
	policy := testPolicy()
	policy.NetworkEnabled = true
	backend := &DockerBackend{logger: zaptest.NewLogger(t)}

	args := backend.RunArgs(Workspace{ID: "id", Root: "/tmp/ws"}, policy)

	network, ok := argPair(args, "--network")
	require.True(t, ok)
	assert.Equal(t, "bridge", network)
}

func TestRunArgsFilesystemWritable(t *testing.T) {
	policy := testPolicy()
	policy.FilesystemWritable = true
	backend := &DockerBackend{logger: zaptest.NewLogger(t)}

	args := backend.RunArgs(Workspace{ID: "id", Root: "/tmp/ws"}, policy)

	tmpfs, ok := argPair(args, "--tmpfs")
	require.True(t, ok)
	assert.Contains(t, tmpfs, "/tmp:")
	// The root filesystem stays read-only regardless.
	assert.Contains(t, args, "--read-only")
}

func TestPodmanRunArgsMirrorDocker(t *testing.T) {
	ws := Workspace{ID: "id", Root: "/tmp/ws"}
	docker := &DockerBackend{logger: zaptest.NewLogger(t)}
	podman := &PodmanBackend{logger: zaptest.NewLogger(t)}

	dockerArgs := docker.RunArgs(ws, testPolicy())
	podmanArgs := podman.RunArgs(ws, testPolicy())

	require.Equal(t, "podman", podmanArgs[0])
	assert.Equal(t, dockerArgs[1:], podmanArgs[1:])
}
