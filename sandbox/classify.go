package sandbox

import (
	"fmt"
	"strings"
)

// Exit-code conventions of the docker/podman CLI. 137 is 128+SIGKILL: with
// swap pinned to the memory ceiling, a kill inside the container means the
// kernel OOM killer fired. 125 means the runtime itself failed to run the
// container (daemon unreachable, bad invocation) before any user code ran.
const (
	exitOOMKilled      = 137
	exitRuntimeFailure = 125
)

// networkDenialSignatures are the stderr patterns a Python process emits
// when it attempts outbound traffic under --network none. Matching is
// case-insensitive on the lowered stderr.
var networkDenialSignatures = []string{
	"network is unreachable",
	"temporary failure in name resolution",
	"connection refused",
	"[errno 101]",
	"[errno 111]",
	"[errno -3]",
}

// Classify maps a raw process result onto exactly one outcome. It is a pure
// total function: it never errors, and anything ambiguous falls through to
// RuntimeError rather than being dropped.
//
// Precedence, first match wins:
//  1. deadline elapsed                       -> Timeout
//  2. invocation never ran                   -> BackendUnavailable
//  3. OOM kill (exit 137)                    -> MemoryExceeded
//  4. runtime-level failure (exit 125)       -> BackendUnavailable
//  5. non-zero exit, network denial on stderr -> NetworkDenied
//  6. non-zero exit, anything else           -> RuntimeError
//  7. zero exit                              -> Success
func Classify(raw RawResult, policy LimitPolicy) Outcome {
	switch {
	case raw.TimedOut:
		return Failure(FailureTimeout,
			fmt.Sprintf("execution timed out after %s", policy.Timeout),
			raw.Stdout, raw.Stderr)

	case raw.StartErr != nil:
		return Failure(FailureBackendUnavailable,
			fmt.Sprintf("isolation backend unavailable: %v", raw.StartErr),
			raw.Stdout, raw.Stderr)

	case raw.ExitCode == exitOOMKilled:
		return Failure(FailureMemoryExceeded,
			fmt.Sprintf("memory limit of %dMB exceeded", policy.MemoryMB),
			raw.Stdout, raw.Stderr)

	case raw.ExitCode == exitRuntimeFailure:
		return Failure(FailureBackendUnavailable,
			strings.TrimSpace(raw.Stderr),
			raw.Stdout, raw.Stderr)

	case raw.ExitCode != 0 && !policy.NetworkEnabled && hasNetworkDenialSignature(raw.Stderr):
		return Failure(FailureNetworkDenied,
			"network access is disabled in the sandbox",
			raw.Stdout, raw.Stderr)

	case raw.ExitCode != 0:
		message := strings.TrimSpace(raw.Stderr)
		if message == "" {
			message = fmt.Sprintf("sandbox exited with code %d", raw.ExitCode)
		}
		return Failure(FailureRuntimeError, message, raw.Stdout, raw.Stderr)

	default:
		return Success(raw.Stdout)
	}
}

func hasNetworkDenialSignature(stderr string) bool {
	lowered := strings.ToLower(stderr)
	for _, sig := range networkDenialSignatures {
		if strings.Contains(lowered, sig) {
			return true
		}
	}
	return false
}
