package sandbox

// FailureKind identifies why an execution did not succeed.
type FailureKind string

// The closed set of failure kinds. User-code faults (RuntimeError,
// NetworkDenied, MemoryExceeded, Timeout, TooLong) are distinct from
// infrastructure faults (BackendUnavailable) so callers can always tell
// "your code failed" from "the sandbox itself failed".
const (
	FailureNone               FailureKind = ""
	FailureTooLong            FailureKind = "too_long"
	FailureTimeout            FailureKind = "timeout"
	FailureMemoryExceeded     FailureKind = "memory_exceeded"
	FailureNetworkDenied      FailureKind = "network_denied"
	FailureRuntimeError       FailureKind = "runtime_error"
	FailureBackendUnavailable FailureKind = "backend_unavailable"
)

// Outcome is the immutable, tagged result of one execution attempt.
// A zero Kind means success; otherwise Message describes the failure and
// Stdout/Stderr carry whatever output was captured before the run ended.
type Outcome struct {
	Kind    FailureKind
	Message string
	Stdout  string
	Stderr  string
}

// OK reports whether the execution succeeded.
func (o Outcome) OK() bool {
	return o.Kind == FailureNone
}

// Success builds a success outcome carrying captured stdout.
func Success(stdout string) Outcome {
	return Outcome{Stdout: stdout}
}

// Failure builds a failure outcome of the given kind.
func Failure(kind FailureKind, message, stdout, stderr string) Outcome {
	return Outcome{Kind: kind, Message: message, Stdout: stdout, Stderr: stderr}
}

// RawResult is everything the supervisor observed about one terminated
// sandbox process. It is assembled only after the process has exited and
// both output streams have been fully drained.
type RawResult struct {
	// TimedOut is set when the wall-clock deadline elapsed before the
	// process exited.
	TimedOut bool
	// StartErr is set when the backend invocation could not be started or
	// run at all (runtime binary missing, daemon unreachable).
	StartErr error
	ExitCode int
	Stdout   string
	Stderr   string
}
