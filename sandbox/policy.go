package sandbox

import "time"

// LimitPolicy describes the resource envelope for one execution. It is
// built once at startup from configuration and treated as read-only; the
// same policy applies uniformly to every submission.
type LimitPolicy struct {
	// Timeout is the wall-clock budget for the whole run.
	Timeout time.Duration
	// MemoryMB is the container memory ceiling. Swap is pinned to the same
	// value so exceeding it means an OOM kill, not paging.
	MemoryMB int
	// CPUs is the CPU share (e.g. 0.5 = half a core).
	CPUs float64
	// PidsLimit caps the process count inside the sandbox (fork bombs).
	PidsLimit int
	// MaxCodeChars bounds the submitted source length; longer submissions
	// are rejected before any resource is allocated.
	MaxCodeChars int
	// Image is the runner image the backend launches.
	Image string
	// NetworkEnabled grants a network stack. Off by default.
	NetworkEnabled bool
	// FilesystemWritable mounts a writable tmpfs at /tmp. The root
	// filesystem and the staged script stay read-only either way.
	FilesystemWritable bool
}
