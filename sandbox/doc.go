// Package sandbox provides secure execution of untrusted Python code.
//
// The sandbox package implements the execution orchestrator: it stages a
// submitted source string into a single-use workspace, launches it inside a
// network-isolated, resource-limited container via one of the supported
// isolation backends (Docker, Podman), races the run against the configured
// timeout, and classifies the raw process result into a closed set of
// outcome kinds.
//
// Usage:
//
//	sup, err := sandbox.NewSupervisor(logger, policy, "docker")
//	outcome := sup.Run(ctx, "print('Hello, World!')")
//	if outcome.OK() {
//	    fmt.Println(outcome.Stdout)
//	}
package sandbox
