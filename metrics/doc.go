// Package metrics provides Prometheus instrumentation for the execution
// orchestrator.
//
// All metrics live on a custom registry owned by the Collector; nothing is
// registered globally. The HTTP layer exposes the registry at /metrics.
package metrics
