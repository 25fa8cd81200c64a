// Package httpserver provides the HTTP collaborator over the execution
// orchestrator.
//
// Endpoints:
//
//	GET  /         - demo page for submitting code from a browser
//	POST /run      - execute a code submission, JSON in/out
//	GET  /healthz  - health check
//	GET  /metrics  - Prometheus metrics
//
// The layer is intentionally thin: it parses the submission, invokes the
// supervisor once, and maps the outcome onto transport status codes.
package httpserver
