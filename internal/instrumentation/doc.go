// Package instrumentation wires OpenTelemetry metrics for the server:
// tool invocations, provider API operations, and token refreshes,
// exported through a Prometheus reader.
//
// All recording methods are safe on a zero-value Metrics, so callers
// never need to branch on whether instrumentation is enabled.
package instrumentation
