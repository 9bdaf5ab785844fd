// Package pkgmetrics owns the Prometheus registry of the service.
//
// It exposes an HTTP middleware recording request counts and latency per
// matched route, counters for the placement upload pipeline, and the
// /metrics exposition handler.
package pkgmetrics
