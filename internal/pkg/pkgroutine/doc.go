// Package pkgroutine contains helpers for running long-lived background tasks.
//
// The Manager type limits concurrency, collects returned errors, and turns
// panics into recorded errors so that background work (the websocket hub,
// the notification dispatcher) does not crash the process silently.
package pkgroutine
