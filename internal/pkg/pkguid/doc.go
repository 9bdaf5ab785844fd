// Package pkguid provides helpers for generating unique identifiers.
//
// String IDs (UUIDv7) are used for correlation and event IDs; numeric
// Snowflake IDs give notifications a time-ordered sequence number.
package pkguid
