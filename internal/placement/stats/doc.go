// Package stats aggregates normalized student records into batch statistics.
package stats
