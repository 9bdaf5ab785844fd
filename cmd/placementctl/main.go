// Package main provides placementctl, an offline companion to the placement
// analytics service.
//
// Usage:
//
//	placementctl analyze <file>
//	placementctl analyze --records sheet.xlsx
package main

func main() {
	Execute()
}
