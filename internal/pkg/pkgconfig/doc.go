// Package pkgconfig reads service configuration.
//
// Modules depend on the Config interface. Viper implements it over
// config/config.yaml, with PLACEMENT_* environment variables taking
// precedence and an optional .env file for local runs.
package pkgconfig
