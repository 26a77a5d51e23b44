// Package config provides environment-based configuration.
//
// Loads settings from environment variables with development defaults and
// validates table names and the comment TTL policy at startup.
package config
