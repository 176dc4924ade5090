// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config file, SCRY_ environment variables and
// command-line flags. It provides type-safe access to application settings
// while keeping configuration details separate from business logic.
package config
