// Package model defines the domain types for the sdkrel CLI.
//
// The release domain is intentionally small: dotted-triple version
// numbers, the set of versions a change run operates on, manifest file
// kinds, and the CLIError type that carries process exit codes from
// command handlers back to the root command.
package model
