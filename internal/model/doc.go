// Package model defines the domain types and value objects for the
// cdr2ddc CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (RawCircle, OutputCircle, Part, Cluster) are built in memory
// during a single conversion run and written once; nothing persists between
// runs.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
