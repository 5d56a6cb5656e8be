// Package cmd implements the command-line interface for inboxpilot.
//
// This package provides the following commands:
//   - list: Enumerate the registered agents by name and description
//   - run: Execute one agent to completion
//   - version: Display version information
//
// Invoking inboxpilot without a subcommand prints help.
package cmd
