// Package agent defines the capability interface every inboxpilot agent
// implements and a static registry mapping agent names to constructors.
//
// Agents are registered explicitly by the CLI layer at startup. The registry
// is not safe for concurrent registration; register everything before use.
package agent
