package llm

import "context"

// Client is the capability the agents need from the language-model service:
// a single text generation with a fixed system instruction.
// Implementations must be safe for sequential reuse within a run.
type Client interface {
	// GenerateWithSystem sends one prompt under the given system
	// instruction and returns the model's raw text reply.
	GenerateWithSystem(ctx context.Context, system, prompt string) (string, error)
}
