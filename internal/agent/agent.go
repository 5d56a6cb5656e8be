package agent

import (
	"context"
	"fmt"
	"sort"
)

// Agent is the capability every registered agent implements.
type Agent interface {
	// Name returns the registry name of the agent.
	Name() string

	// Description returns a one-line summary shown by `inboxpilot list`.
	Description() string

	// Run executes the agent once. Implementations own their full
	// lifecycle: fetching inputs, calling external services, applying
	// side effects and printing their briefing.
	Run(ctx context.Context) error
}

// Constructor builds an agent instance. Construction may fail, for example
// when a required credential is missing.
type Constructor func(ctx context.Context) (Agent, error)

// Registration pairs an agent name and description with its constructor so
// `list` can enumerate agents without constructing them.
type Registration struct {
	Name        string
	Description string
	New         Constructor
}

// Registry is a static name-to-constructor table.
type Registry struct {
	entries map[string]Registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Registration)}
}

// Register adds a registration. Registering the same name twice is a
// programming error and panics.
func (r *Registry) Register(reg Registration) {
	if _, exists := r.entries[reg.Name]; exists {
		panic(fmt.Sprintf("agent %q registered twice", reg.Name))
	}
	r.entries[reg.Name] = reg
}

// List returns all registrations sorted by name.
func (r *Registry) List() []Registration {
	regs := make([]Registration, 0, len(r.entries))
	for _, reg := range r.entries {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool {
		return regs[i].Name < regs[j].Name
	})
	return regs
}

// Lookup returns the registration for name.
func (r *Registry) Lookup(name string) (Registration, error) {
	reg, ok := r.entries[name]
	if !ok {
		return Registration{}, fmt.Errorf("unknown agent %q", name)
	}
	return reg, nil
}
