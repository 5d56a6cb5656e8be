package cmd

import (
	"context"

	"github.com/teemow/inboxpilot/internal/agent"
	"github.com/teemow/inboxpilot/internal/agents/inbox"
	"github.com/teemow/inboxpilot/internal/agents/tickets"
	"github.com/teemow/inboxpilot/internal/config"
	"github.com/teemow/inboxpilot/internal/instrumentation"
)

// newAgentRegistry assembles the static agent table. Constructors run
// lazily so `list` never touches credentials.
func newAgentRegistry(cfg config.Config, metrics *instrumentation.Metrics) *agent.Registry {
	r := agent.NewRegistry()

	r.Register(agent.Registration{
		Name:        "inbox",
		Description: "Triage recent mail, draft replies and watch for latency, missing meeting links and stuck threads",
		New: func(ctx context.Context) (agent.Agent, error) {
			return inbox.NewAgent(ctx, cfg, metrics)
		},
	})

	r.Register(agent.Registration{
		Name:        "tickets",
		Description: "Summarize week-over-week support ticket trends from a CSV export",
		New: func(ctx context.Context) (agent.Agent, error) {
			return tickets.NewAgent(ctx, cfg, metrics)
		},
	})

	return r
}
