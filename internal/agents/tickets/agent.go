package tickets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/teemow/inboxpilot/internal/agent"
	"github.com/teemow/inboxpilot/internal/config"
	"github.com/teemow/inboxpilot/internal/instrumentation"
	"github.com/teemow/inboxpilot/internal/llm"
	"github.com/teemow/inboxpilot/internal/logging"
)

const summarySystem = `You summarize support-ticket trends for an engineer's weekly review. Given a week-over-week volume table, point out the biggest movers and anything unusual in two or three sentences. Plain text only.`

// Agent is the ticket-trend agent.
type Agent struct {
	model   llm.Client
	path    string
	metrics *instrumentation.Metrics
	logger  *slog.Logger

	// Now and Out exist so tests can pin the clock and capture the report.
	Now func() time.Time
	Out io.Writer
}

// NewTrendAgent wires a trend agent from its collaborators. Metrics may be
// nil.
func NewTrendAgent(model llm.Client, path string, metrics *instrumentation.Metrics) *Agent {
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return &Agent{
		model:   model,
		path:    path,
		metrics: metrics,
		logger:  logging.WithAgent(slog.Default(), "tickets"),
		Now:     time.Now,
		Out:     os.Stdout,
	}
}

// NewAgent constructs the tickets agent against a real Gemini client.
func NewAgent(ctx context.Context, cfg config.Config, metrics *instrumentation.Metrics) (agent.Agent, error) {
	if cfg.TicketsCSV == "" {
		return nil, fmt.Errorf("INBOXPILOT_TICKETS_CSV is not set")
	}
	if err := cfg.RequireGeminiAPIKey(); err != nil {
		return nil, err
	}

	model, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	return NewTrendAgent(model, cfg.TicketsCSV, metrics), nil
}

// Name implements agent.Agent.
func (a *Agent) Name() string { return "tickets" }

// Description implements agent.Agent.
func (a *Agent) Description() string {
	return "Summarize week-over-week support ticket trends from a CSV export"
}

// Run reads the export, prints the trend table and appends a model
// summary. A failed summary call degrades to the table alone.
func (a *Agent) Run(ctx context.Context) error {
	f, err := os.Open(a.path)
	if err != nil {
		return fmt.Errorf("failed to open ticket export: %w", err)
	}
	defer f.Close()

	tickets, err := ParseTickets(f)
	if err != nil {
		return fmt.Errorf("failed to parse ticket export: %w", err)
	}

	trends := WeekOverWeek(tickets, a.Now())
	a.logger.Info("computed trends",
		slog.Int("tickets", len(tickets)), slog.Int("categories", len(trends)))

	table := renderTable(trends)
	if _, err := fmt.Fprintf(a.Out, "Ticket trends\n=============\n\n%s\n", table); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if len(trends) == 0 {
		return nil
	}

	summary, err := a.model.GenerateWithSystem(ctx, summarySystem, table)
	if err != nil {
		a.metrics.RecordLLMCall(ctx, "tickets", logging.StatusError)
		a.logger.Warn("summary call failed, reporting table only", logging.Err(err))
		return nil
	}
	a.metrics.RecordLLMCall(ctx, "tickets", logging.StatusSuccess)

	if _, err := fmt.Fprintf(a.Out, "%s\n", summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
