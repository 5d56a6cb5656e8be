package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency
const (
	attrAgent     = "agent"
	attrComponent = "component"
	attrOperation = "operation"
	attrStatus    = "status"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a no-op recorder; every method tolerates uninitialized
// instruments so callers never need nil checks.
type Metrics struct {
	agentRunsTotal        metric.Int64Counter
	agentRunDuration      metric.Float64Histogram
	llmCallsTotal         metric.Int64Counter
	mailboxMutationsTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.agentRunsTotal, err = meter.Int64Counter(
		"agent_runs_total",
		metric.WithDescription("Total number of agent runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_runs_total counter: %w", err)
	}

	m.agentRunDuration, err = meter.Float64Histogram(
		"agent_run_duration_seconds",
		metric.WithDescription("Agent run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_run_duration_seconds histogram: %w", err)
	}

	m.llmCallsTotal, err = meter.Int64Counter(
		"llm_calls_total",
		metric.WithDescription("Total number of language-model calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm_calls_total counter: %w", err)
	}

	m.mailboxMutationsTotal, err = meter.Int64Counter(
		"mailbox_mutations_total",
		metric.WithDescription("Total number of mailbox mutations"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailbox_mutations_total counter: %w", err)
	}

	return m, nil
}

// RecordAgentRun records one agent run with its status and duration.
// Status should be one of: "success", "error".
func (m *Metrics) RecordAgentRun(ctx context.Context, agent, status string, duration time.Duration) {
	if m.agentRunsTotal == nil || m.agentRunDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := metric.WithAttributes(
		attr(attrAgent, agent),
		attr(attrStatus, status),
	)

	m.agentRunsTotal.Add(ctx, 1, attrs)
	m.agentRunDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordLLMCall records one language-model call made by a component.
// Status should be one of: "success", "error".
func (m *Metrics) RecordLLMCall(ctx context.Context, component, status string) {
	if m.llmCallsTotal == nil {
		return // Instrumentation not initialized
	}

	m.llmCallsTotal.Add(ctx, 1, metric.WithAttributes(
		attr(attrComponent, component),
		attr(attrStatus, status),
	))
}

// RecordMailboxMutation records one mailbox mutation (archive, label, draft).
// Status should be one of: "success", "error".
func (m *Metrics) RecordMailboxMutation(ctx context.Context, operation, status string) {
	if m.mailboxMutationsTotal == nil {
		return // Instrumentation not initialized
	}

	m.mailboxMutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attr(attrOperation, operation),
		attr(attrStatus, status),
	))
}
