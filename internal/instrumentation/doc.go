// Package instrumentation provides OpenTelemetry metrics for inboxpilot
// agent runs.
//
// Because inboxpilot is a one-shot CLI rather than a long-running server,
// metrics are flushed to stdout at the end of a run rather than scraped.
// The exporter is opt-in via INBOXPILOT_METRICS=true.
//
// # Metrics
//
//   - agent_runs_total: Counter of agent runs by agent name and status
//   - agent_run_duration_seconds: Histogram of agent run durations
//   - llm_calls_total: Counter of language-model calls by component and status
//   - mailbox_mutations_total: Counter of mailbox mutations by operation and status
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "inboxpilot",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordAgentRun(ctx, "inbox", "success", time.Since(start))
package instrumentation
