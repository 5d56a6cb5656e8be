package inbox

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/teemow/inboxpilot/internal/agent"
	"github.com/teemow/inboxpilot/internal/calendar"
	"github.com/teemow/inboxpilot/internal/config"
	"github.com/teemow/inboxpilot/internal/gmail"
	"github.com/teemow/inboxpilot/internal/instrumentation"
	"github.com/teemow/inboxpilot/internal/llm"
	"github.com/teemow/inboxpilot/internal/logging"
)

// Pipeline is the inbox agent: fetch, classify and apply, partition, draft,
// watch, render briefing. It holds no state across runs.
type Pipeline struct {
	mailbox    Mailbox
	calendar   Calendar
	classifier *Classifier
	drafter    *Drafter
	watchman   *Watchman

	cfg     config.Config
	metrics *instrumentation.Metrics
	logger  *slog.Logger

	// Now and Out exist so tests can pin the clock and capture the
	// briefing.
	Now func() time.Time
	Out io.Writer
}

// NewPipeline wires a pipeline from its collaborators. Metrics may be nil.
func NewPipeline(mailbox Mailbox, cal Calendar, model llm.Client, cfg config.Config, metrics *instrumentation.Metrics) *Pipeline {
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return &Pipeline{
		mailbox:    mailbox,
		calendar:   cal,
		classifier: NewClassifier(model, metrics),
		drafter:    NewDrafter(model, mailbox, metrics),
		watchman:   NewWatchman(model, mailbox, metrics),
		cfg:        cfg,
		metrics:    metrics,
		logger:     logging.WithAgent(slog.Default(), "inbox"),
		Now:        time.Now,
		Out:        os.Stdout,
	}
}

// NewAgent constructs the inbox agent against real Gmail, Calendar and
// Gemini clients. Construction fails fast on missing credentials so the run
// aborts before any mailbox access.
func NewAgent(ctx context.Context, cfg config.Config, metrics *instrumentation.Metrics) (agent.Agent, error) {
	if err := cfg.RequireGeminiAPIKey(); err != nil {
		return nil, err
	}

	model, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	mailbox, err := gmail.NewClientForAccount(ctx, cfg.Account)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client: %w", err)
	}

	cal, err := calendar.NewClientForAccount(ctx, cfg.Account)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar client: %w", err)
	}

	return NewPipeline(mailbox, cal, model, cfg, metrics), nil
}

// Name implements agent.Agent.
func (p *Pipeline) Name() string { return "inbox" }

// Description implements agent.Agent.
func (p *Pipeline) Description() string {
	return "Triage recent mail, draft replies and watch for latency, missing meeting links and stuck threads"
}

// Run executes one pipeline pass. Only a fetch failure aborts; every later
// stage degrades per item and the briefing reports whatever succeeded.
func (p *Pipeline) Run(ctx context.Context) error {
	messages, err := p.mailbox.ListRecent(maxFetched)
	if err != nil {
		return fmt.Errorf("failed to fetch recent messages: %w", err)
	}
	p.logger.Info("fetched messages", logging.Stage("fetch"), slog.Int("count", len(messages)))

	decisions := p.classifier.Classify(ctx, messages, p.cfg.VIPDomains, p.cfg.VIPSenders)
	p.applyDecisions(ctx, decisions)

	candidates, vip := partition(messages, decisions)
	p.logger.Info("partitioned messages", logging.Stage("partition"),
		slog.Int("candidates", len(candidates)), slog.Int("vip", len(vip)))

	drafts := p.drafter.Draft(ctx, candidates)

	events, err := p.calendar.ListUpcoming(watchHorizon)
	if err != nil {
		p.logger.Warn("calendar unavailable, watching without events",
			logging.Stage("watch"), logging.Err(err))
		events = nil
	}

	now := p.Now()
	inWorkHours := now.Hour() >= p.cfg.WorkHoursStart && now.Hour() < p.cfg.WorkHoursEnd
	interventions := p.watchman.Watch(ctx, unionByID(candidates, vip), events,
		p.cfg.WorkHoursStart, p.cfg.WorkHoursEnd, inWorkHours, now)

	briefing := Briefing{VIP: vip, Drafts: drafts, Interventions: interventions}
	if _, err := io.WriteString(p.Out, briefing.Render()); err != nil {
		return fmt.Errorf("failed to write briefing: %w", err)
	}
	return nil
}

// applyDecisions executes the mailbox side effects the decisions call for.
// Important pins nothing; vip applies the VIP label. Each failure is logged
// and the remaining decisions still run.
func (p *Pipeline) applyDecisions(ctx context.Context, decisions []Decision) {
	logger := p.logger.With(logging.Stage("apply"))

	for _, d := range decisions {
		switch d.Action {
		case ActionArchive:
			if err := p.mailbox.Archive(d.MessageID); err != nil {
				p.metrics.RecordMailboxMutation(ctx, "archive", logging.StatusError)
				logger.Warn("archive failed", logging.MessageID(d.MessageID), logging.Err(err))
				continue
			}
			p.metrics.RecordMailboxMutation(ctx, "archive", logging.StatusSuccess)
			logger.Info("archived", logging.MessageID(d.MessageID))

		case ActionLabel:
			if d.LabelName == "" {
				logger.Warn("label decision without a label name, skipped",
					logging.MessageID(d.MessageID))
				continue
			}
			p.applyLabel(ctx, logger, d.MessageID, d.LabelName)

		case ActionVIP:
			p.applyLabel(ctx, logger, d.MessageID, vipLabelName)

		case ActionImportant:
			// No mutation; the message flows to the drafter via
			// partitioning.

		default:
			logger.Warn("unknown decision action, skipped",
				logging.MessageID(d.MessageID), slog.String("action", string(d.Action)))
		}
	}
}

func (p *Pipeline) applyLabel(ctx context.Context, logger *slog.Logger, messageID, labelName string) {
	if err := p.mailbox.ApplyLabel(messageID, labelName); err != nil {
		p.metrics.RecordMailboxMutation(ctx, "label", logging.StatusError)
		logger.Warn("labeling failed", logging.MessageID(messageID),
			logging.Label(labelName), logging.Err(err))
		return
	}
	p.metrics.RecordMailboxMutation(ctx, "label", logging.StatusSuccess)
	logger.Info("labeled", logging.MessageID(messageID), logging.Label(labelName))
}

// partition splits the working set per the triage decisions: archive and
// label suppress a message, everything else (no decision, important, vip)
// remains a candidate, and vip messages are additionally pinned.
func partition(messages []gmail.Message, decisions []Decision) (candidates, vip []gmail.Message) {
	byID := make(map[string]Decision, len(decisions))
	for _, d := range decisions {
		if _, ok := byID[d.MessageID]; !ok {
			byID[d.MessageID] = d
		}
	}

	for _, m := range messages {
		d, ok := byID[m.ID]
		if ok && (d.Action == ActionArchive || d.Action == ActionLabel) {
			continue
		}
		candidates = append(candidates, m)
		if ok && d.Action == ActionVIP {
			vip = append(vip, m)
		}
	}
	return candidates, vip
}

// unionByID appends messages from extra that are not already present in
// base, preserving order.
func unionByID(base, extra []gmail.Message) []gmail.Message {
	seen := make(map[string]bool, len(base))
	out := make([]gmail.Message, 0, len(base)+len(extra))
	for _, m := range base {
		seen[m.ID] = true
		out = append(out, m)
	}
	for _, m := range extra {
		if !seen[m.ID] {
			seen[m.ID] = true
			out = append(out, m)
		}
	}
	return out
}
