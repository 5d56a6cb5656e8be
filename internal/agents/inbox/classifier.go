package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/inboxpilot/internal/gmail"
	"github.com/teemow/inboxpilot/internal/instrumentation"
	"github.com/teemow/inboxpilot/internal/llm"
	"github.com/teemow/inboxpilot/internal/logging"
)

const classifierSystem = `You are an email triage assistant. Classify every message into exactly one action:
- "archive": noise such as newsletters, promotions, receipts and automated notifications nobody needs to see
- "label": mail worth keeping out of the inbox under a named label; set "labelName"
- "vip": mail from a sender or domain on the VIP allow-list
- "important": mail that needs the owner's attention or a reply

Reply with a JSON array only, one element per message:
[{"id": "<message id>", "action": "archive|label|important|vip", "labelName": "<only for label>", "reason": "<short reason>"}]`

// Classifier turns one batch of message summaries into triage decisions
// with a single language-model call.
type Classifier struct {
	model   llm.Client
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// NewClassifier creates a classifier backed by the given model client.
func NewClassifier(model llm.Client, metrics *instrumentation.Metrics) *Classifier {
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return &Classifier{
		model:   model,
		metrics: metrics,
		logger:  logging.WithComponent(slog.Default(), "classifier"),
	}
}

// Classify returns at most one decision per known message id. All failures
// are soft: an unreachable model or an unparseable reply degrades to an
// empty decision list so the run continues with nothing suppressed.
func (c *Classifier) Classify(ctx context.Context, messages []gmail.Message, vipDomains, vipSenders []string) []Decision {
	if len(messages) == 0 {
		return nil
	}

	prompt := c.buildPrompt(messages, vipDomains, vipSenders)

	reply, err := c.model.GenerateWithSystem(ctx, classifierSystem, prompt)
	if err != nil {
		c.metrics.RecordLLMCall(ctx, "classifier", logging.StatusError)
		c.logger.Warn("classification call failed, nothing will be suppressed", logging.Err(err))
		return nil
	}
	c.metrics.RecordLLMCall(ctx, "classifier", logging.StatusSuccess)

	var raw []Decision
	if err := llm.UnmarshalFirstArray(reply, &raw); err != nil {
		c.logger.Warn("classification reply not parseable, nothing will be suppressed", logging.Err(err))
		return nil
	}

	return filterDecisions(raw, messages, c.logger)
}

// filterDecisions drops decisions referencing unknown message ids and keeps
// the first decision per id when the model emits duplicates. First-wins is
// the documented tie-break and partitioning consumes the same result.
func filterDecisions(raw []Decision, messages []gmail.Message, logger *slog.Logger) []Decision {
	known := make(map[string]bool, len(messages))
	for _, m := range messages {
		known[m.ID] = true
	}

	seen := make(map[string]bool, len(raw))
	decisions := make([]Decision, 0, len(raw))
	for _, d := range raw {
		if !known[d.MessageID] {
			continue
		}
		if seen[d.MessageID] {
			logger.Debug("duplicate decision ignored", logging.MessageID(d.MessageID))
			continue
		}
		seen[d.MessageID] = true
		decisions = append(decisions, d)
	}
	return decisions
}

func (c *Classifier) buildPrompt(messages []gmail.Message, vipDomains, vipSenders []string) string {
	var b strings.Builder

	b.WriteString("VIP domains: ")
	b.WriteString(joinOrNone(vipDomains))
	b.WriteString("\nVIP senders: ")
	b.WriteString(joinOrNone(vipSenders))
	b.WriteString("\n\nMessages:\n")

	for _, m := range messages {
		fmt.Fprintf(&b, "- id: %s\n  from: %s\n  subject: %s\n  date: %s\n  snippet: %s\n",
			m.ID, m.From, m.Subject, m.Date.Format(time.RFC3339), m.Snippet)
	}

	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
