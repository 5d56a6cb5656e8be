package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/inboxpilot/internal/calendar"
	"github.com/teemow/inboxpilot/internal/gmail"
	"github.com/teemow/inboxpilot/internal/instrumentation"
	"github.com/teemow/inboxpilot/internal/llm"
	"github.com/teemow/inboxpilot/internal/logging"
)

const watchmanSystem = `You monitor a mailbox and calendar for risks. Detect:
- "latency": an important message has waited too long for a reply during work hours
- "missing-link": an upcoming meeting referenced by a message has neither a location nor a video link
- "spiral": a thread with repeated back-and-forth exchanges and no resolution

For each detection choose one action:
- "nudge": remind the owner to reply (advisory)
- "draft-request": request missing meeting logistics by reply draft
- "flag": surface the thread for review (advisory)

Reply with a JSON array only:
[{"kind": "latency|missing-link|spiral", "action": "nudge|draft-request|flag", "id": "<message id>", "threadId": "<thread id>", "description": "<short description>"}]
Return [] when nothing needs attention.`

// meetingLinkRequest is the templated body for draft-request interventions.
const meetingLinkRequest = `Hi,

I could not find a location or meeting link on the calendar invite for our upcoming meeting. Could you share one?

Thanks!`

// Watchman runs the monitoring pass over the important message set and the
// near-term calendar.
type Watchman struct {
	model   llm.Client
	mailbox Mailbox
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// NewWatchman creates a watchman writing corrective drafts into the given
// mailbox.
func NewWatchman(model llm.Client, mailbox Mailbox, metrics *instrumentation.Metrics) *Watchman {
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return &Watchman{
		model:   model,
		mailbox: mailbox,
		metrics: metrics,
		logger:  logging.WithComponent(slog.Default(), "watchman"),
	}
}

// Watch issues one model call over messages and events and processes the
// returned interventions in order. Nudge and flag are advisory; a
// draft-request creates one templated reply draft on the referenced
// conversation. Failures are soft: an unparseable reply yields no
// interventions, a failed draft-request drops that one intervention.
//
// Duplicate draft-requests for the same thread are processed as returned
// and create redundant drafts. Deduplicating by (thread, kind) would
// deviate from the observed behavior, so it is left to the model.
func (w *Watchman) Watch(ctx context.Context, messages []gmail.Message, events []calendar.Event, workHoursStart, workHoursEnd int, inWorkHours bool, now time.Time) []Intervention {
	if len(messages) == 0 {
		return nil
	}

	prompt := w.buildPrompt(messages, events, workHoursStart, workHoursEnd, inWorkHours, now)

	reply, err := w.model.GenerateWithSystem(ctx, watchmanSystem, prompt)
	if err != nil {
		w.metrics.RecordLLMCall(ctx, "watchman", logging.StatusError)
		w.logger.Warn("watch call failed, no interventions this run", logging.Err(err))
		return nil
	}
	w.metrics.RecordLLMCall(ctx, "watchman", logging.StatusSuccess)

	var raw []Intervention
	if err := llm.UnmarshalFirstArray(reply, &raw); err != nil {
		w.logger.Warn("watch reply not parseable, no interventions this run", logging.Err(err))
		return nil
	}

	interventions := make([]Intervention, 0, len(raw))
	for _, iv := range raw {
		if w.applyIntervention(ctx, iv, messages) {
			interventions = append(interventions, iv)
		}
	}
	return interventions
}

// applyIntervention performs the side effect for one intervention and
// reports whether it should surface in the briefing.
func (w *Watchman) applyIntervention(ctx context.Context, iv Intervention, messages []gmail.Message) bool {
	logger := w.logger.With(
		slog.String("kind", string(iv.Kind)),
		slog.String("action", string(iv.Action)),
		logging.MessageID(iv.MessageID),
	)

	switch iv.Action {
	case ActionNudge, ActionFlag:
		logger.Info("intervention", slog.String("description", iv.Description))
		return true

	case ActionDraftRequest:
		original, ok := resolveMessage(messages, iv.MessageID, iv.ThreadID)
		if !ok {
			logger.Warn("intervention references unknown message, skipped",
				logging.ThreadID(iv.ThreadID))
			return false
		}

		draftID, err := w.mailbox.CreateReplyDraft(original, original.ReplyAddress(),
			replySubject(original.Subject), meetingLinkRequest)
		if err != nil {
			w.metrics.RecordMailboxMutation(ctx, "draft", logging.StatusError)
			logger.Warn("intervention draft failed, skipped", logging.Err(err))
			return false
		}
		w.metrics.RecordMailboxMutation(ctx, "draft", logging.StatusSuccess)

		logger.Info("intervention draft created", logging.DraftID(draftID))
		return true

	default:
		logger.Warn("unknown intervention action, skipped")
		return false
	}
}

// resolveMessage finds the referenced message by id first, then by thread id.
func resolveMessage(messages []gmail.Message, messageID, threadID string) (gmail.Message, bool) {
	if messageID != "" {
		for _, m := range messages {
			if m.ID == messageID {
				return m, true
			}
		}
	}
	if threadID != "" {
		for _, m := range messages {
			if m.ThreadID == threadID {
				return m, true
			}
		}
	}
	return gmail.Message{}, false
}

func (w *Watchman) buildPrompt(messages []gmail.Message, events []calendar.Event, workHoursStart, workHoursEnd int, inWorkHours bool, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Current time: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&b, "Work hours: %02d:00-%02d:00\n", workHoursStart, workHoursEnd)
	fmt.Fprintf(&b, "Currently within work hours: %t\n", inWorkHours)

	b.WriteString("\nUpcoming meetings (next 48h):\n")
	if len(events) == 0 {
		b.WriteString("(none)\n")
	}
	for _, e := range events {
		fmt.Fprintf(&b, "- %s at %s (location: %t, video link: %t)\n",
			e.Summary, e.Start.Format(time.RFC3339), e.HasLocation(), e.HasVideoLink())
	}

	b.WriteString("\nMessages:\n")
	for _, m := range messages {
		fmt.Fprintf(&b, "- id: %s\n  threadId: %s\n  from: %s\n  subject: %s\n  date: %s\n  snippet: %s\n",
			m.ID, m.ThreadID, m.From, m.Subject, m.Date.Format(time.RFC3339), m.Snippet)
	}

	return b.String()
}
