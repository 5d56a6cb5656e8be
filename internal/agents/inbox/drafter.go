package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teemow/inboxpilot/internal/gmail"
	"github.com/teemow/inboxpilot/internal/instrumentation"
	"github.com/teemow/inboxpilot/internal/llm"
	"github.com/teemow/inboxpilot/internal/logging"
)

const drafterSystem = `You draft reply emails on behalf of the mailbox owner. Given one inbound message, write a short, polite reply body in the sender's language.

If the message is an automated notification, a bulk mailing or anything that needs no reply, answer with exactly SKIP_DRAFT and nothing else.

Otherwise answer with the reply body text only. No To/From/Subject lines, no signature placeholder.`

// skipSentinel is the model's own no-draft signal, honored case-insensitively
// after trimming.
const skipSentinel = "SKIP_DRAFT"

// Drafter composes one reply draft per important message, bounded by
// maxDrafted per run.
type Drafter struct {
	model   llm.Client
	mailbox Mailbox
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// NewDrafter creates a drafter writing into the given mailbox.
func NewDrafter(model llm.Client, mailbox Mailbox, metrics *instrumentation.Metrics) *Drafter {
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return &Drafter{
		model:   model,
		mailbox: mailbox,
		metrics: metrics,
		logger:  logging.WithComponent(slog.Default(), "drafter"),
	}
}

// Draft processes at most maxDrafted messages and returns the drafts it
// created. A single message's failure never aborts the batch.
func (d *Drafter) Draft(ctx context.Context, messages []gmail.Message) []DraftRecord {
	if len(messages) > maxDrafted {
		d.logger.Info("draft cap reached, skipping excess messages",
			slog.Int("cap", maxDrafted), slog.Int("input", len(messages)))
		messages = messages[:maxDrafted]
	}

	drafts := make([]DraftRecord, 0, len(messages))
	for _, m := range messages {
		record, ok := d.draftOne(ctx, m)
		if ok {
			drafts = append(drafts, record)
		}
	}
	return drafts
}

func (d *Drafter) draftOne(ctx context.Context, m gmail.Message) (DraftRecord, bool) {
	logger := d.logger.With(logging.MessageID(m.ID), logging.SenderHash(m.From))

	// Idempotence guard: never double-draft a thread the owner already
	// touched.
	if m.HasLabel(gmail.LabelDraft) || m.HasLabel(gmail.LabelSent) {
		logger.Debug("already drafted or sent", logging.Status(logging.StatusSkipped))
		return DraftRecord{}, false
	}

	// Cheap short-circuit ahead of the model's own SKIP_DRAFT judgment.
	if isSystemNotification(m) {
		logger.Debug("system notification sender", logging.Status(logging.StatusSkipped))
		return DraftRecord{}, false
	}

	reply, err := d.model.GenerateWithSystem(ctx, drafterSystem, d.buildPrompt(m))
	if err != nil {
		d.metrics.RecordLLMCall(ctx, "drafter", logging.StatusError)
		logger.Warn("draft generation failed", logging.Err(err))
		return DraftRecord{}, false
	}
	d.metrics.RecordLLMCall(ctx, "drafter", logging.StatusSuccess)

	if strings.EqualFold(strings.TrimSpace(reply), skipSentinel) {
		logger.Debug("model declined to draft", logging.Status(logging.StatusSkipped))
		return DraftRecord{}, false
	}

	body := stripEchoedHeaders(reply)
	if body == "" {
		logger.Warn("draft body empty after cleanup", logging.Status(logging.StatusSkipped))
		return DraftRecord{}, false
	}

	subject := replySubject(m.Subject)
	to := m.ReplyAddress()

	draftID, err := d.mailbox.CreateReplyDraft(m, to, subject, body)
	if err != nil {
		d.metrics.RecordMailboxMutation(ctx, "draft", logging.StatusError)
		logger.Warn("draft creation failed", logging.Err(err))
		return DraftRecord{}, false
	}
	d.metrics.RecordMailboxMutation(ctx, "draft", logging.StatusSuccess)

	logger.Info("draft created", logging.DraftID(draftID), logging.Status(logging.StatusSuccess))
	return DraftRecord{MessageID: m.ID, DraftID: draftID, Subject: subject}, true
}

func (d *Drafter) buildPrompt(m gmail.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\nSubject: %s\n\n%s", m.From, m.Subject, m.BodyForPrompt())
	return b.String()
}

// isSystemNotification matches known ticket-tracker and document-comment
// notification senders that never warrant a reply.
func isSystemNotification(m gmail.Message) bool {
	from := strings.ToLower(m.From)
	subject := strings.ToLower(m.Subject)

	if strings.Contains(from, "jira@") || strings.Contains(from, "@atlassian.net") {
		return true
	}
	if strings.Contains(from, "comments-noreply@docs.google.com") {
		return true
	}
	if strings.HasPrefix(subject, "[jira]") {
		return true
	}
	return false
}

// stripEchoedHeaders removes header-like lines the model sometimes echoes
// into the body despite the instruction.
func stripEchoedHeaders(body string) string {
	lines := strings.Split(body, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(lower, "to:") ||
			strings.HasPrefix(lower, "from:") ||
			strings.HasPrefix(lower, "subject:") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// replySubject prefixes "Re: " unless the subject already carries it.
func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(subject)), "re:") {
		return subject
	}
	return "Re: " + subject
}
