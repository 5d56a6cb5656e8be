package inbox

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxpilot/internal/gmail"
)

func TestDraftSkipsAlreadyDraftedOrSent(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return "Sure, sounds good.", nil
	}}
	mailbox := newStubMailbox()
	d := NewDrafter(model, mailbox, nil)

	drafts := d.Draft(context.Background(), []gmail.Message{
		msg("m1", "a@example.com", "ping", gmail.LabelDraft),
		msg("m2", "b@example.com", "pong", gmail.LabelSent),
	})

	assert.Empty(t, drafts)
	assert.Zero(t, model.calls, "terminal-labeled messages must never reach the model")
	assert.Empty(t, mailbox.drafts)
}

func TestDraftSkipsSystemNotificationSenders(t *testing.T) {
	model := &stubModel{}
	mailbox := newStubMailbox()
	d := NewDrafter(model, mailbox, nil)

	drafts := d.Draft(context.Background(), []gmail.Message{
		msg("m1", "jira@company.atlassian.net", "[JIRA] (PROJ-123) Ticket updated"),
		msg("m2", "comments-noreply@docs.google.com", "New comment on Roadmap"),
	})

	assert.Empty(t, drafts)
	assert.Zero(t, model.calls)
}

func TestDraftHonorsSkipSentinel(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return "  Skip_Draft \n", nil
	}}
	mailbox := newStubMailbox()
	d := NewDrafter(model, mailbox, nil)

	drafts := d.Draft(context.Background(), []gmail.Message{
		msg("m1", "a@example.com", "newsletter-ish"),
	})

	assert.Empty(t, drafts)
	assert.Equal(t, 1, model.calls)
	assert.Empty(t, mailbox.drafts, "sentinel reply must not create a draft")
}

func TestDraftCreatesThreadedReply(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return "To: someone@example.com\nSubject: echoed\n\nYes, Tuesday works for me.", nil
	}}
	mailbox := newStubMailbox()
	d := NewDrafter(model, mailbox, nil)

	original := msg("m1", "Alice <alice@example.com>", "Tuesday sync?")
	original.Headers["reply-to"] = "alice+replies@example.com"

	drafts := d.Draft(context.Background(), []gmail.Message{original})

	require.Len(t, drafts, 1)
	assert.Equal(t, "m1", drafts[0].MessageID)
	assert.Equal(t, "draft-1", drafts[0].DraftID)
	assert.Equal(t, "Re: Tuesday sync?", drafts[0].Subject)

	require.Len(t, mailbox.drafts, 1)
	call := mailbox.drafts[0]
	assert.Equal(t, "alice+replies@example.com", call.To)
	assert.Equal(t, "thread-m1", call.ThreadID)
	assert.Equal(t, "Yes, Tuesday works for me.", call.Body, "echoed header lines must be stripped")
}

func TestDraftSubjectNotDoublePrefixed(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return "Done.", nil
	}}
	mailbox := newStubMailbox()
	d := NewDrafter(model, mailbox, nil)

	drafts := d.Draft(context.Background(), []gmail.Message{
		msg("m1", "a@example.com", "RE: status update"),
	})

	require.Len(t, drafts, 1)
	assert.Equal(t, "RE: status update", drafts[0].Subject)
}

func TestDraftCapBoundsModelCalls(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return "SKIP_DRAFT", nil
	}}
	d := NewDrafter(model, newStubMailbox(), nil)

	messages := make([]gmail.Message, 0, maxDrafted+5)
	for i := 0; i < maxDrafted+5; i++ {
		messages = append(messages, msg(fmt.Sprintf("m%d", i), "a@example.com", "hello"))
	}

	d.Draft(context.Background(), messages)

	assert.Equal(t, maxDrafted, model.calls)
}

func TestDraftSingleFailureDoesNotAbortBatch(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return "Reply body.", nil
	}}
	mailbox := newStubMailbox()
	mailbox.draftErr["m1"] = fmt.Errorf("draft rejected")
	d := NewDrafter(model, mailbox, nil)

	drafts := d.Draft(context.Background(), []gmail.Message{
		msg("m1", "a@example.com", "first"),
		msg("m2", "b@example.com", "second"),
	})

	require.Len(t, drafts, 1)
	assert.Equal(t, "m2", drafts[0].MessageID)
}

func TestStripEchoedHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no headers", "Hello there.", "Hello there."},
		{"leading headers", "To: a@b.c\nSubject: x\n\nHello.", "Hello."},
		{"mixed case", "tO: a@b.c\nHello.", "Hello."},
		{"mid body colon text kept", "Note: this stays.\nHello.", "Note: this stays.\nHello."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripEchoedHeaders(tt.in))
		})
	}
}
