package inbox

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxpilot/internal/calendar"
	"github.com/teemow/inboxpilot/internal/gmail"
)

var testNow = time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

func TestWatchEmptyInputSkipsModel(t *testing.T) {
	model := &stubModel{}
	w := NewWatchman(model, newStubMailbox(), nil)

	ivs := w.Watch(context.Background(), nil, nil, 9, 18, true, testNow)

	assert.Empty(t, ivs)
	assert.Zero(t, model.calls)
}

func TestWatchProseReplyIsSoftFailure(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return "Everything looks fine to me.", nil
	}}
	w := NewWatchman(model, newStubMailbox(), nil)

	ivs := w.Watch(context.Background(),
		[]gmail.Message{msg("m1", "a@example.com", "hello")}, nil, 9, 18, true, testNow)

	assert.Empty(t, ivs)
}

func TestWatchMissingLinkCreatesOneDraft(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return `[{"kind": "missing-link", "action": "draft-request", "id": "m1", "description": "sync tomorrow has no link"}]`, nil
	}}
	mailbox := newStubMailbox()
	w := NewWatchman(model, mailbox, nil)

	events := []calendar.Event{{
		ID:      "e1",
		Summary: "Sync",
		Start:   testNow.Add(20 * time.Hour),
	}}
	ivs := w.Watch(context.Background(),
		[]gmail.Message{msg("m1", "alice@example.com", "Sync tomorrow")},
		events, 9, 18, true, testNow)

	require.Len(t, ivs, 1)
	assert.Equal(t, KindMissingLink, ivs[0].Kind)

	require.Len(t, mailbox.drafts, 1)
	call := mailbox.drafts[0]
	assert.Equal(t, "m1", call.MessageID)
	assert.Equal(t, "Re: Sync tomorrow", call.Subject)
	assert.Contains(t, call.Body, "location or meeting link")
}

func TestWatchResolvesByThreadID(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return `[{"kind": "missing-link", "action": "draft-request", "threadId": "thread-m2", "description": "no link"}]`, nil
	}}
	mailbox := newStubMailbox()
	w := NewWatchman(model, mailbox, nil)

	ivs := w.Watch(context.Background(), []gmail.Message{
		msg("m1", "a@example.com", "first"),
		msg("m2", "b@example.com", "second"),
	}, nil, 9, 18, true, testNow)

	require.Len(t, ivs, 1)
	require.Len(t, mailbox.drafts, 1)
	assert.Equal(t, "m2", mailbox.drafts[0].MessageID)
}

func TestWatchUnresolvedReferenceSkipped(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return `[{"kind": "missing-link", "action": "draft-request", "id": "ghost", "description": "no link"},
				 {"kind": "latency", "action": "nudge", "id": "m1", "description": "waiting two days"}]`, nil
	}}
	mailbox := newStubMailbox()
	w := NewWatchman(model, mailbox, nil)

	ivs := w.Watch(context.Background(),
		[]gmail.Message{msg("m1", "a@example.com", "hello")}, nil, 9, 18, true, testNow)

	require.Len(t, ivs, 1, "unresolved draft-request dropped, nudge kept")
	assert.Equal(t, ActionNudge, ivs[0].Action)
	assert.Empty(t, mailbox.drafts)
}

func TestWatchAdvisoryActionsDoNotMutate(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return `[{"kind": "latency", "action": "nudge", "id": "m1", "description": "reply pending"},
				 {"kind": "spiral", "action": "flag", "threadId": "thread-m1", "description": "ten replies, no decision"}]`, nil
	}}
	mailbox := newStubMailbox()
	w := NewWatchman(model, mailbox, nil)

	ivs := w.Watch(context.Background(),
		[]gmail.Message{msg("m1", "a@example.com", "hello")}, nil, 9, 18, true, testNow)

	assert.Len(t, ivs, 2)
	assert.Empty(t, mailbox.drafts)
	assert.Empty(t, mailbox.archived)
}

func TestWatchDuplicateDraftRequestsCreateTwoDrafts(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return `[{"kind": "missing-link", "action": "draft-request", "id": "m1", "description": "no link"},
				 {"kind": "missing-link", "action": "draft-request", "id": "m1", "description": "no link"}]`, nil
	}}
	mailbox := newStubMailbox()
	w := NewWatchman(model, mailbox, nil)

	ivs := w.Watch(context.Background(),
		[]gmail.Message{msg("m1", "a@example.com", "sync")}, nil, 9, 18, true, testNow)

	assert.Len(t, ivs, 2)
	assert.Len(t, mailbox.drafts, 2, "duplicates are processed as returned")
}

func TestWatchFailedDraftSkipsOnlyThatIntervention(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return `[{"kind": "missing-link", "action": "draft-request", "id": "m1", "description": "no link"},
				 {"kind": "missing-link", "action": "draft-request", "id": "m2", "description": "no link"}]`, nil
	}}
	mailbox := newStubMailbox()
	mailbox.draftErr["m1"] = fmt.Errorf("quota exceeded")
	w := NewWatchman(model, mailbox, nil)

	ivs := w.Watch(context.Background(), []gmail.Message{
		msg("m1", "a@example.com", "first"),
		msg("m2", "b@example.com", "second"),
	}, nil, 9, 18, true, testNow)

	require.Len(t, ivs, 1)
	assert.Equal(t, "m2", ivs[0].MessageID)
	require.Len(t, mailbox.drafts, 1)
}

func TestWatchPromptCarriesEventsAndWorkHours(t *testing.T) {
	model := &stubModel{reply: func(_, _ string) (string, error) {
		return "[]", nil
	}}
	w := NewWatchman(model, newStubMailbox(), nil)

	events := []calendar.Event{{
		ID:       "e1",
		Summary:  "Planning",
		Start:    testNow.Add(3 * time.Hour),
		Location: "Room 4",
	}}
	w.Watch(context.Background(),
		[]gmail.Message{msg("m1", "a@example.com", "hello")}, events, 9, 18, false, testNow)

	require.Len(t, model.prompts, 1)
	prompt := model.prompts[0]
	assert.Contains(t, prompt, "Planning")
	assert.Contains(t, prompt, "location: true, video link: false")
	assert.Contains(t, prompt, "Work hours: 09:00-18:00")
	assert.Contains(t, prompt, "Currently within work hours: false")
}
