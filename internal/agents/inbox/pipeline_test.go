package inbox

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxpilot/internal/config"
	"github.com/teemow/inboxpilot/internal/gmail"
)

func testConfig() config.Config {
	return config.Config{
		VIPDomains:     []string{"corp.example"},
		WorkHoursStart: 9,
		WorkHoursEnd:   18,
	}
}

// stageReply routes a stub model reply by pipeline stage using the system
// instruction.
func stageReply(classify, draft, watch string) func(system, prompt string) (string, error) {
	return func(system, _ string) (string, error) {
		switch {
		case strings.Contains(system, "triage"):
			return classify, nil
		case strings.Contains(system, "draft reply emails"):
			return draft, nil
		default:
			return watch, nil
		}
	}
}

func newTestPipeline(mailbox *stubMailbox, model *stubModel) (*Pipeline, *bytes.Buffer) {
	p := NewPipeline(mailbox, &stubCalendar{}, model, testConfig(), nil)
	out := &bytes.Buffer{}
	p.Out = out
	p.Now = func() time.Time { return testNow }
	return p, out
}

func TestPartitionNoDecisions(t *testing.T) {
	messages := []gmail.Message{
		msg("m1", "a@example.com", "one"),
		msg("m2", "b@example.com", "two"),
	}

	candidates, vip := partition(messages, nil)

	assert.Equal(t, messages, candidates, "no decisions means nothing suppressed")
	assert.Empty(t, vip)
}

func TestPartitionSuppressionAndVIP(t *testing.T) {
	messages := []gmail.Message{
		msg("m1", "news@letters.example", "digest"),
		msg("m2", "boss@corp.example", "question"),
		msg("m3", "jira@atlassian.net", "ticket"),
		msg("m4", "friend@example.com", "lunch"),
	}
	decisions := []Decision{
		{MessageID: "m1", Action: ActionArchive},
		{MessageID: "m2", Action: ActionVIP},
		{MessageID: "m3", Action: ActionLabel, LabelName: "Low Priority"},
	}

	candidates, vip := partition(messages, decisions)

	require.Len(t, candidates, 2)
	assert.Equal(t, "m2", candidates[0].ID)
	assert.Equal(t, "m4", candidates[1].ID)
	require.Len(t, vip, 1)
	assert.Equal(t, "m2", vip[0].ID)
}

func TestRunFetchFailureAborts(t *testing.T) {
	mailbox := newStubMailbox()
	mailbox.listErr = fmt.Errorf("mailbox unreachable")
	p, _ := newTestPipeline(mailbox, &stubModel{})

	err := p.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mailbox unreachable")
}

func TestRunAppliesDecisionsContinueOnError(t *testing.T) {
	mailbox := newStubMailbox(
		msg("m1", "news@letters.example", "digest"),
		msg("m2", "spam@letters.example", "offer"),
		msg("m3", "team@corp.example", "notes"),
	)
	mailbox.archiveErr["m1"] = fmt.Errorf("transient")

	model := &stubModel{reply: stageReply(
		`[{"id": "m1", "action": "archive"},
		  {"id": "m2", "action": "archive"},
		  {"id": "m3", "action": "label", "labelName": "Team"}]`,
		"SKIP_DRAFT", "[]")}
	p, _ := newTestPipeline(mailbox, model)

	err := p.Run(context.Background())

	require.NoError(t, err, "one failed mutation must not abort the run")
	assert.Equal(t, []string{"m2"}, mailbox.archived)
	assert.Equal(t, []string{"Team"}, mailbox.labels["m3"])
}

func TestRunEndToEndScenario(t *testing.T) {
	mailbox := newStubMailbox(
		msg("msg1", "news@newsletter.example", "Weekly digest"),
		msg("msg2", "boss@corp.example", "Can you make Friday?"),
		msg("msg3", "jira@company.atlassian.net", "[JIRA] (PROJ-1) Updated"),
	)

	model := &stubModel{reply: stageReply(
		`[{"id": "msg1", "action": "archive"},
		  {"id": "msg2", "action": "vip"},
		  {"id": "msg3", "action": "label", "labelName": "Low Priority"}]`,
		"Yes, Friday works for me.",
		"[]")}
	p, out := newTestPipeline(mailbox, model)

	err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"msg1"}, mailbox.archived)
	assert.Equal(t, []string{"Low Priority"}, mailbox.labels["msg3"])
	assert.Equal(t, []string{"VIP"}, mailbox.labels["msg2"])

	require.Len(t, mailbox.drafts, 1)
	assert.Equal(t, "msg2", mailbox.drafts[0].MessageID)

	briefing := out.String()
	assert.Contains(t, briefing, "Pinned (1 VIP)")
	assert.Contains(t, briefing, "Drafts (1)")
	assert.Contains(t, briefing, "Interventions (0)")
}

func TestRunIdempotentAgainstUnchangedSnapshot(t *testing.T) {
	newMailbox := func() *stubMailbox {
		return newStubMailbox(
			msg("m1", "news@letters.example", "digest"),
			msg("m2", "boss@corp.example", "question"),
		)
	}
	reply := stageReply(
		`[{"id": "m1", "action": "archive"}, {"id": "m2", "action": "vip"}]`,
		"On it.",
		`[{"kind": "latency", "action": "nudge", "id": "m2", "description": "still open"}]`)

	run := func() (*stubMailbox, string) {
		mailbox := newMailbox()
		p, out := newTestPipeline(mailbox, &stubModel{reply: reply})
		require.NoError(t, p.Run(context.Background()))
		return mailbox, out.String()
	}

	first, firstOut := run()
	second, secondOut := run()

	assert.Equal(t, firstOut, secondOut)
	assert.Equal(t, first.archived, second.archived)
	assert.Equal(t, first.labels, second.labels)
	assert.Equal(t, first.drafts, second.drafts)
}

func TestRunCalendarFailureIsAbsorbed(t *testing.T) {
	mailbox := newStubMailbox(msg("m1", "a@example.com", "hello"))
	model := &stubModel{reply: stageReply("[]", "SKIP_DRAFT", "[]")}
	p, out := newTestPipeline(mailbox, model)
	p.calendar = &stubCalendar{err: fmt.Errorf("calendar down")}

	err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Interventions (0)")
}

func TestBriefingRender(t *testing.T) {
	b := Briefing{
		VIP: []gmail.Message{msg("m1", "boss@corp.example", "question")},
		Drafts: []DraftRecord{
			{MessageID: "m1", DraftID: "draft-1", Subject: "Re: question"},
		},
		Interventions: []Intervention{
			{Kind: KindSpiral, Action: ActionFlag, ThreadID: "thread-m1", Description: "no resolution"},
		},
	}

	out := b.Render()

	assert.Contains(t, out, "Pinned (1 VIP)")
	assert.Contains(t, out, "boss@corp.example: question")
	assert.Contains(t, out, "Re: question (draft draft-1)")
	assert.Contains(t, out, "[spiral/flag] no resolution")
}

func TestUnionByID(t *testing.T) {
	a := msg("m1", "a@example.com", "one")
	b := msg("m2", "b@example.com", "two")

	union := unionByID([]gmail.Message{a, b}, []gmail.Message{b})

	require.Len(t, union, 2)
	assert.Equal(t, "m1", union[0].ID)
	assert.Equal(t, "m2", union[1].ID)
}
