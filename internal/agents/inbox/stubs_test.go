package inbox

import (
	"context"
	"fmt"
	"time"

	"github.com/teemow/inboxpilot/internal/calendar"
	"github.com/teemow/inboxpilot/internal/gmail"
)

// stubModel is a deterministic llm.Client for pipeline tests. The reply
// function receives the system instruction so one stub can serve all three
// stages.
type stubModel struct {
	calls   int
	prompts []string
	reply   func(system, prompt string) (string, error)
}

func (s *stubModel) GenerateWithSystem(_ context.Context, system, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.reply == nil {
		return "[]", nil
	}
	return s.reply(system, prompt)
}

type draftCall struct {
	MessageID string
	ThreadID  string
	To        string
	Subject   string
	Body      string
}

// stubMailbox records mutations and supports per-message failure injection.
type stubMailbox struct {
	messages []gmail.Message
	listErr  error

	archived   []string
	archiveErr map[string]error

	labels   map[string][]string
	labelErr map[string]error

	drafts    []draftCall
	draftErr  map[string]error
	nextDraft int
}

func newStubMailbox(messages ...gmail.Message) *stubMailbox {
	return &stubMailbox{
		messages:   messages,
		archiveErr: make(map[string]error),
		labels:     make(map[string][]string),
		labelErr:   make(map[string]error),
		draftErr:   make(map[string]error),
	}
}

func (s *stubMailbox) ListRecent(maxResults int64) ([]gmail.Message, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if int64(len(s.messages)) > maxResults {
		return s.messages[:maxResults], nil
	}
	return s.messages, nil
}

func (s *stubMailbox) Archive(messageID string) error {
	if err := s.archiveErr[messageID]; err != nil {
		return err
	}
	s.archived = append(s.archived, messageID)
	return nil
}

func (s *stubMailbox) ApplyLabel(messageID, labelName string) error {
	if err := s.labelErr[messageID]; err != nil {
		return err
	}
	s.labels[messageID] = append(s.labels[messageID], labelName)
	return nil
}

func (s *stubMailbox) CreateReplyDraft(original gmail.Message, to, subject, body string) (string, error) {
	if err := s.draftErr[original.ID]; err != nil {
		return "", err
	}
	s.nextDraft++
	s.drafts = append(s.drafts, draftCall{
		MessageID: original.ID,
		ThreadID:  original.ThreadID,
		To:        to,
		Subject:   subject,
		Body:      body,
	})
	return fmt.Sprintf("draft-%d", s.nextDraft), nil
}

type stubCalendar struct {
	events []calendar.Event
	err    error
}

func (s *stubCalendar) ListUpcoming(_ time.Duration) ([]calendar.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

// msg builds a message snapshot for tests.
func msg(id, from, subject string, labels ...string) gmail.Message {
	return gmail.Message{
		ID:       id,
		ThreadID: "thread-" + id,
		From:     from,
		Subject:  subject,
		Snippet:  subject,
		TextBody: "body of " + id,
		Date:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Labels:   append([]string{gmail.LabelInbox}, labels...),
		Headers: map[string]string{
			"from":       from,
			"subject":    subject,
			"message-id": "<" + id + "@example.com>",
		},
	}
}
