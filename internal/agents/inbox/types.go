package inbox

import (
	"time"

	"github.com/teemow/inboxpilot/internal/calendar"
	"github.com/teemow/inboxpilot/internal/gmail"
)

// Per-run cost bounds. Excess messages are skipped, not queued.
const (
	maxFetched = 50
	maxDrafted = 20
)

// watchHorizon bounds the calendar window the watchman considers.
const watchHorizon = 48 * time.Hour

// vipLabelName is the label pinned onto messages classified as vip.
const vipLabelName = "VIP"

// Mailbox is the message-store capability the pipeline needs. Satisfied by
// *gmail.Client.
type Mailbox interface {
	ListRecent(maxResults int64) ([]gmail.Message, error)
	Archive(messageID string) error
	ApplyLabel(messageID, labelName string) error
	CreateReplyDraft(original gmail.Message, to, subject, body string) (string, error)
}

// Calendar is the calendar capability the watchman needs. Satisfied by
// *calendar.Client.
type Calendar interface {
	ListUpcoming(within time.Duration) ([]calendar.Event, error)
}

// Action is the triage outcome for one message.
type Action string

const (
	ActionArchive   Action = "archive"
	ActionLabel     Action = "label"
	ActionImportant Action = "important"
	ActionVIP       Action = "vip"
)

// Decision is one triage decision keyed by message id. The reason is
// advisory only and never drives control flow.
type Decision struct {
	MessageID string `json:"id"`
	Action    Action `json:"action"`
	LabelName string `json:"labelName,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// DraftRecord describes a reply draft created during the run.
type DraftRecord struct {
	MessageID string
	DraftID   string
	Subject   string
}

// InterventionKind is the condition the watchman detected.
type InterventionKind string

const (
	KindLatency     InterventionKind = "latency"
	KindMissingLink InterventionKind = "missing-link"
	KindSpiral      InterventionKind = "spiral"
)

// InterventionAction is what the watchman does about a detection. Nudge and
// flag are advisory and surface in the briefing only; draft-request mutates
// the mailbox.
type InterventionAction string

const (
	ActionNudge        InterventionAction = "nudge"
	ActionDraftRequest InterventionAction = "draft-request"
	ActionFlag         InterventionAction = "flag"
)

// Intervention is one watchman detection. MessageID or ThreadID reference
// the affected conversation; either may be empty.
type Intervention struct {
	Kind        InterventionKind   `json:"kind"`
	Action      InterventionAction `json:"action"`
	MessageID   string             `json:"id,omitempty"`
	ThreadID    string             `json:"threadId,omitempty"`
	Description string             `json:"description"`
}
