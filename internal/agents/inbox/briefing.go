package inbox

import (
	"fmt"
	"strings"

	"github.com/teemow/inboxpilot/internal/gmail"
)

// Briefing is the run summary printed at the end of a pipeline pass. It is
// a pure projection of the three result collections and mutates nothing.
type Briefing struct {
	VIP           []gmail.Message
	Drafts        []DraftRecord
	Interventions []Intervention
}

// Render formats the briefing for the terminal.
func (b Briefing) Render() string {
	var sb strings.Builder

	sb.WriteString("Inbox briefing\n")
	sb.WriteString("==============\n\n")

	fmt.Fprintf(&sb, "Pinned (%d VIP)\n", len(b.VIP))
	for _, m := range b.VIP {
		fmt.Fprintf(&sb, "  - %s: %s\n", m.From, m.Subject)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Drafts (%d)\n", len(b.Drafts))
	for _, d := range b.Drafts {
		fmt.Fprintf(&sb, "  - %s (draft %s)\n", d.Subject, d.DraftID)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Interventions (%d)\n", len(b.Interventions))
	for _, iv := range b.Interventions {
		fmt.Fprintf(&sb, "  - [%s/%s] %s\n", iv.Kind, iv.Action, iv.Description)
	}

	return sb.String()
}
