package gmail

import (
	"encoding/base64"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	gmail "google.golang.org/api/gmail/v1"
)

// Well-known Gmail system label ids.
const (
	LabelInbox = "INBOX"
	LabelDraft = "DRAFT"
	LabelSent  = "SENT"
)

// Message is an immutable snapshot of one mailbox message, taken once per
// pipeline run. Archive/label mutations are requested against the store and
// never written back into a snapshot.
type Message struct {
	ID       string
	ThreadID string
	From     string
	To       string
	Subject  string
	Snippet  string
	TextBody string
	HTMLBody string
	Date     time.Time
	Labels   []string

	// Headers carries the normalized RFC 2822 headers needed for reply
	// threading and recipient resolution (Message-ID, References, Reply-To).
	Headers map[string]string
}

// HasLabel reports whether the snapshot carries the given label id.
func (m Message) HasLabel(label string) bool {
	for _, l := range m.Labels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

// Header returns a normalized header value, or "" if absent.
func (m Message) Header(name string) string {
	if m.Headers == nil {
		return ""
	}
	return m.Headers[strings.ToLower(name)]
}

// ReplyAddress resolves the address a reply should go to: the Reply-To
// header when present, then the From header, then the snapshot sender.
func (m Message) ReplyAddress() string {
	if v := m.Header("Reply-To"); v != "" {
		return v
	}
	if v := m.Header("From"); v != "" {
		return v
	}
	return m.From
}

// BodyForPrompt returns the best available body text for a language-model
// prompt: plain text first, then HTML reduced to text, then the snippet.
func (m Message) BodyForPrompt() string {
	if strings.TrimSpace(m.TextBody) != "" {
		return m.TextBody
	}
	if strings.TrimSpace(m.HTMLBody) != "" {
		if text := htmlToText(m.HTMLBody); text != "" {
			return text
		}
	}
	return m.Snippet
}

var collapseWhitespace = regexp.MustCompile(`[ \t]*\n[ \t\n]*`)

// htmlToText reduces an HTML body to readable plain text.
// Script and style contents are dropped before extraction.
func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	text := strings.TrimSpace(doc.Text())
	return collapseWhitespace.ReplaceAllString(text, "\n")
}

// capturedHeaders are the headers kept on a snapshot, lowercased.
var capturedHeaders = map[string]bool{
	"from":       true,
	"to":         true,
	"subject":    true,
	"reply-to":   true,
	"message-id": true,
	"references": true,
}

// NewMessage converts a full-format Gmail API message into a snapshot.
func NewMessage(msg *gmail.Message) Message {
	m := Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		Labels:   msg.LabelIds,
		Headers:  make(map[string]string),
	}

	if msg.InternalDate > 0 {
		m.Date = time.UnixMilli(msg.InternalDate)
	}

	if msg.Payload == nil {
		return m
	}

	for _, h := range msg.Payload.Headers {
		name := strings.ToLower(h.Name)
		if !capturedHeaders[name] {
			continue
		}
		m.Headers[name] = h.Value
	}
	m.From = m.Headers["from"]
	m.To = m.Headers["to"]
	m.Subject = m.Headers["subject"]

	m.TextBody = bodyByMimeType(msg.Payload, "text/plain")
	m.HTMLBody = bodyByMimeType(msg.Payload, "text/html")

	return m
}

// bodyByMimeType finds and decodes the first part of the given MIME type.
func bodyByMimeType(payload *gmail.MessagePart, mimeType string) string {
	var data string
	if payload.MimeType == mimeType && payload.Body != nil && payload.Body.Data != "" {
		data = payload.Body.Data
	} else {
		walkParts(payload, func(part *gmail.MessagePart) {
			if data == "" && part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
				data = part.Body.Data
			}
		})
	}
	if data == "" {
		return ""
	}

	// Gmail API uses RFC 4648 base64url encoding
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}

// walkParts recursively walks through message parts
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}
