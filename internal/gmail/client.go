package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/inboxpilot/internal/google"
)

// recentQuery bounds the working window the pipeline triages per run.
const recentQuery = "in:inbox newer_than:2d"

// Client wraps the Gmail Users service for one account.
type Client struct {
	svc     *gmail.UsersService
	account string

	// labelIDs caches name (lowercased) to label id lookups within a run.
	labelIDs map[string]string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Gmail client with OAuth2 authentication
// for a specific account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := gmail.New(client)
	if err != nil {
		return nil, err
	}

	return &Client{
		svc:      svc.Users,
		account:  account,
		labelIDs: make(map[string]string),
	}, nil
}

// ListRecent returns snapshots of up to maxResults recent inbox messages,
// newest first, making multiple API calls if necessary.
func (c *Client) ListRecent(maxResults int64) ([]Message, error) {
	var ids []string
	pageToken := ""

	for {
		remaining := maxResults - int64(len(ids))
		if remaining <= 0 {
			break
		}

		// Gmail API has a max page size, typically 100
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Messages.List("me").Q(recentQuery).MaxResults(pageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}

		if res.NextPageToken == "" || int64(len(ids)) >= maxResults {
			break
		}

		pageToken = res.NextPageToken
	}

	if int64(len(ids)) > maxResults {
		ids = ids[:maxResults]
	}

	messages := make([]Message, 0, len(ids))
	for _, id := range ids {
		full, err := c.svc.Messages.Get("me", id).Format("full").Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", id, err)
		}
		messages = append(messages, NewMessage(full))
	}

	return messages, nil
}

// Archive archives a message by removing the INBOX label.
func (c *Client) Archive(messageID string) error {
	_, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{LabelInbox},
	}).Do()
	if err != nil {
		return fmt.Errorf("failed to archive message %s: %w", messageID, err)
	}
	return nil
}

// ApplyLabel applies a user label to a message, creating the label if it
// does not exist yet.
func (c *Client) ApplyLabel(messageID, labelName string) error {
	id, err := c.labelID(labelName)
	if err != nil {
		return err
	}

	_, err = c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds: []string{id},
	}).Do()
	if err != nil {
		return fmt.Errorf("failed to label message %s with %s: %w", messageID, labelName, err)
	}
	return nil
}

// labelID resolves a label name to its id, creating the label when absent.
// Lookups are cached for the lifetime of the client.
func (c *Client) labelID(name string) (string, error) {
	key := strings.ToLower(name)
	if id, ok := c.labelIDs[key]; ok {
		return id, nil
	}

	resp, err := c.svc.Labels.List("me").Do()
	if err != nil {
		return "", fmt.Errorf("failed to list labels: %w", err)
	}
	for _, l := range resp.Labels {
		if strings.EqualFold(l.Name, name) {
			c.labelIDs[key] = l.Id
			return l.Id, nil
		}
	}

	created, err := c.svc.Labels.Create("me", &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create label %s: %w", name, err)
	}

	c.labelIDs[key] = created.Id
	return created.Id, nil
}

// CreateReplyDraft creates a draft reply to the original message, threaded
// into the same conversation via In-Reply-To/References. It returns the
// created draft id.
func (c *Client) CreateReplyDraft(original Message, to, subject, body string) (string, error) {
	if to == "" {
		return "", fmt.Errorf("recipient is required")
	}
	if body == "" {
		return "", fmt.Errorf("body is required")
	}

	originalMessageID := original.Header("Message-ID")
	originalReferences := original.Header("References")

	// Build References header for proper threading
	var references string
	if originalReferences != "" && originalMessageID != "" {
		references = originalReferences + " " + originalMessageID
	} else if originalMessageID != "" {
		references = originalMessageID
	}

	// Build the email message in RFC 2822 format
	var emailBuilder strings.Builder

	emailBuilder.WriteString("To: ")
	emailBuilder.WriteString(to)
	emailBuilder.WriteString("\r\n")

	// Encode for non-ASCII characters like umlauts
	emailBuilder.WriteString("Subject: ")
	emailBuilder.WriteString(encodeRFC2047(subject))
	emailBuilder.WriteString("\r\n")

	if originalMessageID != "" {
		emailBuilder.WriteString("In-Reply-To: ")
		emailBuilder.WriteString(originalMessageID)
		emailBuilder.WriteString("\r\n")
	}

	if references != "" {
		emailBuilder.WriteString("References: ")
		emailBuilder.WriteString(references)
		emailBuilder.WriteString("\r\n")
	}

	emailBuilder.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	emailBuilder.WriteString("MIME-Version: 1.0\r\n")
	emailBuilder.WriteString("\r\n")
	emailBuilder.WriteString(body)

	rawMessage := base64.URLEncoding.EncodeToString([]byte(emailBuilder.String()))

	draft, err := c.svc.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{
			Raw:      rawMessage,
			ThreadId: original.ThreadID,
		},
	}).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create draft: %w", err)
	}

	return draft.Id, nil
}

// encodeRFC2047 encodes a string for use in email headers according to RFC 2047
// This is necessary for non-ASCII characters (like German umlauts) in subjects
func encodeRFC2047(s string) string {
	// Check if the string contains only ASCII characters
	needsEncoding := false
	for _, r := range s {
		if r > 127 {
			needsEncoding = true
			break
		}
	}

	// If it's all ASCII, return as-is
	if !needsEncoding {
		return s
	}

	// Use Go's mime package which implements RFC 2047 encoding
	return mime.BEncoding.Encode("UTF-8", s)
}
