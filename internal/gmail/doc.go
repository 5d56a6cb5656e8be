// Package gmail implements the message-store adapter over the Gmail API.
//
// The adapter exposes the small surface the agents need:
//   - List a bounded window of recent inbox messages as immutable snapshots
//   - Archive a message (remove the INBOX label)
//   - Apply a named label, creating it first when absent
//   - Create a threaded reply draft (In-Reply-To/References preserved)
//
// Snapshots are taken once per pipeline run. Mutations are requested against
// the store and are not reflected back into in-memory snapshots.
//
// Authentication uses the cached Google OAuth token from the google package
// (~/.cache/inboxpilot/).
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClientForAccount(ctx, "default")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	msgs, err := client.ListRecent(50)
//	if err != nil {
//	    log.Fatal(err)
//	}
package gmail
