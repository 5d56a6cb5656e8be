// Package calendar provides read access to upcoming Google Calendar events.
//
// The watchman pass uses the near-term event window (next 48 hours) to judge
// whether a meeting referenced in a thread is missing logistics: no location
// and no video link.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClientForAccount(ctx, "default")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	events, err := client.ListUpcoming(48 * time.Hour)
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
