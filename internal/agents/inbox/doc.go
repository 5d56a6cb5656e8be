// Package inbox implements the inbox-management agent: a linear pipeline
// that triages recent mail, drafts replies for messages that need one and
// watches the important set for latency, missing meeting logistics and
// unresolved threads.
//
// The pipeline stages run strictly in order: fetch, classify and apply,
// partition, draft, watch, render briefing. A fetch failure aborts the run;
// every later stage absorbs its own failures per item and degrades to a
// smaller result set. All records produced here are ephemeral to one run,
// the mailbox is the only durable state.
package inbox
