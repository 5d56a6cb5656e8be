// Package tickets implements the ticket-trend agent: it ingests a CSV
// export of support tickets, computes week-over-week volume per category
// and summarizes the trend table with one language-model call.
package tickets
