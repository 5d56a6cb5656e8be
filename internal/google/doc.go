// Package google provides OAuth2 authentication and token management for
// the Google APIs used by inboxpilot (Gmail and Calendar).
//
// Tokens are cached per account under the user cache directory. The client
// returned by GetHTTPClientForAccount is constructed once per run and passed
// to the service adapters; no package-level mutable client is kept.
package google
