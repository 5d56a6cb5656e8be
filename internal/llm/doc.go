// Package llm provides access to the language-model service used by the
// agents for classification, drafting, and monitoring judgments.
//
// The service is treated as unreliable in two ways: individual model
// identifiers may fail transiently, so the client walks an ordered fallback
// list until one succeeds; and replies are not guaranteed to be parseable
// structured content, so callers use UnmarshalFirstArray to extract the
// embedded JSON they asked for.
package llm
