// Package core provides the foundational domain types used by PromptPipe. It
// defines the core abstractions for:
//
//   - Agents (named units of text-transform work)
//   - State (the ordered key/value context shared across a pipeline run)
//   - Sessions (stateful conversational containers with turn history)
//   - Run (scoped per-invocation execution context)
//   - Pluggable session stores
//
// The package intentionally keeps implementation concerns (persistence,
// concrete agents, oracle clients) out of scope, exposing small interfaces to
// enable custom backends and extensions.
package core
