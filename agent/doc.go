// Package agent contains first-class agent implementations for building
// text-transform pipelines. The package focuses on three concerns:
//
//  1. Identity plumbing shared by every implementation (Base)
//  2. The model-backed transform step (LLM)
//  3. Composition patterns (Sequential, Router)
//
// Design principles:
//   - No hidden global state: everything an agent touches arrives through
//     the *core.Run passed to Run
//   - Composability: composite agents coordinate child Runs over the same
//     shared state
//   - Fail fast: an agent that cannot produce its output returns an error
//     without writing anything, leaving earlier outputs intact
//
// The package intentionally keeps persistence, oracle specifics and tool
// abstractions in their respective packages to avoid cyclic deps.
package agent
