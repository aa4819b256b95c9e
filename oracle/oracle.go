// Package oracle defines the text-generation dependency every model-backed
// agent calls: given a rendered prompt, return generated text or fail. The
// interface is deliberately synchronous and swappable so callers can plug a
// hosted model client, a local function or a deterministic test stub.
// Retry, batching and streaming concerns belong to the implementation behind
// the interface, not to the callers.
package oracle

import "context"

// Oracle produces text for a rendered prompt. Implementations must be safe
// for concurrent independent calls, since one client may be shared across
// simultaneously running pipelines.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func is a functional adapter to allow ordinary functions to be used as
// Oracles.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate implements Oracle.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
