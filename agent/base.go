package agent

import "fmt"

// Base bundles the identity helpers shared by every agent implementation.
// Embed it in concrete agents and supply a Run method to satisfy the
// core.Agent interface. Base is immutable after construction aside from
// SetDescription, which should only be called during wiring.
type Base struct {
	name        string
	description string
}

// NewBase constructs a Base with a generated description (customizable via
// SetDescription).
func NewBase(name string) Base {
	return Base{
		name:        name,
		description: fmt.Sprintf("Agent %s", name),
	}
}

// Name returns the human-readable name for this agent.
func (b *Base) Name() string { return b.name }

// Description returns a detailed description of this agent's purpose.
func (b *Base) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *Base) SetDescription(desc string) { b.description = desc }
