package agent

import "github.com/promptpipe/promptpipe/core"

// Provider supplies dynamic instruction text at runtime.
// Implementations can derive instructions from run state, environment, etc.
type Provider interface {
	Instruction(*core.Run) (string, error)
}

// ProviderFunc is a functional adapter to allow ordinary functions to be
// used as Providers.
type ProviderFunc func(*core.Run) (string, error)

// Instruction implements Provider.
func (f ProviderFunc) Instruction(run *core.Run) (string, error) { return f(run) }

// Instruction represents either a static instruction template or a dynamic
// provider. This mirrors a union of string | provider in a Go-idiomatic way.
// The resolved text may contain {key} placeholders referencing run state.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(*core.Run) (string, error)) Instruction {
	return Instruction{provider: ProviderFunc(f)}
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text, invoking the provider if needed.
func (i Instruction) Resolve(run *core.Run) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(run)
	}
	return i.text, nil
}
