package agent

import (
	"errors"
	"fmt"

	"github.com/promptpipe/promptpipe/core"
	"github.com/promptpipe/promptpipe/internal/prompt"
	"github.com/promptpipe/promptpipe/oracle"
)

// LLMOptions configures an LLM agent instance.
//
// Use functional options with NewLLM to override defaults.
type LLMOptions struct {
	// Description overrides the generated agent description.
	Description string
	// OutputKey is the state key the agent's output is stored under. Empty
	// means the output is only surfaced as the run reply.
	OutputKey string
}

// LLM is the model-backed transform step: it renders its instruction
// template against the current run state, asks its oracle to complete the
// rendered prompt, and stores the result under its output key so subsequent
// agents can reference it.
//
// Each LLM carries its own oracle, so one pipeline can mix providers (for
// example OpenAI for classification and Anthropic for drafting).
//
// Failure semantics: on a missing template placeholder the agent fails with
// *core.TemplateError before any oracle call; on a failed oracle call it
// fails with *core.OracleError. In both cases the run state is left
// untouched.
type LLM struct {
	Base
	oracle      oracle.Oracle
	instruction Instruction
	outputKey   string
}

// NewLLM creates a model-backed agent.
//
// Parameters:
//   - name: human-readable name, also used for error attribution
//   - o: the oracle answering this agent's rendered prompts
//   - instruction: static template or dynamic provider
func NewLLM(name string, o oracle.Oracle, instruction Instruction, optFns ...func(o *LLMOptions)) *LLM {
	opts := LLMOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	base := NewBase(name)
	if opts.Description != "" {
		base.SetDescription(opts.Description)
	}

	return &LLM{
		Base:        base,
		oracle:      o,
		instruction: instruction,
		outputKey:   opts.OutputKey,
	}
}

// OutputKey returns the state key this agent writes its output to ("" if
// none).
func (a *LLM) OutputKey() string { return a.outputKey }

// Run implements core.Agent. It resolves and renders the instruction, makes
// exactly one oracle call, and on success writes the output key and the run
// reply.
func (a *LLM) Run(run *core.Run) error {
	text, err := a.instruction.Resolve(run)
	if err != nil {
		return fmt.Errorf("resolve instruction for %s: %w", a.Name(), err)
	}

	rendered, err := prompt.Render(text, run.State)
	if err != nil {
		var terr *core.TemplateError
		if errors.As(err, &terr) {
			return &core.TemplateError{Agent: a.Name(), Key: terr.Key}
		}
		return fmt.Errorf("render instruction for %s: %w", a.Name(), err)
	}

	if err := run.Limiter.Increment(); err != nil {
		return fmt.Errorf("agent %s: %w", a.Name(), err)
	}

	run.Logger.Debug("llm.generate", "agent", a.Name(), "run_id", run.RunID, "prompt_len", len(rendered))

	output, err := a.oracle.Generate(run.Context, rendered)
	if err != nil {
		return &core.OracleError{Agent: a.Name(), Err: err}
	}

	if a.outputKey != "" {
		run.SetValue(a.outputKey, output)
	}
	run.SetReply(output)
	run.AppendTurn(core.NewAgentTurn(run.RunID, a.Name(), output))

	return nil
}
