package agent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/promptpipe/promptpipe/core"
	"github.com/promptpipe/promptpipe/internal/prompt"
	"github.com/promptpipe/promptpipe/oracle"
	"github.com/promptpipe/promptpipe/tool"
)

// Handler processes a routed request. detail carries any text the
// classifier produced after the label separator ("label: detail").
type Handler interface {
	Handle(run *core.Run, detail string) error
}

// HandlerFunc is a functional adapter to allow ordinary functions to be
// used as Handlers.
type HandlerFunc func(run *core.Run, detail string) error

// Handle implements Handler.
func (f HandlerFunc) Handle(run *core.Run, detail string) error { return f(run, detail) }

// AgentHandler adapts an agent into a Handler; the routed detail is ignored
// and the agent runs against the shared state.
func AgentHandler(a core.Agent) Handler {
	return HandlerFunc(func(run *core.Run, _ string) error {
		return a.Run(run)
	})
}

// ToolHandler adapts a tool into a Handler. The routed detail is passed as
// the tool's "input" argument; the result is rendered to text, stored under
// outputKey (if non-empty) and surfaced as the run reply.
func ToolHandler(t tool.Tool, outputKey string) Handler {
	return HandlerFunc(func(run *core.Run, detail string) error {
		result, err := t.Call(run, map[string]any{"input": detail})
		if err != nil {
			return fmt.Errorf("tool %s: %w", t.Name(), err)
		}

		text := fmt.Sprint(result)
		if outputKey != "" {
			run.SetValue(outputKey, text)
		}
		run.SetReply(text)
		run.AppendTurn(core.NewAgentTurn(run.RunID, t.Name(), text))

		return nil
	})
}

// RouterOptions configures a Router instance.
type RouterOptions struct {
	// Description overrides the generated agent description.
	Description string
	// LabelKey, when non-empty, stores the chosen label in run state.
	LabelKey string
	// Fallback handles labels outside the registered set. When nil an
	// unknown label is an error.
	Fallback Handler
}

// Router dispatches a request to one of a fixed set of handlers. The
// "decision" is delegated to the oracle: the router renders its instruction
// template, sends it to the oracle, and parses the response into one label
// of the registered enumerated set (accepting either "label" or
// "label: detail", case-insensitive). The matched handler then runs against
// the shared state.
//
// This replaces opaque runtime sub-agent delegation with an explicit
// dispatch table: every possible route is visible at construction time and
// unknown labels either hit the configured fallback or fail loudly.
type Router struct {
	Base
	oracle      oracle.Oracle
	instruction Instruction
	labelKey    string
	routes      map[string]Handler
	labels      []string // registration order, for deterministic introspection
	fallback    Handler
}

// NewRouter creates a routing agent. The instruction should ask the oracle
// to answer with exactly one of the registered labels.
func NewRouter(name string, o oracle.Oracle, instruction Instruction, optFns ...func(o *RouterOptions)) *Router {
	opts := RouterOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	base := NewBase(name)
	if opts.Description != "" {
		base.SetDescription(opts.Description)
	}

	return &Router{
		Base:        base,
		oracle:      o,
		instruction: instruction,
		labelKey:    opts.LabelKey,
		routes:      map[string]Handler{},
		fallback:    opts.Fallback,
	}
}

// Handle registers a handler for a label. Labels are matched
// case-insensitively. Registering the same label twice replaces the
// previous handler.
func (r *Router) Handle(label string, h Handler) *Router {
	normalized := normalizeLabel(label)
	if _, exists := r.routes[normalized]; !exists {
		r.labels = append(r.labels, normalized)
	}
	r.routes[normalized] = h
	return r
}

// HandleAgent registers an agent as the handler for a label.
func (r *Router) HandleAgent(label string, a core.Agent) *Router {
	return r.Handle(label, AgentHandler(a))
}

// HandleTool registers a tool as the handler for a label, storing its result
// under outputKey.
func (r *Router) HandleTool(label string, t tool.Tool, outputKey string) *Router {
	return r.Handle(label, ToolHandler(t, outputKey))
}

// Labels returns the registered labels in registration order.
func (r *Router) Labels() []string {
	labels := make([]string, len(r.labels))
	copy(labels, r.labels)
	return labels
}

// Run implements core.Agent. One oracle call decides the route; the matched
// handler (or fallback) then runs.
func (r *Router) Run(run *core.Run) error {
	text, err := r.instruction.Resolve(run)
	if err != nil {
		return fmt.Errorf("resolve instruction for %s: %w", r.Name(), err)
	}

	rendered, err := prompt.Render(text, run.State)
	if err != nil {
		var terr *core.TemplateError
		if errors.As(err, &terr) {
			return &core.TemplateError{Agent: r.Name(), Key: terr.Key}
		}
		return fmt.Errorf("render instruction for %s: %w", r.Name(), err)
	}

	if err := run.Limiter.Increment(); err != nil {
		return fmt.Errorf("agent %s: %w", r.Name(), err)
	}

	output, err := r.oracle.Generate(run.Context, rendered)
	if err != nil {
		return &core.OracleError{Agent: r.Name(), Err: err}
	}

	label, detail := ParseLabel(output)
	run.Logger.Debug("router.dispatch", "agent", r.Name(), "label", label)

	handler, ok := r.routes[label]
	if !ok {
		if r.fallback == nil {
			return fmt.Errorf("router %s: no route for label %q (known: %s)",
				r.Name(), label, strings.Join(r.labels, ", "))
		}
		handler = r.fallback
	}

	// Record the label only once a handler is resolved, so a failed dispatch
	// leaves no trace in state.
	if r.labelKey != "" {
		run.SetValue(r.labelKey, label)
	}

	if err := handler.Handle(run, detail); err != nil {
		return fmt.Errorf("router %s: handler for %q: %w", r.Name(), label, err)
	}

	return nil
}

// ParseLabel extracts the classification label from oracle output. Only the
// first line is considered; an optional ": detail" suffix is split off and
// returned separately. The label is lowercased and trimmed so prompts can
// use whatever casing reads best.
func ParseLabel(output string) (label, detail string) {
	line := output
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		detail = strings.TrimSpace(line[idx+1:])
		line = line[:idx]
	}
	if idx := strings.IndexByte(line, ':'); idx >= 0 {
		detail = strings.TrimSpace(strings.TrimSpace(line[idx+1:]) + "\n" + detail)
		line = line[:idx]
	}
	return normalizeLabel(line), detail
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
