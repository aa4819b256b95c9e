package tool

import (
	"fmt"

	"github.com/promptpipe/promptpipe/core"
)

// AgentToolOptions configures an AgentTool.
type AgentToolOptions struct {
	// InputKey is the state key the tool input is stored under before the
	// wrapped agent runs, making it available to the agent's instruction
	// template.
	InputKey string
}

// AgentTool exposes a whole agent as a tool so a router (or another
// composition layer) can treat "run this sub-pipeline" and "call this
// function" uniformly. The tool input is written into the run state under
// InputKey, the agent runs against the shared state, and the agent's reply
// becomes the tool result.
type AgentTool struct {
	agent    core.Agent
	inputKey string
}

// NewAgentTool wraps an agent as a Tool. InputKey defaults to "request".
func NewAgentTool(agent core.Agent, optFns ...func(o *AgentToolOptions)) *AgentTool {
	opts := AgentToolOptions{InputKey: "request"}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &AgentTool{agent: agent, inputKey: opts.InputKey}
}

// Name returns the wrapped agent's name.
func (t *AgentTool) Name() string { return t.agent.Name() }

// Description returns the wrapped agent's description.
func (t *AgentTool) Description() string { return t.agent.Description() }

// Parameters declares the single "input" argument forwarded to the agent.
func (t *AgentTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{
				"type":        "string",
				"description": "Text input forwarded to the agent",
			},
		},
		"required": []string{"input"},
	}
}

// Call runs the wrapped agent against the current run state and returns its
// reply.
func (t *AgentTool) Call(run *core.Run, args map[string]any) (any, error) {
	input, _ := args["input"].(string)
	if t.inputKey != "" {
		run.SetValue(t.inputKey, input)
	}

	if err := t.agent.Run(run); err != nil {
		return nil, &ToolError{
			Tool:    t.Name(),
			Message: fmt.Sprintf("agent execution failed: %v", err),
			Code:    "EXECUTION_ERROR",
		}
	}

	return run.Reply(), nil
}
