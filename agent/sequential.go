package agent

import (
	"fmt"

	"github.com/promptpipe/promptpipe/core"
)

// Sequential coordinates the execution of multiple child agents in order.
//
// Each child's output becomes visible to subsequent children through the
// shared run state, so a later instruction template can reference an earlier
// output key. Execution stops at the first failing child; state written by
// earlier children is deliberately not rolled back, so the caller can
// observe partial progress.
//
// Sequential is ideal for:
//   - Multi-step prompt pipelines (classify, prioritize, recommend)
//   - Workflows requiring a specific execution order
//   - Tasks where agent outputs build upon each other
type Sequential struct {
	Base
	children []core.Agent
}

// NewSequential creates a sequential execution coordinator over the given
// children, executed in the order specified.
func NewSequential(name string, children ...core.Agent) *Sequential {
	return &Sequential{
		Base:     NewBase(name),
		children: children,
	}
}

// Children returns the child agents in declared order.
func (s *Sequential) Children() []core.Agent {
	children := make([]core.Agent, len(s.children))
	copy(children, s.children)
	return children
}

// Run implements core.Agent. It executes each child in declared order
// against the same run; the first error stops further processing and is
// surfaced with the failing child's name.
func (s *Sequential) Run(run *core.Run) error {
	for _, child := range s.children {
		if err := run.Err(); err != nil {
			return err
		}
		if err := child.Run(run); err != nil {
			return fmt.Errorf("sequential execution failed at agent %s: %w", child.Name(), err)
		}
	}

	return nil
}
