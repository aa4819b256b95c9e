// Package promptpipe provides a high-level façade over the runner and
// service abstractions (sessions & logging) enabling rapid construction of
// sequential prompt pipelines. Most applications interact with this package
// by:
//  1. Composing agents (agent.NewLLM, agent.NewSequential, agent.NewRouter)
//  2. Creating a PromptPipe via New() with the root agent (optionally
//     overriding the default in-memory session store or logger)
//  3. Running conversation turns with Run()
//
// All defaults are safe for local development and testing; production
// deployments typically supply a durable session store (session/redis) and
// a structured logger.
package promptpipe

import (
	"context"

	"github.com/promptpipe/promptpipe/core"
	"github.com/promptpipe/promptpipe/logging"
	"github.com/promptpipe/promptpipe/runner"
	"github.com/promptpipe/promptpipe/session"
)

// Options configures the PromptPipe instance.
type Options struct {
	// SessionStore persists sessions (defaults to in-memory).
	SessionStore core.SessionStore
	// Logger defaults to NoOp.
	Logger logging.Logger
	// MaxOracleCalls caps oracle calls per run (0 = unlimited).
	MaxOracleCalls int
	// InputKey is the state key user input is seeded under.
	InputKey string
}

// PromptPipe is the high-level façade aggregating the runner and services.
type PromptPipe struct {
	runner *runner.Runner
}

// New creates a PromptPipe driving the given root agent. Any unset service
// is initialized with an in-memory implementation.
func New(root core.Agent, optFns ...func(o *Options)) *PromptPipe {
	opts := Options{
		SessionStore:   session.NewInMemoryStore(),
		Logger:         logging.NoOpLogger{},
		MaxOracleCalls: 100,
		InputKey:       "user_input",
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	r := runner.New(root, func(o *runner.Options) {
		o.SessionStore = opts.SessionStore
		o.Logger = opts.Logger
		o.MaxOracleCalls = opts.MaxOracleCalls
		o.InputKey = opts.InputKey
	})

	return &PromptPipe{runner: r}
}

// Run executes one conversation turn against the given session and returns
// the final state plus the visible reply.
func (p *PromptPipe) Run(ctx context.Context, sessionID, input string) (*runner.Result, error) {
	return p.runner.Run(ctx, sessionID, input)
}
