// Package runner drives pipeline invocations: it binds a root agent to a
// session store, seeds the run state from the session and the incoming
// input, executes the agent, and persists what the run produced. One Run
// call is one conversation turn.
package runner

import (
	"context"
	"fmt"

	"github.com/promptpipe/promptpipe/core"
	"github.com/promptpipe/promptpipe/logging"
	"github.com/promptpipe/promptpipe/session"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// SessionStore persists session state and turn history.
	SessionStore core.SessionStore
	// Logger receives structured diagnostics.
	Logger logging.Logger
	// MaxOracleCalls limits the number of oracle calls per run (0 =
	// unlimited).
	MaxOracleCalls int
	// InputKey is the state key the incoming input text is seeded under.
	InputKey string
}

// Result captures the outcome of one run. On failure the Result is still
// returned alongside the error: outputs produced before the failing agent
// remain visible in State (and are persisted), deliberately exposing partial
// progress to the caller.
type Result struct {
	RunID string
	// Reply is the last produced output — the "visible" answer.
	Reply string
	// State is the full post-run state including session carry-over.
	State *core.State
	// Turns are the turns this run appended to the session.
	Turns []core.Turn
}

// Runner coordinates agent execution against persistent sessions. Public
// methods are safe for concurrent use as long as distinct sessions are
// involved; a single session is a single conversation and must not be run
// concurrently.
type Runner struct {
	agent          core.Agent
	sessionStore   core.SessionStore
	logger         logging.Logger
	maxOracleCalls int
	inputKey       string
}

// New constructs a Runner with optional overrides.
func New(agent core.Agent, optFns ...func(o *Options)) *Runner {
	opts := Options{
		SessionStore:   session.NewInMemoryStore(),
		Logger:         logging.NoOpLogger{},
		MaxOracleCalls: 100,
		InputKey:       "user_input",
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		agent:          agent,
		sessionStore:   opts.SessionStore,
		logger:         opts.Logger,
		maxOracleCalls: opts.MaxOracleCalls,
		inputKey:       opts.InputKey,
	}
}

// Run executes one conversation turn: load (or lazily create) the session,
// seed its state with input under the configured input key, run the root
// agent, persist the produced turns and state delta, and return the final
// state plus the visible reply.
//
// State written before a failure is persisted and returned; the error
// carries the failing agent's attribution.
func (r *Runner) Run(ctx context.Context, sessionID, input string) (*Result, error) {
	sess, err := r.sessionStore.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	runID := core.NewID()
	state := sess.State.Clone()
	run := core.NewRun(ctx, sessionID, runID, input, sess, state, r.maxOracleCalls, r.logger)

	if input != "" {
		run.SetValue(r.inputKey, input)
		if err := r.sessionStore.AppendTurn(sessionID, core.NewUserTurn(runID, input)); err != nil {
			return nil, fmt.Errorf("failed to append user turn: %w", err)
		}
	}

	r.logger.Debug("runner.run.start", "run_id", runID, "session_id", sessionID, "agent", r.agent.Name())

	agentErr := r.agent.Run(run)

	if err := r.persist(run); err != nil {
		return nil, err
	}

	result := &Result{
		RunID: runID,
		Reply: run.Reply(),
		State: state,
		Turns: run.Turns(),
	}

	if agentErr != nil {
		r.logger.Warn("runner.run.failed", "run_id", runID, "session_id", sessionID, "error", agentErr)
		return result, fmt.Errorf("agent execution failed: %w", agentErr)
	}

	r.logger.Debug("runner.run.done", "run_id", runID, "session_id", sessionID, "oracle_calls", run.Limiter.Count())

	return result, nil
}

// persist writes a run's accumulated delta and turns back to the session
// store. Called on success and failure alike so partial progress survives.
func (r *Runner) persist(run *core.Run) error {
	if run.Delta.Len() > 0 {
		if err := r.sessionStore.ApplyDelta(run.SessionID, run.Delta); err != nil {
			return fmt.Errorf("failed to apply state delta: %w", err)
		}
	}
	for _, turn := range run.Turns() {
		if err := r.sessionStore.AppendTurn(run.SessionID, turn); err != nil {
			return fmt.Errorf("failed to append turn: %w", err)
		}
	}
	return nil
}
