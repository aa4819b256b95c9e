package core

import (
	"context"

	"github.com/promptpipe/promptpipe/logging"
)

// Run carries execution state for a single pipeline invocation. It
// aggregates:
//
//   - The ambient cancellation Context
//   - Identifiers (SessionID, RunID)
//   - The input text that started the run
//   - The working State visible to every agent in the run
//   - The Delta of keys written during this run (for persistence)
//   - The oracle call limiter and logger
//
// Agents mutate the run through SetValue / SetReply / AppendTurn; the caller
// that constructed the Run decides what to persist afterwards. A Run is
// caller-owned and never shared across concurrent invocations.
type Run struct {
	Context   context.Context
	SessionID string
	RunID     string
	Input     string
	Session   *Session
	State     *State
	Delta     *State
	Limiter   *CallLimiter
	Logger    logging.Logger

	reply string
	turns []Turn
}

// NewRun constructs a Run over the given working state. maxOracleCalls of 0
// means unlimited.
func NewRun(
	ctx context.Context,
	sessionID, runID string,
	input string,
	sess *Session,
	state *State,
	maxOracleCalls int,
	logger logging.Logger,
) *Run {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Run{
		Context:   ctx,
		SessionID: sessionID,
		RunID:     runID,
		Input:     input,
		Session:   sess,
		State:     state,
		Delta:     NewState(),
		Limiter:   NewCallLimiter(maxOracleCalls),
		Logger:    logger,
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (r *Run) Done() <-chan struct{} { return r.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (r *Run) Err() error { return r.Context.Err() }

// Value returns a state value and existence flag.
func (r *Run) Value(key string) (string, bool) { return r.State.Get(key) }

// SetValue writes a state value and records it in the run's delta so the
// caller can persist exactly what this run produced.
func (r *Run) SetValue(key, value string) {
	r.State.Set(key, value)
	r.Delta.Set(key, value)
}

// SetReply records text as the run's visible reply. The last agent to
// produce output wins, mirroring a pipeline where the final stage's output
// is the answer shown to the user.
func (r *Run) SetReply(text string) { r.reply = text }

// Reply returns the current visible reply ("" if no agent produced output).
func (r *Run) Reply() string { return r.reply }

// AppendTurn records a turn produced during this run. Turns are buffered on
// the Run; the caller persists them to the session store.
func (r *Run) AppendTurn(t Turn) { r.turns = append(r.turns, t) }

// Turns returns the turns recorded so far during this run.
func (r *Run) Turns() []Turn {
	turns := make([]Turn, len(r.turns))
	copy(turns, r.turns)
	return turns
}
