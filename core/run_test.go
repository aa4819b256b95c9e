package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newRun(maxCalls int) *Run {
	sess := NewSession("s1")
	return NewRun(context.Background(), sess.ID, "run-1", "input text", sess, NewState(), maxCalls, nil)
}

func TestRun_SetValueRecordsDelta(t *testing.T) {
	run := newRun(0)

	run.SetValue("ticket_category", "Technical")

	v, ok := run.Value("ticket_category")
	assert.True(t, ok)
	assert.Equal(t, "Technical", v)

	d, ok := run.Delta.Get("ticket_category")
	assert.True(t, ok)
	assert.Equal(t, "Technical", d)
}

func TestRun_ReplyLastWriteWins(t *testing.T) {
	run := newRun(0)

	assert.Empty(t, run.Reply())

	run.SetReply("first")
	run.SetReply("second")
	assert.Equal(t, "second", run.Reply())
}

func TestRun_TurnsAreBuffered(t *testing.T) {
	run := newRun(0)

	run.AppendTurn(NewAgentTurn(run.RunID, "Classifier", "Technical"))

	turns := run.Turns()
	assert.Len(t, turns, 1)
	assert.Empty(t, run.Session.History()) // not persisted by the run itself

	turns[0].Text = "mutated"
	assert.Equal(t, "Technical", run.Turns()[0].Text)
}

func TestRun_ContextCancellation(t *testing.T) {
	sess := NewSession("s1")
	ctx, cancel := context.WithCancel(context.Background())
	run := NewRun(ctx, sess.ID, "run-1", "", sess, NewState(), 0, nil)

	assert.NoError(t, run.Err())
	cancel()
	assert.ErrorIs(t, run.Err(), context.Canceled)

	select {
	case <-run.Done():
	default:
		t.Fatal("Done channel should be closed after cancel")
	}
}

func TestCallLimiter(t *testing.T) {
	limiter := NewCallLimiter(2)

	assert.NoError(t, limiter.Increment())
	assert.NoError(t, limiter.Increment())
	assert.Equal(t, 2, limiter.Count())
	assert.Equal(t, 0, limiter.Remaining())

	err := limiter.Increment()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded max oracle calls")
}

func TestCallLimiter_Unlimited(t *testing.T) {
	limiter := NewCallLimiter(0)

	for range [10]struct{}{} {
		assert.NoError(t, limiter.Increment())
	}
	assert.Equal(t, -1, limiter.Remaining())
}

func TestErrorTypes(t *testing.T) {
	terr := &TemplateError{Agent: "Prioritizer", Key: "ticket_category"}
	assert.Contains(t, terr.Error(), "Prioritizer")
	assert.Contains(t, terr.Error(), "{ticket_category}")

	bare := &TemplateError{Key: "x"}
	assert.Contains(t, bare.Error(), "{x}")

	cause := errors.New("timeout")
	oerr := &OracleError{Agent: "Classifier", Err: cause}
	assert.Contains(t, oerr.Error(), "Classifier")
	assert.ErrorIs(t, oerr, cause)
}
