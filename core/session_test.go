package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSession(t *testing.T) {
	sess := NewSession("s1")

	assert.Equal(t, "s1", sess.ID)
	assert.Equal(t, 0, sess.State.Len())
	assert.Empty(t, sess.History())
	assert.False(t, sess.Created.IsZero())
}

func TestSession_AppendTurn(t *testing.T) {
	sess := NewSession("s1")
	before := sess.Updated

	sess.AppendTurn(NewUserTurn("run-1", "hello"))
	sess.AppendTurn(NewAgentTurn("run-1", "Greeter", "hi"))

	history := sess.History()
	assert.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "Greeter", history[1].Agent)
	assert.NotEqual(t, history[0].ID, history[1].ID)
	assert.False(t, sess.Updated.Before(before))
}

func TestSession_HistoryIsCopy(t *testing.T) {
	sess := NewSession("s1")
	sess.AppendTurn(NewUserTurn("run-1", "hello"))

	history := sess.History()
	history[0].Text = "mutated"

	assert.Equal(t, "hello", sess.History()[0].Text)
}

func TestSession_MergeState(t *testing.T) {
	sess := NewSession("s1")

	sess.MergeState(NewStateFrom("a", "1", "b", "2"))

	assert.Equal(t, []string{"a", "b"}, sess.State.Keys())
}

func TestSession_CloneIsIndependent(t *testing.T) {
	sess := NewSession("s1")
	sess.State.Set("a", "1")
	sess.AppendTurn(NewUserTurn("run-1", "hello"))
	sess.Metadata["tenant"] = "acme"

	clone := sess.Clone()
	clone.State.Set("b", "2")
	clone.AppendTurn(NewUserTurn("run-2", "again"))
	clone.Metadata["tenant"] = "other"

	assert.False(t, sess.State.Has("b"))
	assert.Len(t, sess.History(), 1)
	assert.Equal(t, "acme", sess.Metadata["tenant"])
}

func TestSession_JSONRoundTrip(t *testing.T) {
	sess := NewSession("s1")
	sess.State.Set("ticket_category", "Technical")
	sess.AppendTurn(NewUserTurn("run-1", "hello"))

	raw, err := json.Marshal(sess)
	assert.NoError(t, err)

	var decoded Session
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "s1", decoded.ID)
	assert.Equal(t, []string{"ticket_category"}, decoded.State.Keys())
	assert.Len(t, decoded.Turns, 1)
	assert.Equal(t, "hello", decoded.Turns[0].Text)
}
