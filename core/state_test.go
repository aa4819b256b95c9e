package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_SetGet(t *testing.T) {
	s := NewState()

	s.Set("ticket_category", "Technical")

	v, ok := s.Get("ticket_category")
	assert.True(t, ok)
	assert.Equal(t, "Technical", v)

	_, ok = s.Get("absent")
	assert.False(t, ok)
	assert.False(t, s.Has("absent"))
}

func TestState_KeysInCreationOrder(t *testing.T) {
	s := NewState()
	s.Set("c", "3")
	s.Set("a", "1")
	s.Set("b", "2")

	assert.Equal(t, []string{"c", "a", "b"}, s.Keys())
	assert.Equal(t, 3, s.Len())
}

func TestState_OverwriteKeepsPosition(t *testing.T) {
	s := NewStateFrom("first", "1", "second", "2")

	s.Set("first", "updated")

	assert.Equal(t, []string{"first", "second"}, s.Keys())
	v, _ := s.Get("first")
	assert.Equal(t, "updated", v)
}

func TestState_Merge(t *testing.T) {
	s := NewStateFrom("a", "1")
	delta := NewStateFrom("b", "2", "a", "overwritten")

	s.Merge(delta)

	assert.Equal(t, []string{"a", "b"}, s.Keys())
	a, _ := s.Get("a")
	assert.Equal(t, "overwritten", a)

	s.Merge(nil) // no-op
	assert.Equal(t, 2, s.Len())
}

func TestState_CloneIsIndependent(t *testing.T) {
	s := NewStateFrom("a", "1")

	clone := s.Clone()
	clone.Set("b", "2")
	clone.Set("a", "mutated")

	assert.False(t, s.Has("b"))
	original, _ := s.Get("a")
	assert.Equal(t, "1", original)
}

func TestState_JSONRoundTripPreservesOrder(t *testing.T) {
	s := NewStateFrom("z", "last?", "a", "first?", "m", "middle")

	raw, err := json.Marshal(s)
	assert.NoError(t, err)
	assert.Equal(t, `{"z":"last?","a":"first?","m":"middle"}`, string(raw))

	var decoded State
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, []string{"z", "a", "m"}, decoded.Keys())
}

func TestState_UnmarshalRejectsNonObject(t *testing.T) {
	var s State

	assert.Error(t, json.Unmarshal([]byte(`["not", "an", "object"]`), &s))
}
