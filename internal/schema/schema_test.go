package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type lookupArgs struct {
	TicketID string `json:"ticket_id" jsonschema:"description=The ticket identifier"`
	Limit    int    `json:"limit,omitempty" jsonschema:"description=Max results"`
}

func TestFor_Struct(t *testing.T) {
	s := For(lookupArgs{})

	assert.Equal(t, "object", s["type"])
	props, ok := s["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "ticket_id")
	assert.Contains(t, props, "limit")

	required := s["required"]
	assert.Contains(t, required, "ticket_id")
	assert.NotContains(t, required, "limit")
}

func TestFor_NonStruct(t *testing.T) {
	for _, input := range []any{42, "text", []string{"a"}, nil, new(int)} {
		s := For(input)

		assert.Equal(t, "object", s["type"])
		props, ok := s["properties"].(map[string]any)
		assert.True(t, ok)
		assert.Empty(t, props)
	}
}

func TestFor_StructPointer(t *testing.T) {
	s := For(&lookupArgs{})

	assert.Equal(t, "object", s["type"])
	props, ok := s["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "ticket_id")
}

func TestValidate_Success(t *testing.T) {
	s := For(lookupArgs{})

	err := Validate(s, map[string]any{"ticket_id": "T-1", "limit": 5})

	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	s := For(lookupArgs{})

	err := Validate(s, map[string]any{"limit": 5})

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "ticket_id", verr.Field)
}

func TestValidate_WrongType(t *testing.T) {
	s := For(lookupArgs{})

	err := Validate(s, map[string]any{"ticket_id": 7})

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "ticket_id", verr.Field)
}

func TestValidate_Enum(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"level": map[string]any{"type": "string", "enum": []any{"low", "high"}},
		},
	}

	assert.NoError(t, Validate(s, map[string]any{"level": "low"}))

	err := Validate(s, map[string]any{"level": "extreme"})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "level", verr.Field)
}

func TestValidate_ExtraFieldsAllowed(t *testing.T) {
	s := For(lookupArgs{})

	err := Validate(s, map[string]any{"ticket_id": "T-1", "unknown": true})

	assert.NoError(t, err)
}
