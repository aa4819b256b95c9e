package tool

import (
	"fmt"
	"strings"

	"github.com/promptpipe/promptpipe/core"
)

// NewStateTool returns a FunctionTool exposing the run state to handlers:
// reading a key, writing a key, or listing all keys in creation order.
// It is mainly useful for diagnostic routes and examples.
func NewStateTool() *FunctionTool {
	parameters := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"enum":        []any{"get", "set", "keys"},
				"description": "The state operation to perform",
			},
			"key": map[string]any{
				"type":        "string",
				"description": "State key for get/set operations",
			},
			"value": map[string]any{
				"type":        "string",
				"description": "Value for set operations",
			},
		},
		"required": []string{"operation"},
	}

	return NewFunctionTool(
		"state",
		"Reads and writes the shared run state. Supports operations: get, set, keys.",
		parameters,
		func(run *core.Run, args map[string]any) (any, error) {
			operation, _ := args["operation"].(string)
			key, _ := args["key"].(string)

			switch operation {
			case "get":
				if key == "" {
					return nil, NewToolError("state", "get requires a key", "VALIDATION_ERROR")
				}
				value, ok := run.Value(key)
				if !ok {
					return nil, NewToolError("state", fmt.Sprintf("no value for key %q", key), "NOT_FOUND")
				}
				return value, nil
			case "set":
				if key == "" {
					return nil, NewToolError("state", "set requires a key", "VALIDATION_ERROR")
				}
				value, _ := args["value"].(string)
				run.SetValue(key, value)
				return fmt.Sprintf("set %s", key), nil
			case "keys":
				return strings.Join(run.State.Keys(), ", "), nil
			default:
				return nil, NewToolError("state", fmt.Sprintf("unknown operation %q", operation), "VALIDATION_ERROR")
			}
		},
	)
}
