package core

import "fmt"

// TemplateError reports an instruction template that referenced a state key
// absent at render time. Rendering fails fast rather than substituting an
// empty string, so a mis-ordered pipeline surfaces immediately instead of
// feeding a silently truncated prompt to the oracle.
type TemplateError struct {
	Agent string // agent whose instruction failed to render (may be empty)
	Key   string // missing state key
}

func (e *TemplateError) Error() string {
	if e.Agent != "" {
		return fmt.Sprintf("template error in %s: no state value for placeholder {%s}", e.Agent, e.Key)
	}
	return fmt.Sprintf("template error: no state value for placeholder {%s}", e.Key)
}

// OracleError wraps a failed text-generation call, attributing it to the
// agent that issued it. The underlying provider error is preserved for
// errors.Is / errors.As inspection.
type OracleError struct {
	Agent string
	Err   error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle call failed in %s: %v", e.Agent, e.Err)
}

// Unwrap returns the underlying provider error.
func (e *OracleError) Unwrap() error { return e.Err }
