package oracle

import (
	"context"
	"fmt"
	"sync"
)

// Stub is a deterministic in-memory Oracle for tests and examples. It
// records every prompt it receives in call order, answers from a canned
// prompt→response table, and falls back to a default function (or a generic
// echo) for unknown prompts. A configured error makes every call fail.
type Stub struct {
	mu        sync.Mutex
	responses map[string]string
	defaultFn func(prompt string) string
	err       error
	calls     []string
}

// NewStub constructs an empty Stub.
func NewStub() *Stub {
	return &Stub{responses: map[string]string{}}
}

// WithResponse registers a canned completion for an exact prompt.
func (s *Stub) WithResponse(prompt, response string) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[prompt] = response
	return s
}

// WithDefault sets the fallback used for prompts without a canned response.
func (s *Stub) WithDefault(fn func(prompt string) string) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultFn = fn
	return s
}

// FailWith makes every subsequent call return err. Passing nil restores
// normal operation.
func (s *Stub) FailWith(err error) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// Generate implements Oracle.
func (s *Stub) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, prompt)

	if s.err != nil {
		return "", s.err
	}
	if resp, ok := s.responses[prompt]; ok {
		return resp, nil
	}
	if s.defaultFn != nil {
		return s.defaultFn(prompt), nil
	}
	return fmt.Sprintf("stub response to: %s", prompt), nil
}

// Calls returns a copy of all received prompts in call order.
func (s *Stub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := make([]string, len(s.calls))
	copy(calls, s.calls)
	return calls
}

// CallCount returns the number of Generate invocations so far.
func (s *Stub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
