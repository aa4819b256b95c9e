package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
)

// State is the shared key/value context accumulated across a pipeline run.
// Keys are unique; values are plain text. Unlike a bare map, State remembers
// the order in which keys were first created so that callers (and stores)
// observe outputs in the order the producing agents ran. Overwriting an
// existing key keeps its original position.
//
// State is safe for concurrent access. A single pipeline run mutates it
// strictly sequentially; the locking exists for callers that inspect a
// session's state while a run is in flight.
type State struct {
	mu     sync.RWMutex
	values map[string]string
	order  []string
}

// NewState constructs an empty State.
func NewState() *State {
	return &State{values: map[string]string{}}
}

// NewStateFrom constructs a State seeded with the given key/value pairs in
// slice order. Pairs must have even length (key, value, key, value, ...).
func NewStateFrom(pairs ...string) *State {
	s := NewState()
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Set(pairs[i], pairs[i+1])
	}
	return s
}

// Set stores value under key, creating the key at the end of the order if it
// does not exist yet.
func (s *State) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] = value
}

// Get returns the value and existence flag for a key.
func (s *State) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key exists.
func (s *State) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys returns all keys in creation order.
func (s *State) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// Len returns the number of stored keys.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Merge copies every pair from other into s, preserving other's creation
// order for keys new to s.
func (s *State) Merge(other *State) {
	if other == nil {
		return
	}
	for _, k := range other.Keys() {
		v, _ := other.Get(k)
		s.Set(k, v)
	}
}

// Clone returns a deep copy safe for independent mutation.
func (s *State) Clone() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &State{
		values: make(map[string]string, len(s.values)),
		order:  make([]string, len(s.order)),
	}
	for k, v := range s.values {
		clone.values[k] = v
	}
	copy(clone.order, s.order)
	return clone
}

// Map returns a plain map copy of the current values. Order is lost; use
// Keys for ordered iteration.
func (s *State) Map() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := make(map[string]string, len(s.values))
	for k, v := range s.values {
		m[k] = v
	}
	return m
}

// MarshalJSON encodes the state as a JSON object whose members appear in key
// creation order. Persistence backends rely on this to round-trip order.
func (s *State) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving member order.
func (s *State) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("state: expected JSON object, got %v", tok)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]string{}
	s.order = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("state: non-string key %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("state: value for key %q: %w", key, err)
		}
		if _, exists := s.values[key]; !exists {
			s.order = append(s.order, key)
		}
		s.values[key] = value
	}
	_, err = dec.Token() // consume closing brace
	return err
}
