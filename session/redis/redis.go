// Package redis implements core.SessionStore on top of Redis, giving
// sessions durability across process restarts. Sessions are stored as JSON
// blobs under "prefix:session:<id>" keys with an optional TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/promptpipe/promptpipe/core"
)

// Options configures the Redis session store.
type Options struct {
	// Prefix namespaces all keys, default "promptpipe".
	Prefix string
	// TTL is the expiry applied on every write, 0 = no expiry.
	TTL time.Duration
}

// Store is a Redis-backed SessionStore. Mutations are read-modify-write
// over the whole session blob, serialized by an internal mutex; the store
// assumes a single writer per session (one conversation, one process),
// which matches how the runner drives sessions.
type Store struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	mu     sync.Mutex
}

// NewStore creates a SessionStore backed by the given Redis client.
// Compatible with go-redis Client, ClusterClient, and Ring.
func NewStore(client redis.UniversalClient, optFns ...func(o *Options)) *Store {
	opts := Options{Prefix: "promptpipe"}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Store{client: client, prefix: opts.Prefix, ttl: opts.TTL}
}

func (s *Store) key(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, sessionID)
}

// Get returns an existing session or creates a new one lazily.
func (s *Store) Get(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOrCreateLocked(sessionID)
}

// Create forces the creation (or overwriting) of a session with the given id.
func (s *Store) Create(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := core.NewSession(sessionID)
	if err := s.saveLocked(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// AppendTurn adds a turn to an existing or newly created session.
func (s *Store) AppendTurn(sessionID string, turn core.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.loadOrCreateLocked(sessionID)
	if err != nil {
		return err
	}
	sess.AppendTurn(turn)
	return s.saveLocked(sess)
}

// ApplyDelta merges a state delta into the session state.
func (s *Store) ApplyDelta(sessionID string, delta *core.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.loadOrCreateLocked(sessionID)
	if err != nil {
		return err
	}
	sess.MergeState(delta)
	return s.saveLocked(sess)
}

// Delete removes a session. Missing sessions are not an error.
func (s *Store) Delete(sessionID string) error {
	return s.client.Del(context.Background(), s.key(sessionID)).Err()
}

func (s *Store) loadOrCreateLocked(sessionID string) (*core.Session, error) {
	raw, err := s.client.Get(context.Background(), s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		sess := core.NewSession(sessionID)
		if err := s.saveLocked(sess); err != nil {
			return nil, err
		}
		return sess, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session %s: %w", sessionID, err)
	}

	var sess core.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &sess, nil
}

func (s *Store) saveLocked(sess *core.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err := s.client.Set(context.Background(), s.key(sess.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", sess.ID, err)
	}
	return nil
}
