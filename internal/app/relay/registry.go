/*
Package relay contains the core logic of the real-time message relay.

This file defines the Registry, the exclusive owner of the live mapping from
user identifier to connection session. At most one session is live per user
identifier: a newer connection from the same identifier replaces the prior one.
*/
package relay

import (
	"sync"

	"linguachat/internal/app/user"
)

// Session is one live, authenticated transport connection. The concrete
// implementation is *Client; tests substitute fakes.
type Session interface {
	// User returns the authenticated identity the session was admitted with.
	User() user.User

	// Enqueue queues an event for delivery on this session. Best-effort:
	// a full or closed session drops the event and returns false.
	Enqueue(env Envelope) bool

	// Kick asks the session to close its transport with the given reason,
	// used when a newer connection replaces it.
	Kick(reason string)

	// CloseSend releases the session's outbound queue. Called exactly once by
	// the hub after the session leaves the registry.
	CloseSend()
}

// Registry maps user identifiers to their single live session.
// Mutated only by the hub's run loop; read concurrently by the router.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Session),
	}
}

// Register inserts or replaces the entry for the session's user identifier.
// Last writer wins: the previously registered session, if any, is returned so
// the caller can kick it. Register never fails.
func (r *Registry) Register(s Session) (replaced Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID := s.User().ID
	replaced = r.sessions[userID]
	r.sessions[userID] = s

	return replaced
}

// Unregister removes the session's entry if it is still the live one.
// A stale unregister (the entry was already replaced or removed) is a no-op,
// which makes disconnect idempotent and tolerant of replacement races.
// It reports whether an entry was actually removed.
func (r *Registry) Unregister(s Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID := s.User().ID
	if current, ok := r.sessions[userID]; ok && current == s {
		delete(r.sessions, userID)
		return true
	}

	return false
}

// Lookup returns the live session for userID, if any.
func (r *Registry) Lookup(userID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	return s, ok
}

// Snapshot returns the currently registered sessions.
func (r *Registry) Snapshot() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}

	return sessions
}

// OnlineIDs returns the user identifiers with a live session.
func (r *Registry) OnlineIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}

	return ids
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
