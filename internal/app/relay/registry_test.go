package relay

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"linguachat/internal/app/user"
)

// fakeSession is a Session stand-in that records everything the hub does to it.
type fakeSession struct {
	usr user.User

	mu     sync.Mutex
	events []Envelope
	kicks  []string
	closed bool
}

func newFakeSession(id string) *fakeSession {
	return &fakeSession{
		usr: user.User{
			ID:                id,
			Name:              "User " + id,
			Email:             id + "@example.com",
			PreferredLanguage: "en",
		},
	}
}

func (f *fakeSession) User() user.User { return f.usr }

func (f *fakeSession) Enqueue(env Envelope) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}

	f.events = append(f.events, env)
	return true
}

func (f *fakeSession) Kick(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.kicks = append(f.kicks, reason)
}

func (f *fakeSession) CloseSend() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
}

func (f *fakeSession) eventsOfType(t EventType) []Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]Envelope, 0)
	for _, env := range f.events {
		if env.Type == t {
			matched = append(matched, env)
		}
	}

	return matched
}

func (f *fakeSession) kickCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.kicks)
}

func (f *fakeSession) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	session := newFakeSession("alice")

	replaced := registry.Register(session)
	req.Nil(replaced)
	req.Equal(1, registry.Len())

	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(session, found.(*fakeSession))

	_, ok = registry.Lookup("bob")
	req.False(ok)
}

func TestRegistry_RegisterReplacesExistingEntry(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	first := newFakeSession("alice")
	second := newFakeSession("alice")

	req.Nil(registry.Register(first))

	replaced := registry.Register(second)
	req.Same(first, replaced.(*fakeSession))

	// One entry per user identifier, last writer wins.
	req.Equal(1, registry.Len())
	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(second, found.(*fakeSession))
}

func TestRegistry_UnregisterIsIdempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	session := newFakeSession("alice")

	registry.Register(session)

	req.True(registry.Unregister(session))
	req.False(registry.Unregister(session))
	req.Equal(0, registry.Len())
}

func TestRegistry_UnregisterIgnoresStaleSession(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	old := newFakeSession("alice")
	current := newFakeSession("alice")

	registry.Register(old)
	registry.Register(current)

	// The old connection disconnecting must not evict the replacement.
	req.False(registry.Unregister(old))

	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(current, found.(*fakeSession))
}

func TestRegistry_OnlineIDs(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Register(newFakeSession("alice"))
	registry.Register(newFakeSession("bob"))

	ids := registry.OnlineIDs()
	req.Len(ids, 2)
	req.ElementsMatch([]string{"alice", "bob"}, ids)
}
