package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	events []MessageEvent
	closed bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, v.(MessageEvent))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) eventCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestRegisterReplacesExistingConnection(t *testing.T) {
	first := &fakeConn{}
	second := &fakeConn{}

	RegisterMessageConnection("user-a", first)
	RegisterMessageConnection("user-a", second)
	defer UnregisterMessageConnection("user-a", second)

	assert.True(t, first.isClosed(), "replaced connection is closed")
	assert.False(t, second.isClosed())
}

func TestUnregisterOnlyRemovesOwnConnection(t *testing.T) {
	first := &fakeConn{}
	second := &fakeConn{}

	RegisterMessageConnection("user-b", first)
	RegisterMessageConnection("user-b", second)

	// The stale connection's deferred unregister must not evict the new one.
	UnregisterMessageConnection("user-b", first)

	fanOutToUser("user-b", MessageEvent{Type: "message"})
	require.Eventually(t, func() bool {
		return second.eventCount() == 1
	}, time.Second, 10*time.Millisecond)

	UnregisterMessageConnection("user-b", second)
}

func TestFanOutToUnknownUserIsNoop(t *testing.T) {
	// Must not panic or block.
	fanOutToUser("nobody-connected", MessageEvent{Type: "message"})
}
