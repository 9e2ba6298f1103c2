package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	id     uuid.UUID
	userID uuid.UUID
	mu     sync.Mutex
	alive  bool
	sent   [][]byte
}

func newMockConn(userID uuid.UUID) *mockConn {
	return &mockConn{id: uuid.New(), userID: userID, alive: true}
}

func (m *mockConn) ID() uuid.UUID     { return m.id }
func (m *mockConn) UserID() uuid.UUID { return m.userID }

func (m *mockConn) IsAlive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alive
}

func (m *mockConn) Send(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, data)
	return nil
}

func (m *mockConn) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alive = false
}

func TestRegistry_AddAndFind(t *testing.T) {
	r := NewRegistry()
	userA := uuid.New()
	userB := uuid.New()

	a1 := newMockConn(userA)
	a2 := newMockConn(userA)
	b1 := newMockConn(userB)
	r.Add(a1)
	r.Add(a2)
	r.Add(b1)

	assert.Equal(t, 3, r.Len())
	assert.Len(t, r.FindLiveByUser(userA), 2)
	assert.Len(t, r.FindLiveByUser(userB), 1)
	assert.Empty(t, r.FindLiveByUser(uuid.New()))
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	c := newMockConn(uuid.New())
	r.Add(c)

	r.Remove(c.ID())
	r.Remove(c.ID())
	r.Remove(uuid.New())

	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.FindLiveByUser(c.UserID()))
}

func TestRegistry_SkipsDeadConnections(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()
	open := newMockConn(userID)
	closed := newMockConn(userID)
	r.Add(open)
	r.Add(closed)

	// Transport closed asynchronously, registry entry not yet removed.
	closed.Close()

	live := r.FindLiveByUser(userID)
	require.Len(t, live, 1)
	assert.Equal(t, open.ID(), live[0].ID())
	assert.Equal(t, 1, r.CountLiveByUser(userID))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newMockConn(userID)
			r.Add(c)
			r.FindLiveByUser(userID)
			r.Remove(c.ID())
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.CountLiveByUser(userID))
}
