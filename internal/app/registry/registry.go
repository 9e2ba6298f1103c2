package registry

import (
	"sync"

	"snapland/internal/core/contracts"

	"github.com/google/uuid"
)

// Registry tracks live connections keyed by connection id, with a secondary
// index by user id so broadcasts can resolve all of a user's open tabs and
// devices. A single mutex guards both maps; it is held only for map
// operations, never across network I/O.
type Registry struct {
	mu     sync.RWMutex
	conns  map[uuid.UUID]contracts.Conn
	byUser map[uuid.UUID]map[uuid.UUID]contracts.Conn
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[uuid.UUID]contracts.Conn),
		byUser: make(map[uuid.UUID]map[uuid.UUID]contracts.Conn),
	}
}

func (r *Registry) Add(c contracts.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID()] = c
	userConns := r.byUser[c.UserID()]
	if userConns == nil {
		userConns = make(map[uuid.UUID]contracts.Conn)
		r.byUser[c.UserID()] = userConns
	}
	userConns[c.ID()] = c
}

// Remove is idempotent; removing twice or removing an unknown id is a no-op.
func (r *Registry) Remove(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[connID]
	if !ok {
		return
	}
	delete(r.conns, connID)
	if userConns := r.byUser[c.UserID()]; userConns != nil {
		delete(userConns, connID)
		if len(userConns) == 0 {
			delete(r.byUser, c.UserID())
		}
	}
}

// FindLiveByUser returns the user's connections whose transport is still
// open. Stale entries whose transport closed asynchronously are skipped;
// cleanup removes them shortly after.
func (r *Registry) FindLiveByUser(userID uuid.UUID) []contracts.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var live []contracts.Conn
	for _, c := range r.byUser[userID] {
		if c.IsAlive() {
			live = append(live, c)
		}
	}
	return live
}

// CountLiveByUser reports how many open connections a user still has. Used
// at disconnect to decide whether this was the user's last connection.
func (r *Registry) CountLiveByUser(userID uuid.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, c := range r.byUser[userID] {
		if c.IsAlive() {
			n++
		}
	}
	return n
}

// Len reports the number of registered connections, live or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
