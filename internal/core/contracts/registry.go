package contracts

import (
	"context"

	"github.com/google/uuid"
)

// Conn is the minimal interface the registry and dispatcher need to talk to
// an individual realtime connection.
type Conn interface {
	ID() uuid.UUID
	UserID() uuid.UUID
	// IsAlive reports whether the transport is still open. A connection whose
	// transport closed asynchronously is treated as absent by callers even if
	// it has not been removed from the registry yet.
	IsAlive() bool
	Send(ctx context.Context, data []byte) error
	Close()
}

// Registry tracks live transport connections, keyed by connection id and by
// user id. Several connections may share a user id (multiple tabs/devices).
type Registry interface {
	Add(c Conn)
	// Remove is idempotent; removing an unknown id is not an error.
	Remove(connID uuid.UUID)
	// FindLiveByUser returns the user's currently-open connections, skipping
	// entries whose transport already closed.
	FindLiveByUser(userID uuid.UUID) []Conn
	// CountLiveByUser is the last-connection-wins check used at disconnect.
	CountLiveByUser(userID uuid.UUID) int
}
