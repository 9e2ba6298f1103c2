package contracts

import (
	"context"

	"github.com/google/uuid"
)

// Broadcaster fans a message out to every active user's live connections.
type Broadcaster interface {
	// Broadcast serializes {type, value: payload} once and sends the same
	// bytes to each recipient concurrently. Per-connection send failures are
	// logged and isolated; they never surface to the caller. Pass uuid.Nil
	// as excludeUserID to address everyone.
	Broadcast(ctx context.Context, msgType string, payload any, excludeUserID uuid.UUID)
}
