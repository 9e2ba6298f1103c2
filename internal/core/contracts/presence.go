package contracts

import (
	"context"

	"snapland/internal/core/domain"

	"github.com/google/uuid"
)

// PresenceCache is the in-memory projection of who is online. It is a lagging
// view of the user store, not a source of truth for user existence.
type PresenceCache interface {
	// LoadAll atomically replaces the cached set from the user store.
	LoadAll(ctx context.Context) error
	// SetActive is idempotent; an unknown user id is a no-op.
	SetActive(userID uuid.UUID, active bool)
	// SnapshotActive copies out all active entries, optionally excluding one
	// user (pass uuid.Nil for no exclusion). The lock is held only for the
	// copy, never across I/O.
	SnapshotActive(excludeUserID uuid.UUID) []domain.UserPresence
	// SnapshotAll copies out the full roster including inactive entries.
	// Used as the users_status payload.
	SnapshotAll() []domain.UserPresence
}
