package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository handles the persistent identity store. The presence cache
// treats it as the source of truth for user existence.
type UserRepository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	// ListStatuses bulk-reads every user's presence projection. Consumed by
	// the presence cache at startup.
	ListStatuses(ctx context.Context) ([]UserPresence, error)
	// SetActive persists the is_active flag. Best-effort from the realtime
	// path; the in-memory cache remains authoritative for broadcasts.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// AreaRepository is the geometry-capable polygon store keyed by owner.
type AreaRepository interface {
	CreateArea(ctx context.Context, a *Area) error
	GetAreaByID(ctx context.Context, id uuid.UUID) (*Area, error)
	ListAreasInBounds(ctx context.Context, b BoundingBox) ([]Area, error)
	CreateVersion(ctx context.Context, v *AreaVersion) error
	NextVersionNumber(ctx context.Context, areaID uuid.UUID) (int, error)
	ListVersions(ctx context.Context, areaID uuid.UUID) ([]AreaVersion, error)
}

// AuditRepository persists drained audit events.
type AuditRepository interface {
	InsertEntry(ctx context.Context, e *AuditEntry) error
}
