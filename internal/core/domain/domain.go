package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/peterstace/simplefeatures/geom"
)

// User is the persistent identity behind every realtime connection.
type User struct {
	ID           uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

func NewUser(email, displayName, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// UserPresence is the snapshot form handed out by the presence cache.
// Callers always receive copies, never the cache's own records.
type UserPresence struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	IsActive    bool      `json:"isActive"`
}

// Area is a named polygon drawn on the map, SRID 4326 lng/lat.
type Area struct {
	ID              uuid.UUID
	Name            string
	Polygon         geom.Polygon
	AreaKm2         float64
	CreatedByUserID uuid.UUID
	CreatedAt       time.Time
	IsDeleted       bool
}

// AreaVersion records one edit of an area's name or geometry.
type AreaVersion struct {
	ID             uuid.UUID
	AreaID         uuid.UUID
	VersionNumber  int
	Name           string
	Polygon        geom.Polygon
	EditedByUserID uuid.UUID
	CreatedAt      time.Time
}

// BoundingBox is a lng/lat viewport used when listing areas.
type BoundingBox struct {
	MinLng float64
	MinLat float64
	MaxLng float64
	MaxLat float64
}

// AuditEntry is one row of the user-action audit trail.
type AuditEntry struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Action     string
	Metadata   string
	OccurredAt time.Time
}
