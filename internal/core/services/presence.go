package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"snapland/internal/core/domain"
	"snapland/pkg/logging"

	"github.com/google/uuid"
)

// PresenceCache is the one piece of explicitly shared mutable state in the
// system: a mutex-guarded projection of every user's online flag. All
// mutations are serialized behind the mutex; readers get copied snapshots,
// and the lock is never held across I/O.
type PresenceCache struct {
	log   *slog.Logger
	users domain.UserRepository

	mu   sync.RWMutex
	byID map[uuid.UUID]domain.UserPresence
}

func NewPresenceCache(log *slog.Logger, users domain.UserRepository) *PresenceCache {
	return &PresenceCache{
		log:   log,
		users: users,
		byID:  make(map[uuid.UUID]domain.UserPresence),
	}
}

// LoadAll replaces the entire cached set from the user store. The swap is
// atomic: consumers never observe a partially-replaced set.
func (p *PresenceCache) LoadAll(ctx context.Context) error {
	statuses, err := p.users.ListStatuses(ctx)
	if err != nil {
		p.log.ErrorContext(ctx, "presence - load all - list statuses failed", logging.Err(err))
		return err
	}
	fresh := make(map[uuid.UUID]domain.UserPresence, len(statuses))
	for _, s := range statuses {
		fresh[s.ID] = s
	}

	p.mu.Lock()
	p.byID = fresh
	p.mu.Unlock()

	p.log.InfoContext(ctx, "presence - load all - cache replaced", "users", len(fresh))
	return nil
}

// SetActive flips a user's flag. Idempotent; an unknown user id is a no-op
// because the cache is a projection of whatever the store last reported,
// never a source of truth for user existence.
func (p *PresenceCache) SetActive(userID uuid.UUID, active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.byID[userID]
	if !ok {
		return
	}
	u.IsActive = active
	p.byID[userID] = u
}

// SnapshotActive returns a point-in-time copy of all active entries, sorted
// by display name, optionally excluding one user.
func (p *PresenceCache) SnapshotActive(excludeUserID uuid.UUID) []domain.UserPresence {
	p.mu.RLock()
	out := make([]domain.UserPresence, 0, len(p.byID))
	for _, u := range p.byID {
		if u.IsActive && u.ID != excludeUserID {
			out = append(out, u)
		}
	}
	p.mu.RUnlock()

	sortPresence(out)
	return out
}

// SnapshotAll returns a copy of the full roster including inactive entries,
// sorted by display name. This is the users_status payload: a full-state
// refresh lets a client mark departed users inactive without a delta.
func (p *PresenceCache) SnapshotAll() []domain.UserPresence {
	p.mu.RLock()
	out := make([]domain.UserPresence, 0, len(p.byID))
	for _, u := range p.byID {
		out = append(out, u)
	}
	p.mu.RUnlock()

	sortPresence(out)
	return out
}

func sortPresence(list []domain.UserPresence) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].DisplayName != list[j].DisplayName {
			return list[i].DisplayName < list[j].DisplayName
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}
