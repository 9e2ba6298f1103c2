package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"snapland/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceCache_LoadAllReplacesSet(t *testing.T) {
	alice := domain.UserPresence{ID: uuid.New(), DisplayName: "alice", IsActive: true}
	bob := domain.UserPresence{ID: uuid.New(), DisplayName: "bob"}
	repo := newFakeUserRepo(alice, bob)
	cache := NewPresenceCache(testLogger(), repo)

	require.NoError(t, cache.LoadAll(context.Background()))
	assert.Equal(t, []domain.UserPresence{alice, bob}, cache.SnapshotAll())

	// A second load drops users the store no longer reports.
	repo.mu.Lock()
	repo.statuses = []domain.UserPresence{bob}
	repo.mu.Unlock()
	require.NoError(t, cache.LoadAll(context.Background()))
	assert.Equal(t, []domain.UserPresence{bob}, cache.SnapshotAll())
}

func TestPresenceCache_LoadAllError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.listErr = errors.New("store down")
	cache := NewPresenceCache(testLogger(), repo)

	assert.Error(t, cache.LoadAll(context.Background()))
	assert.Empty(t, cache.SnapshotAll())
}

func TestPresenceCache_SetActive(t *testing.T) {
	alice := domain.UserPresence{ID: uuid.New(), DisplayName: "alice"}
	cache := NewPresenceCache(testLogger(), newFakeUserRepo(alice))
	require.NoError(t, cache.LoadAll(context.Background()))

	cache.SetActive(alice.ID, true)
	cache.SetActive(alice.ID, true) // idempotent
	got := cache.SnapshotAll()
	require.Len(t, got, 1)
	assert.True(t, got[0].IsActive)

	cache.SetActive(alice.ID, false)
	got = cache.SnapshotAll()
	require.Len(t, got, 1)
	assert.False(t, got[0].IsActive)
}

func TestPresenceCache_SetActiveUnknownUserIsNoOp(t *testing.T) {
	alice := domain.UserPresence{ID: uuid.New(), DisplayName: "alice"}
	cache := NewPresenceCache(testLogger(), newFakeUserRepo(alice))
	require.NoError(t, cache.LoadAll(context.Background()))

	cache.SetActive(uuid.New(), true)
	assert.Len(t, cache.SnapshotAll(), 1)
}

func TestPresenceCache_SnapshotActiveFiltersAndExcludes(t *testing.T) {
	alice := domain.UserPresence{ID: uuid.New(), DisplayName: "alice", IsActive: true}
	bob := domain.UserPresence{ID: uuid.New(), DisplayName: "bob", IsActive: true}
	carol := domain.UserPresence{ID: uuid.New(), DisplayName: "carol"}
	cache := NewPresenceCache(testLogger(), newFakeUserRepo(alice, bob, carol))
	require.NoError(t, cache.LoadAll(context.Background()))

	assert.Equal(t, []domain.UserPresence{alice, bob}, cache.SnapshotActive(uuid.Nil))
	assert.Equal(t, []domain.UserPresence{bob}, cache.SnapshotActive(alice.ID))
}

func TestPresenceCache_SnapshotsAreCopies(t *testing.T) {
	alice := domain.UserPresence{ID: uuid.New(), DisplayName: "alice", IsActive: true}
	cache := NewPresenceCache(testLogger(), newFakeUserRepo(alice))
	require.NoError(t, cache.LoadAll(context.Background()))

	snap := cache.SnapshotAll()
	snap[0].IsActive = false
	snap[0].DisplayName = "mallory"

	fresh := cache.SnapshotAll()
	require.Len(t, fresh, 1)
	assert.True(t, fresh[0].IsActive)
	assert.Equal(t, "alice", fresh[0].DisplayName)
}

func TestPresenceCache_ConcurrentAccess(t *testing.T) {
	users := make([]domain.UserPresence, 8)
	for i := range users {
		users[i] = domain.UserPresence{ID: uuid.New(), DisplayName: "user"}
	}
	cache := NewPresenceCache(testLogger(), newFakeUserRepo(users...))
	require.NoError(t, cache.LoadAll(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.SetActive(users[i%len(users)].ID, j%2 == 0)
				_ = cache.SnapshotActive(uuid.Nil)
				_ = cache.SnapshotAll()
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, cache.SnapshotAll(), len(users))
}
