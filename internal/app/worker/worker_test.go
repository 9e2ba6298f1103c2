package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"snapland/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	mu      sync.Mutex
	acked   []string
	deleted []string
}

func (q *fakeQueue) PublishToStream(context.Context, string, []byte) error { return nil }

func (q *fakeQueue) SubscribeToStream(ctx context.Context, _, _ string, _ func(context.Context, string, []byte) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func (q *fakeQueue) AcknowledgeMessage(_ context.Context, _, _, msgID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked = append(q.acked, msgID)
	return nil
}

func (q *fakeQueue) DeleteMessage(_ context.Context, _, msgID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, msgID)
	return nil
}

type fakeAuditRepo struct {
	mu        sync.Mutex
	entries   []*domain.AuditEntry
	insertErr error
}

func (r *fakeAuditRepo) InsertEntry(_ context.Context, e *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.entries = append(r.entries, e)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuditWorker_ProcessEntryPersistsAndAcks(t *testing.T) {
	queue := &fakeQueue{}
	repo := &fakeAuditRepo{}
	w := NewAuditWorker(testLogger(), queue, repo, "audit", "audit-workers")
	userID := uuid.New()

	raw, err := json.Marshal(domain.AuditEvent{
		UserID:     userID.String(),
		Action:     "realtime.connect",
		Metadata:   "conn-1",
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	require.NoError(t, err)

	require.NoError(t, w.ProcessEntry(context.Background(), "1-0", raw))

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, "realtime.connect", entry.Action)
	assert.Equal(t, "conn-1", entry.Metadata)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, []string{"1-0"}, queue.acked)
	assert.Equal(t, []string{"1-0"}, queue.deleted)
}

func TestAuditWorker_MalformedEventIsAckedNotPersisted(t *testing.T) {
	queue := &fakeQueue{}
	repo := &fakeAuditRepo{}
	w := NewAuditWorker(testLogger(), queue, repo, "audit", "audit-workers")

	require.NoError(t, w.ProcessEntry(context.Background(), "2-0", []byte("not json")))
	require.NoError(t, w.ProcessEntry(context.Background(), "3-0",
		[]byte(`{"user_id":"not-a-uuid","action":"x"}`)))

	assert.Empty(t, repo.entries)
	assert.Equal(t, []string{"2-0", "3-0"}, queue.acked)
	assert.Empty(t, queue.deleted)
}

func TestAuditWorker_InsertFailureLeavesEntryPending(t *testing.T) {
	queue := &fakeQueue{}
	repo := &fakeAuditRepo{insertErr: assert.AnError}
	w := NewAuditWorker(testLogger(), queue, repo, "audit", "audit-workers")

	raw, err := json.Marshal(domain.AuditEvent{
		UserID:     uuid.NewString(),
		Action:     "area.create",
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	require.NoError(t, err)

	assert.Error(t, w.ProcessEntry(context.Background(), "4-0", raw))
	assert.Empty(t, queue.acked)
	assert.Empty(t, queue.deleted)
}
