package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"snapland/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_RecordPublishesEvent(t *testing.T) {
	queue := newFakeQueue()
	svc := NewAuditService(testLogger(), queue, "audit")
	userID := uuid.New()

	svc.Record(context.Background(), userID, "area.create", "meta")

	require.Len(t, queue.published["audit"], 1)
	var event domain.AuditEvent
	require.NoError(t, json.Unmarshal(queue.published["audit"][0], &event))
	assert.Equal(t, userID.String(), event.UserID)
	assert.Equal(t, "area.create", event.Action)
	assert.Equal(t, "meta", event.Metadata)
	_, err := time.Parse(time.RFC3339Nano, event.OccurredAt)
	assert.NoError(t, err)
}

func TestAuditService_PublishFailureIsSwallowed(t *testing.T) {
	queue := newFakeQueue()
	queue.publishErr = assert.AnError
	svc := NewAuditService(testLogger(), queue, "audit")

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), uuid.New(), "realtime.connect", "")
	})
}
