package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"snapland/internal/core/contracts"
	"snapland/internal/core/domain"
	"snapland/pkg/logging"

	"github.com/google/uuid"
)

// AuditWorker drains the audit stream into postgres. It runs on its own
// goroutine for the life of the process; the realtime hub never waits on it.
type AuditWorker struct {
	log   *slog.Logger
	queue contracts.EventQueue
	repo  domain.AuditRepository
	topic string
	group string
}

func NewAuditWorker(
	log *slog.Logger,
	queue contracts.EventQueue,
	repo domain.AuditRepository,
	topic, group string,
) *AuditWorker {
	return &AuditWorker{
		log:   log,
		queue: queue,
		repo:  repo,
		topic: topic,
		group: group,
	}
}

func (w *AuditWorker) Run(ctx context.Context) error {
	w.log.InfoContext(ctx, "worker - run - audit consumer starting", "topic", w.topic, "group", w.group)
	return w.queue.SubscribeToStream(ctx, w.topic, w.group, w.ProcessEntry)
}

func (w *AuditWorker) ProcessEntry(ctx context.Context, msgID string, raw []byte) error {
	var event domain.AuditEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		w.log.Warn("worker - process entry - malformed event", "message_id", msgID, logging.Err(err))
		// Poison entries are acknowledged so they do not wedge the group.
		_ = w.queue.AcknowledgeMessage(ctx, w.topic, w.group, msgID)
		return nil
	}

	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		_ = w.queue.AcknowledgeMessage(ctx, w.topic, w.group, msgID)
		return nil
	}
	occurredAt, err := time.Parse(time.RFC3339Nano, event.OccurredAt)
	if err != nil {
		occurredAt = time.Now().UTC()
	}

	entry := &domain.AuditEntry{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     event.Action,
		Metadata:   event.Metadata,
		OccurredAt: occurredAt,
	}
	if err := w.repo.InsertEntry(ctx, entry); err != nil {
		w.log.ErrorContext(ctx, "worker - process entry - insert failed", "message_id", msgID, logging.Err(err))
		return err
	}
	if err := w.queue.AcknowledgeMessage(ctx, w.topic, w.group, msgID); err != nil {
		w.log.WarnContext(ctx, "worker - process entry - ack failed", "message_id", msgID, logging.Err(err))
		return err
	}
	if err := w.queue.DeleteMessage(ctx, w.topic, msgID); err != nil {
		// Already processed and acked; stream trimming catches leftovers.
		w.log.WarnContext(ctx, "worker - process entry - delete failed", "message_id", msgID, logging.Err(err))
	}
	return nil
}
