package services

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

// AuditService publishes user actions to the audit stream. Recording is
// best-effort: failures are logged, never returned, so the realtime path is
// never slowed down or failed by the trail.
type AuditService struct {
	log   *slog.Logger
	queue contracts.EventQueue
	topic string
}

func NewAuditService(log *slog.Logger, queue contracts.EventQueue, topic string) *AuditService {
	return &AuditService{
		log:   log,
		queue: queue,
		topic: topic,
	}
}

func (s *AuditService) Record(ctx context.Context, userID uuid.UUID, action, metadata string) {
	event := domain.AuditEvent{
		UserID:     userID.String(),
		Action:     action,
		Metadata:   metadata,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	raw, err := json.Marshal(event)
	if err != nil {
		s.log.ErrorContext(ctx, "audit - record - marshal failed", "action", action, logging.Err(err))
		return
	}
	if err := s.queue.PublishToStream(ctx, s.topic, raw); err != nil {
		s.log.WarnContext(ctx, "audit - record - publish failed",
			"action", action, logging.User(userID.String()), logging.Err(err))
	}
}
