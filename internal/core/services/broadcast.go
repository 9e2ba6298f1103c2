package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"snapland/internal/core/contracts"
	"snapland/internal/core/domain"
	"snapland/pkg/logging"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// BroadcastDispatcher resolves an audience from the presence cache, resolves
// each user's live connections from the registry, and fans the serialized
// message out concurrently. One slow or dead recipient never delays the
// others.
type BroadcastDispatcher struct {
	log         *slog.Logger
	presence    contracts.PresenceCache
	registry    contracts.Registry
	sendTimeout time.Duration
}

func NewBroadcastDispatcher(
	log *slog.Logger,
	presence contracts.PresenceCache,
	registry contracts.Registry,
	sendTimeout time.Duration,
) *BroadcastDispatcher {
	return &BroadcastDispatcher{
		log:         log,
		presence:    presence,
		registry:    registry,
		sendTimeout: sendTimeout,
	}
}

func (b *BroadcastDispatcher) Broadcast(ctx context.Context, msgType string, payload any, excludeUserID uuid.UUID) {
	ctx, span := tracer.Start(ctx, "BroadcastDispatcher.Broadcast", trace.WithAttributes(
		attribute.String("message.type", msgType),
	))
	defer span.End()

	audience := b.presence.SnapshotActive(excludeUserID)
	if len(audience) == 0 {
		return
	}

	// users_status always carries the current full roster, not the
	// triggering event's payload, so every presence broadcast is an
	// idempotent full-state refresh.
	if msgType == domain.TypeUsersStatus {
		payload = b.presence.SnapshotAll()
	}

	data, err := json.Marshal(domain.OutboundMessage{Type: msgType, Value: payload})
	if err != nil {
		span.RecordError(err)
		b.log.ErrorContext(ctx, "broadcast - dispatch - marshal failed", logging.MsgType(msgType), logging.Err(err))
		return
	}
	span.SetAttributes(attribute.Int("audience.size", len(audience)))

	var wg sync.WaitGroup
	for _, user := range audience {
		conns := b.registry.FindLiveByUser(user.ID)
		if len(conns) == 0 {
			// Presence and connection state may briefly disagree; tolerated.
			continue
		}
		for _, c := range conns {
			wg.Add(1)
			go func(c contracts.Conn) {
				defer wg.Done()
				sendCtx, cancel := context.WithTimeout(ctx, b.sendTimeout)
				defer cancel()
				if err := c.Send(sendCtx, data); err != nil {
					b.log.WarnContext(ctx, "broadcast - dispatch - send failed",
						logging.MsgType(msgType), logging.Connection(c.ID().String()), logging.User(c.UserID().String()), logging.Err(err))
				}
			}(c)
		}
	}
	wg.Wait()
}
