package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"snapland/internal/core/contracts"
	"snapland/internal/core/domain"
	"snapland/pkg/logging"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("snapland-core")

// RealtimeService drives a connection through its lifecycle: register on
// connect, dispatch inbound messages while streaming, unregister and
// re-broadcast presence on disconnect. One connection's failure never
// disturbs the rest of the hub.
type RealtimeService struct {
	log       *slog.Logger
	registry  contracts.Registry
	presence  contracts.PresenceCache
	broadcast contracts.Broadcaster
	users     domain.UserRepository
	audit     contracts.AuditTrail
}

func NewRealtimeService(
	log *slog.Logger,
	registry contracts.Registry,
	presence contracts.PresenceCache,
	broadcast contracts.Broadcaster,
	users domain.UserRepository,
	audit contracts.AuditTrail,
) *RealtimeService {
	return &RealtimeService{
		log:       log,
		registry:  registry,
		presence:  presence,
		broadcast: broadcast,
		users:     users,
		audit:     audit,
	}
}

// HandleConnect registers the connection, marks the user active and pushes a
// full presence refresh to everyone.
func (s *RealtimeService) HandleConnect(ctx context.Context, c contracts.Conn) {
	ctx, span := tracer.Start(ctx, "RealtimeService.HandleConnect", trace.WithAttributes(
		attribute.String("user.id", c.UserID().String()),
		attribute.String("connection.id", c.ID().String()),
	))
	defer span.End()

	s.registry.Add(c)
	s.presence.SetActive(c.UserID(), true)
	// The cache stays authoritative for broadcasts; the store flag is only a
	// cold-start seed, so a write failure is logged and tolerated.
	if err := s.users.SetActive(ctx, c.UserID(), true); err != nil {
		s.log.WarnContext(ctx, "realtime - handle connect - persist active flag failed",
			logging.User(c.UserID().String()), logging.Err(err))
	}
	s.broadcast.Broadcast(ctx, domain.TypeUsersStatus, nil, uuid.Nil)
	s.audit.Record(ctx, c.UserID(), "realtime.connect", c.ID().String())
	s.log.InfoContext(ctx, "realtime - handle connect - connection registered",
		logging.User(c.UserID().String()), logging.Connection(c.ID().String()))
}

// HandleMessage parses one inbound envelope and dispatches by type. Unknown
// types and malformed payloads are logged and ignored; the connection stays
// open either way.
func (s *RealtimeService) HandleMessage(ctx context.Context, c contracts.Conn, raw []byte) {
	var in domain.InboundMessage
	if err := json.Unmarshal(raw, &in); err != nil {
		s.log.WarnContext(ctx, "realtime - handle message - malformed frame",
			logging.User(c.UserID().String()), logging.Err(err))
		return
	}

	switch in.Type {
	case domain.TypeDrawStart, domain.TypeDrawMove, domain.TypeDrawEnd, domain.TypeDrawingUpdate:
		// Drawing events pass through verbatim to everyone but the sender's
		// own connections. Never persisted.
		s.broadcast.Broadcast(ctx, in.Type, in.Payload, c.UserID())
		if in.Type == domain.TypeDrawEnd || in.Type == domain.TypeDrawingUpdate {
			s.audit.Record(ctx, c.UserID(), "realtime.draw", in.Type)
		}

	case domain.TypeUserActive:
		s.setActive(ctx, c, true)

	case domain.TypeUserInactive:
		s.setActive(ctx, c, false)

	default:
		s.log.WarnContext(ctx, "realtime - handle message - unknown type",
			logging.MsgType(in.Type), logging.User(c.UserID().String()))
	}
}

// HandleDisconnect removes the connection and marks the user inactive only
// when no other live connection remains (a second tab keeps the user
// active). Always ends with a full presence refresh so stale "active"
// entries self-heal on every client.
func (s *RealtimeService) HandleDisconnect(ctx context.Context, c contracts.Conn) {
	ctx, span := tracer.Start(ctx, "RealtimeService.HandleDisconnect", trace.WithAttributes(
		attribute.String("user.id", c.UserID().String()),
		attribute.String("connection.id", c.ID().String()),
	))
	defer span.End()

	s.registry.Remove(c.ID())
	if s.registry.CountLiveByUser(c.UserID()) == 0 {
		s.presence.SetActive(c.UserID(), false)
		if err := s.users.SetActive(ctx, c.UserID(), false); err != nil {
			s.log.WarnContext(ctx, "realtime - handle disconnect - persist inactive flag failed",
				logging.User(c.UserID().String()), logging.Err(err))
		}
	}
	s.broadcast.Broadcast(ctx, domain.TypeUsersStatus, nil, uuid.Nil)
	s.audit.Record(ctx, c.UserID(), "realtime.disconnect", c.ID().String())
	s.log.InfoContext(ctx, "realtime - handle disconnect - connection removed",
		logging.User(c.UserID().String()), logging.Connection(c.ID().String()))
}

func (s *RealtimeService) setActive(ctx context.Context, c contracts.Conn, active bool) {
	s.presence.SetActive(c.UserID(), active)
	if err := s.users.SetActive(ctx, c.UserID(), active); err != nil {
		s.log.WarnContext(ctx, "realtime - set active - persist flag failed",
			logging.User(c.UserID().String()), logging.Err(err))
	}
	s.broadcast.Broadcast(ctx, domain.TypeUsersStatus, nil, uuid.Nil)
}
