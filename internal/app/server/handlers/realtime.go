package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"snapland/internal/app/server/ws"
	"snapland/internal/config"
	"snapland/internal/core/services"
	"snapland/pkg/middleware"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RealtimeHandler authenticates and upgrades /ws requests, then owns the
// connection for its whole lifetime: register, read, unregister. Browsers
// cannot set headers on a websocket handshake, so the token travels as a
// query parameter instead of going through the auth middleware.
type RealtimeHandler struct {
	realtime *services.RealtimeService
	tokens   *services.TokenService
	cfg      *config.RealtimeConfig
}

func NewRealtimeHandler(realtime *services.RealtimeService, tokens *services.TokenService, cfg *config.RealtimeConfig) *RealtimeHandler {
	return &RealtimeHandler{
		realtime: realtime,
		tokens:   tokens,
		cfg:      cfg,
	}
}

func (h *RealtimeHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log, _ := r.Context().Value(middleware.LoggerKey).(*slog.Logger)
	if log == nil {
		log = slog.Default()
	}
	span := trace.SpanFromContext(r.Context())

	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "Expected a WebSocket request", http.StatusBadRequest)
		return
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Unauthorized: token missing", http.StatusUnauthorized)
		return
	}
	userID, err := h.tokens.ValidateToken(token)
	if err != nil {
		log.WarnContext(r.Context(), "realtime handler - token rejected", "err", err)
		http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.String("user.id", userID.String()))

	// The session must outlive the HTTP request context once the socket is
	// hijacked.
	sessionCtx := context.WithoutCancel(r.Context())
	ctx, cancel := context.WithCancel(sessionCtx)
	defer cancel()

	// CheckOrigin left nil means gorilla's same-origin default; a configured
	// whitelist overrides it.
	upgrader := websocket.Upgrader{
		ReadBufferSize:  h.cfg.WriteBuffer,
		WriteBufferSize: h.cfg.WriteBuffer,
	}
	if len(h.cfg.AllowedOrigins) > 0 {
		upgrader.CheckOrigin = h.checkOrigin
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorContext(r.Context(), "realtime handler - upgrade failed", "err", err)
		return
	}

	socket := ws.NewWebSocket(ctx, conn, h.cfg.SendTimeout, h.cfg.ReadLimit)
	client := ws.NewClient(ctx, socket, userID, h.cfg.OutQueueSize)

	h.realtime.HandleConnect(ctx, client)
	defer h.realtime.HandleDisconnect(sessionCtx, client)
	defer client.Close()

	log.InfoContext(r.Context(), "realtime handler - connection established",
		"user_id", userID.String(), "connection_id", client.ID().String())

	socket.ReadLoop(func(data []byte) {
		h.realtime.HandleMessage(ctx, client, data)
	})
}

func (h *RealtimeHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin header.
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
