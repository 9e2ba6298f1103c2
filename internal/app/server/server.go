package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"snapland/internal/app/server/handlers"
	"snapland/internal/config"
	"snapland/internal/core/contracts"
	"snapland/internal/core/services"
	"snapland/pkg/middleware"

	"github.com/redis/go-redis/v9"
)

type Server struct {
	log      *slog.Logger
	mux      *http.ServeMux
	cfg      *config.Config
	tokenSvc *services.TokenService

	authHandler     *handlers.AuthHandler
	usersHandler    *handlers.UsersHandler
	areasHandler    *handlers.AreasHandler
	healthHandler   *handlers.HealthHandler
	realtimeHandler *handlers.RealtimeHandler
}

func NewServer(
	log *slog.Logger,
	cfg *config.Config,
	userSvc *services.UserService,
	tokenSvc *services.TokenService,
	areaSvc *services.AreaService,
	realtimeSvc *services.RealtimeService,
	presence contracts.PresenceCache,
	db *sql.DB,
	rdb *redis.Client,
) *Server {
	s := &Server{
		log:             log,
		mux:             http.NewServeMux(),
		cfg:             cfg,
		tokenSvc:        tokenSvc,
		authHandler:     handlers.NewAuthHandler(userSvc),
		usersHandler:    handlers.NewUsersHandler(presence),
		areasHandler:    handlers.NewAreasHandler(areaSvc),
		healthHandler:   handlers.NewHealthHandler(db, rdb),
		realtimeHandler: handlers.NewRealtimeHandler(realtimeSvc, tokenSvc, cfg.Realtime),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	auth := middleware.AuthMiddleware(s.tokenSvc)

	// Public routes
	s.mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	s.mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	s.mux.HandleFunc("GET /api/health", s.healthHandler.Health)

	// The websocket endpoint authenticates itself via the token query
	// parameter, so it bypasses the header-based middleware.
	s.mux.HandleFunc("GET /ws", s.realtimeHandler.Handler)

	// Protected routes
	s.mux.Handle("GET /api/users/status", auth(http.HandlerFunc(s.usersHandler.Status)))
	s.mux.Handle("POST /api/areas", auth(http.HandlerFunc(s.areasHandler.Create)))
	s.mux.Handle("GET /api/areas", auth(http.HandlerFunc(s.areasHandler.List)))
	s.mux.Handle("POST /api/areas/{areaID}/versions", auth(http.HandlerFunc(s.areasHandler.CreateVersion)))
	s.mux.Handle("GET /api/areas/{areaID}/versions", auth(http.HandlerFunc(s.areasHandler.ListVersions)))
}

// Handler returns the mux wrapped with the request-scoped middleware chain.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = middleware.TracerMiddleware(s.cfg.Service.Name)(h)
	h = middleware.RequestLogger(s.log)(h)
	return h
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.cfg.Service.Addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: it would kill long-lived websocket sessions.
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server - start - listening", "addr", s.cfg.Service.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("server - start - shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
