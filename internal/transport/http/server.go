package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"undercover/internal/app"
	"undercover/internal/config"
	"undercover/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	manager *app.Manager
	feed    *app.Feed
	checks  map[string]Checker
	config  *config.Config
	logger  *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, manager *app.Manager, feed *app.Feed, checks map[string]Checker, logger *slog.Logger) *Server {
	s := &Server{
		manager: manager,
		feed:    feed,
		checks:  checks,
		config:  cfg,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	s.setupRoutes(r)
	s.router = r

	s.server = &http.Server{
		Addr:              cfg.GetAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)

		r.Post("/lobbies", s.handleCreateLobby)
		r.Route("/lobbies/{code}", func(r chi.Router) {
			r.Get("/", s.handleGetLobby)
			r.Get("/qr.png", s.handleInviteQR)
			r.Post("/join", s.handleJoinLobby)
			r.Post("/me", s.handlePlayerState)
			r.Post("/heartbeat", s.handleHeartbeat)
			r.Post("/kick", s.handleKick)
			r.Post("/settings", s.handleUpdateSettings)
			r.Post("/start", s.handleStartGame)
			r.Post("/eliminate", s.handleEliminate)
			r.Post("/guess", s.handleGuess)
			r.Post("/reset", s.handleReset)
		})
	})

	r.Method(http.MethodGet, "/ws", ws.NewHandler(s.manager, s.feed, s.logger))
}

// ServeHTTP lets tests drive the router without a listener
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens and serves until Shutdown is called
func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}

	s.logger.Info("server starting", "addr", s.server.Addr)

	err = s.server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// requestLogger logs one line per request. Health probes are only logged in development.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			if !s.config.IsDevelopment() && r.URL.Path == "/api/health" {
				return
			}
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// cors allows browser clients on any origin
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
