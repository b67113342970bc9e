// Package server exposes a session over HTTP and pushes scenes over WebSocket.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"pig-logistics/internal/observability"
	"pig-logistics/internal/scene"
	"pig-logistics/internal/session"
)

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	Logger          *log.Logger
}

// Server wires the session, router and websocket hub.
type Server struct {
	session         *session.Session
	hub             *Hub
	logger          *log.Logger
	router          chi.Router
	shutdownTimeout time.Duration
	unsubscribe     func()
}

// New creates a server for sess. Scenes are pushed to websocket clients on
// every recompute once the session is ready.
func New(sess *session.Session, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	s := &Server{
		session:         sess,
		hub:             NewHub(origins, logger),
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
	s.unsubscribe = sess.Subscribe(func(trigger string, sc scene.Scene) {
		if sess.Ready() {
			s.hub.BroadcastScene(trigger, sc)
		}
	})

	r := chi.NewRouter()
	r.Use(loggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", observability.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", s.handleSession)
		r.Put("/session/day", s.handleSelectDay)
		r.Post("/session/ready", s.handleReady)
		r.Get("/legend", s.handleLegend)

		r.Route("/days/{day}", func(r chi.Router) {
			r.Get("/metrics", s.handleDayMetrics)
			r.Get("/scene", s.handleDayScene)
			r.Get("/geojson", s.handleDayGeoJSON)
		})
	})

	r.Get("/ws", s.handleWS)

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting HTTP server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Println("HTTP server stopped")
	return nil
}

// Close detaches from the session and disconnects websocket clients.
func (s *Server) Close() {
	s.unsubscribe()
	s.hub.Close()
}
