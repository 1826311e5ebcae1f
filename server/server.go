// Package server exposes the session over a JSON API for the browser
// dashboard: deposit a paycheck, view a recommendation, execute it, and
// inspect holdings and history.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/paycheckai/paycheck"
)

// actionTimeout bounds one fetch or generate call; a hung feed or model is
// reported as a failure, never as a hang.
const actionTimeout = 30 * time.Second

// Config holds the server dependencies.
type Config struct {
	Port        int
	Log         zerolog.Logger
	Session     *paycheck.Config
	Portfolio   *paycheck.Portfolio
	Provider    paycheck.MarketDataProvider
	Recommender *paycheck.Recommender
}

// Server drives one in-memory session over HTTP. A mutex serializes the
// dashboard actions: each fetch-generate-apply sequence runs to completion
// before the next is accepted.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	mu          sync.Mutex
	cfg         *paycheck.Config
	portfolio   *paycheck.Portfolio
	provider    paycheck.MarketDataProvider
	recommender *paycheck.Recommender

	// pending is the last generated recommendation, consumed by execute.
	pending     *paycheck.Recommendation
	pendingSnap paycheck.MarketSnapshot
}

// New creates the HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "server").Logger(),
		cfg:         cfg.Session,
		portfolio:   cfg.Portfolio,
		provider:    cfg.Provider,
		recommender: cfg.Recommender,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/holdings", s.handleHoldings)
		r.Get("/history", s.handleHistory)
		r.Get("/quotes", s.handleQuotes)
		r.Post("/deposit", s.handleDeposit)
		r.Post("/recommendation", s.handleRecommendation)
		r.Post("/execute", s.handleExecute)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// Start runs the server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }
