// Package server wires the HTTP surface over the notes pipeline.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/brain-battle/notes-server/api/handlers"
	"github.com/brain-battle/notes-server/storage"
)

const shutdownGrace = 10 * time.Second

// Config holds server configuration
type Config struct {
	Address string
}

// Server represents the notes HTTP server
type Server struct {
	httpServer *http.Server
	logger     zerolog.Logger
}

// NewServer creates a new server instance. store may be nil to disable
// persistence.
func NewServer(cfg Config, generator handlers.NotesGenerator, store *storage.Storage, logger zerolog.Logger) *Server {
	notesHandler := handlers.NewNotesHandler(generator, store, logger)

	r := mux.NewRouter()
	r.HandleFunc("/v1/notes", notesHandler.Generate).Methods(http.MethodPost)
	r.HandleFunc("/v1/notes", notesHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/v1/notes/{id}", notesHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	}).Methods(http.MethodGet)

	handler := corsMiddleware(loggingMiddleware(logger)(r))

	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.Address,
			Handler: handler,
		},
		logger: logger.With().Str("component", "server").Logger(),
	}
}

// Start serves until a shutdown signal arrives, then drains gracefully.
func (s *Server) Start() error {
	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", s.httpServer.Addr).Msg("starting notes server")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		s.logger.Info().Str("signal", sig.String()).Msg("shutting down server")
		return s.Shutdown()
	}
}

// Shutdown drains outstanding requests before closing.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info().Msg("server exited")
	return nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
