// Package web serves the museum catalogue, upload and backup operations as
// JSON over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/roach88/museum/internal/backup"
	"github.com/roach88/museum/internal/catalog"
	"github.com/roach88/museum/internal/ingest"
)

// maxUploadBytes bounds a multipart upload.
const maxUploadBytes = 32 << 20

// Ingester loads an uploaded CSV payload.
type Ingester interface {
	Ingest(ctx context.Context, payload []byte, mode ingest.Mode) (ingest.Result, error)
}

// Backuper copies the record set to and from blob storage.
type Backuper interface {
	Backup(ctx context.Context) (backup.Outcome, error)
	Restore(ctx context.Context) (backup.Outcome, ingest.Result, error)
}

// Server handles HTTP requests.
type Server struct {
	catalog *catalog.Service
	ingest  Ingester
	backup  Backuper
	logger  *slog.Logger
	mux     *http.ServeMux
}

// NewServer creates a server and registers its routes. logger may be nil.
func NewServer(svc *catalog.Service, ing Ingester, bk Backuper, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		catalog: svc,
		ingest:  ing,
		backup:  bk,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/objects", s.handleListObjects)
	s.mux.HandleFunc("POST /api/objects", s.handleCreateObject)
	s.mux.HandleFunc("GET /api/objects/{id}", s.handleGetObject)
	s.mux.HandleFunc("PUT /api/objects/{id}", s.handleEditObject)
	s.mux.HandleFunc("POST /api/objects/{id}/edit", s.handleEditObject)
	s.mux.HandleFunc("DELETE /api/objects/{id}", s.handleDeleteObject)
	s.mux.HandleFunc("POST /api/objects/{id}/delete", s.handleDeleteObject)
	s.mux.HandleFunc("GET /api/objects/{id}/delete", s.handleDeleteProbe)
	s.mux.HandleFunc("POST /api/upload", s.handleUpload)
	s.mux.HandleFunc("POST /api/backup", s.handleBackup)
	s.mux.HandleFunc("POST /api/restore", s.handleRestore)
}

// Handler returns the HTTP handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
