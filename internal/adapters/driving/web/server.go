// Package web serves a local HTML viewer that shows every method's output
// next to the original PDF.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/pdfcompare/internal/core/ports/driving"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// MaxUploadSize bounds the size of an uploaded PDF.
const MaxUploadSize = 64 << 20

// ErrMissingService is returned when a required port is nil.
var ErrMissingService = errors.New("web: comparison and document services are required")

// Ports aggregates the driving ports used by the viewer.
type Ports struct {
	Comparison driving.ComparisonService
	Document   driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Comparison == nil || p.Document == nil {
		return ErrMissingService
	}
	return nil
}

// Server is the HTML comparison viewer.
type Server struct {
	mu       sync.Mutex
	ports    *Ports
	renderer *renderer
	server   *http.Server
	listener net.Listener
	port     int
}

// NewServer creates a viewer over the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Server{ports: ports, renderer: r}, nil
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /compare", s.handleCompareExample)
	mux.HandleFunc("POST /compare", s.handleCompareUpload)
	mux.HandleFunc("GET /results/{id}", s.handleResultSet)
	mux.HandleFunc("GET /original", s.handleOriginal)
	return mux
}

// Start listens on addr and serves in the background.
// A port of 0 picks a free port; Port reports the one chosen.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("web viewer stopped: %v", err)
		}
	}()

	return nil
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := s.Start(addr); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop()
}

// Stop shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// URL returns the viewer's base URL.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d/", s.Port())
}
