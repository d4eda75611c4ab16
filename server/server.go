// Package server exposes the portfolio assistant over HTTP for the web
// frontend: POST chat, GET health and GET store-info under one prefix.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
	"github.com/lauvickie617/vickie-ai-portfolio/model"
)

// Options are fixed for the life of a Server.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
	MaxBodyBytes   int64
	ModelName      string
}

// Settings can change while the server runs (config reload).
type Settings struct {
	StoreName      string
	RequestTimeout time.Duration
}

// OptionsFrom derives server options from the loaded config.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		ModelName:      cfg.ActiveModel(),
	}
}

// SettingsFrom derives the reloadable settings from the loaded config.
func SettingsFrom(cfg *config.Config) Settings {
	return Settings{
		StoreName:      cfg.FileSearchStoreName,
		RequestTimeout: cfg.RequestTimeout,
	}
}

// Server is stateless per request: every chat call carries its own history.
type Server struct {
	gen         model.Generator
	opts        Options
	settings    atomic.Pointer[Settings]
	logger      *zap.Logger
	limiter     *RateLimiter
	transcripts model.TranscriptRecorder
	now         func() time.Time

	httpServer *http.Server
	background sync.WaitGroup
}

// New builds a server around gen. A nil logger discards logs.
func New(gen model.Generator, opts Options, settings Settings, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.APIPrefix = normalizePrefix(opts.APIPrefix)
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	s := &Server{
		gen:     gen,
		opts:    opts,
		logger:  logger,
		limiter: NewRateLimiter(opts.RateLimit, opts.RateBurst),
		now:     time.Now,
	}
	s.settings.Store(&settings)
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// WithTranscripts records every answered chat request.
func (s *Server) WithTranscripts(rec model.TranscriptRecorder) *Server {
	s.transcripts = rec
	return s
}

// UpdateSettings swaps the reloadable settings. Requests already in flight
// keep the settings they started with.
func (s *Server) UpdateSettings(settings Settings) {
	s.settings.Store(&settings)
	s.logger.Info("settings updated",
		zap.Bool("file_search", settings.StoreName != ""),
		zap.Duration("request_timeout", settings.RequestTimeout),
	)
}

// Settings returns the current reloadable settings.
func (s *Server) Settings() Settings {
	return *s.settings.Load()
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	p := s.opts.APIPrefix
	mux := http.NewServeMux()

	chat := RateLimitMiddleware(s.limiter, s.logger)(http.HandlerFunc(s.handleChat))
	mux.Handle(p+"/chat", chat)
	mux.HandleFunc(p+"/health", s.handleHealth)
	mux.HandleFunc(p+"/store-info", s.handleStoreInfo)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	return Chain(
		RecoveryMiddleware(s.logger),
		RequestIDMiddleware(),
		LoggingMiddleware(s.logger),
		CORSMiddleware(DefaultCORSConfig(s.opts.AllowedOrigins)),
	)(mux)
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("chat server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("prefix", s.opts.APIPrefix),
		zap.String("model", s.opts.ModelName),
		zap.Bool("file_search", s.Settings().StoreName != ""),
	)

	err := s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, waits for in-flight ones and for
// pending transcript writes.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}
