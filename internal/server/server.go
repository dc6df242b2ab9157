// Package server exposes generation, parsing and export over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/frherrer/tcgen/internal/config"
	"github.com/frherrer/tcgen/internal/generator"
)

const shutdownTimeout = 10 * time.Second

// DocumentExtractor turns an uploaded document into requirements text.
type DocumentExtractor interface {
	Extract(name string, data []byte) (string, error)
}

// Server holds no per-user state: every response carries the whole session
// and clients send back what they need for parse and export.
type Server struct {
	cfg       *config.Config
	gen       generator.Generator
	extractor DocumentExtractor
	log       *logrus.Logger
	engine    *gin.Engine
}

// NewServer builds the gin engine and registers all routes.
func NewServer(cfg *config.Config, gen generator.Generator, x DocumentExtractor, log *logrus.Logger) *Server {
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		gen:       gen,
		extractor: x,
		log:       log,
		engine:    gin.New(),
	}
	s.engine.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	s.engine.Use(gin.Recovery(), requestLogger(log))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	api := s.engine.Group("/api", limitBody(s.cfg.Server.MaxUploadBytes))
	api.POST("/generate", s.generate)
	api.POST("/tokens", s.tokens)
	api.POST("/parse", s.parse)
	api.POST("/export/:kind", s.export)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Listening on %s", s.cfg.Server.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
