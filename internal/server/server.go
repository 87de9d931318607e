// Package server exposes the demangler over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/skdltmxn/cxxdemangle/demangle"
	"github.com/skdltmxn/cxxdemangle/internal/config"
)

const (
	PingURL     = "/ping"
	DemangleURL = "/demangle"
)

type Server struct {
	config config.Config
	logger zerolog.Logger
	opts   []demangle.Option
	server *http.Server
}

// New returns a server for config. Demangle options are resolved once here
// so invalid limits fail at startup.
func New(config config.Config, logger zerolog.Logger) (*Server, error) {
	opts, err := config.DemangleOptions(logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config: config,
		logger: logger,
		opts:   opts,
	}

	server := &http.Server{
		Addr:              config.ServerAddress,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.SetupRouter(server)
	s.server = server

	return s, nil
}

// SetupRouter installs the routes on server.
func (s *Server) SetupRouter(server *http.Server) {
	router := gin.New()
	router.Use(gin.Recovery(), s.logMiddleware())

	router.GET(PingURL, func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})
	router.POST(DemangleURL, s.demangleBatch)
	router.GET(DemangleURL+"/:symbol", s.demangleOne)

	server.Handler = router
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) logMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		s.logger.Debug().
			Str("method", ctx.Request.Method).
			Str("path", ctx.FullPath()).
			Int("status", ctx.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server on group and stops it once ctx is done.
func (s *Server) Run(ctx context.Context, group *errgroup.Group) {
	group.Go(func() error {
		s.logger.Info().Msgf("start HTTP server at %s", s.config.ServerAddress)

		err := s.Start()
		if err != nil {
			// returned once Shutdown begins
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			s.logger.Error().Err(err).Msg("cannot start HTTP server")
		}
		return err
	})

	group.Go(func() error {
		<-ctx.Done()

		s.logger.Info().Msg("HTTP server: graceful shutdown")

		toCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownGrace)
		defer cancel()

		err := s.Shutdown(toCtx)
		if err != nil {
			s.logger.Error().Err(err).Msg("cannot shutdown HTTP server gracefully")
		}

		s.logger.Info().Msg("HTTP server is stopped")
		return err
	})
}

// UseJSONFieldNames makes validation errors name fields by their json tag.
func UseJSONFieldNames() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}
