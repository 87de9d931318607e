package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/skdltmxn/cxxdemangle/internal/config"
	"github.com/skdltmxn/cxxdemangle/internal/server"
)

var interruptSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the demangler over HTTP",
	Long: `Run an HTTP server exposing the demangler.

Routes:
  GET  /ping               liveness check
  POST /demangle           {"symbols": [...], "no_params": bool, "no_return_type": bool}
  GET  /demangle/:symbol   a single symbol`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	def := config.Default()
	serveCmd.Flags().StringP("server-address", "a", def.ServerAddress, "address to listen on")
	serveCmd.Flags().Duration("shutdown-grace", def.ShutdownGrace, "time allowed for in-flight requests on shutdown")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	server.UseJSONFieldNames()

	s, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), interruptSignals...)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	s.Run(ctx, group)

	return group.Wait()
}
