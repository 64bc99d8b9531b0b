package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveNoWatch bool
)

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Disable the content watcher")
	serveCmd.Flags().BoolVar(&buildDrafts, "drafts", false, "Build draft posts too")
	serveCmd.Flags().StringVar(&buildContentDir, "content", "", "Path to the content directory")
	serveCmd.Flags().StringVar(&buildOutputDir, "out", "", "Path to the build directory")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the content, watch it for changes and serve the build directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		b := newBuilder(cmd)
		if err := b.Build(); err != nil {
			return err
		}
		if cfg.Server.Watch && !serveNoWatch {
			if err := b.Watch(ctx); err != nil {
				return err
			}
		}

		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}
		dir := cfg.Content.BuildDir
		if buildOutputDir != "" {
			dir = buildOutputDir
		}
		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           http.FileServer(http.Dir(dir)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shut down server")
			}
		}()

		log.Info().Int("port", port).Str("path", dir).Msg("Listening")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Info().Msg("Server stopped")
		return nil
	},
}
