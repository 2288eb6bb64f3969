package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edalens/internal/api"
	"github.com/KaramelBytes/edalens/internal/artifacts"
)

var (
	srvAddr       string
	srvNoInsights bool
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		addr := c.Addr
		if srvAddr != "" {
			addr = srvAddr
		}
		store, err := artifacts.NewStore(c.ArtifactsDir)
		if err != nil {
			return err
		}
		analyzer, err := newAnalyzer(c, store, !srvNoInsights)
		if err != nil {
			return err
		}
		e, err := api.New(api.Options{
			Analyzer:       analyzer,
			Store:          store,
			Version:        Version,
			UploadLimit:    c.UploadLimit,
			RequestLogging: c.RequestLogging,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()
		store.StartSweeper(ctx, c.ArtifactTTL(), 0)

		// No write timeout: a response waits on model inference.
		s := &http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		fmt.Fprintf(cmd.OutOrStdout(), "✓ edalens %s listening on http://%s\n", Version, addr)
		log.Info().
			Str("addr", addr).
			Str("provider", c.Provider).
			Str("model", c.Model).
			Str("artifacts", store.Root).
			Dur("artifact_ttl", c.ArtifactTTL()).
			Msg("server started")

		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := e.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (default from config, 127.0.0.1:7860)")
	serveCmd.Flags().BoolVar(&srvNoInsights, "no-insights", false, "serve without contacting a model")
}
