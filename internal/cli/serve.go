package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dvcrn/mpesa-go/internal/app"
)

func serveCmd(g *globals) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the operations as an authenticated HTTP gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, log, err := g.client()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.ServerPort
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app.ValidateAtStartup(ctx, client, log)

			srv := &http.Server{
				Addr:              ":" + strconv.Itoa(port),
				Handler:           app.NewServer(client, cfg.AdminAPIKey, log),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Server shutdown failed")
				}
			}()

			log.Info().Int("port", port).Str("environment", client.Environment()).Msg("Starting server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Info().Msg("Server stopped")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 9879, "Port to listen on (default from server_port)")
	return cmd
}
