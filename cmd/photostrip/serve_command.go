package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"photostrip/internal/api"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored session artifacts over HTTP",
		Long: "Serve strip images, documents, animations, and scan codes for stored sessions.\n" +
			"The scan code of each session points at this server's strip.png route.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			service, err := ctx.artifacts()
			if err != nil {
				return err
			}

			addr := strings.TrimSpace(bind)
			if addr == "" {
				addr = cfg.Server.Bind
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			server := api.NewServer(api.ServerConfig{
				Bind:      addr,
				Artifacts: service,
				Logger:    logger,
				StartTime: time.Now(),
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Serving artifacts on http://%s (public base %s)\n", server.Addr(), cfg.Export.PublicBaseURL)
			return server.ListenAndServe(signalCtx)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default from config)")
	return cmd
}
