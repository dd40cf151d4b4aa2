package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/hexa/pkg/adapters/httpapi"
)

var (
	serveAddr  string
	serveLimit int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the order API over HTTP",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _, err := loadConfig()
		if err != nil {
			fatal("Error loading config", err)
		}
		addr := serveAddr
		if !cmd.Flags().Changed("addr") && cfg.HTTP.Addr != "" {
			addr = cfg.HTTP.Addr
		}
		limit := serveLimit
		if !cmd.Flags().Changed("rate-limit") && cfg.HTTP.RequestLimit > 0 {
			limit = cfg.HTTP.RequestLimit
		}

		inst := openInstance(cmd)
		defer inst.Close()

		srv := &http.Server{
			Addr: addr,
			Handler: httpapi.New(inst.Service, httpapi.Config{
				Logger:       slog.Default(),
				RequestLimit: limit,
				Window:       cfg.HTTP.Window,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			slog.Info("listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			slog.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			fatal("Error serving", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().IntVar(&serveLimit, "rate-limit", 600, "Requests per minute and client IP (0 disables)")
}
