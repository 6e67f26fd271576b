package main

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/countdown/internal/cache"
	"github.com/gitrdm/countdown/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			c, err := cache.Open(cache.Options{Dir: a.cfg.Server.CacheDir, Logger: a.logger})
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					a.logger.Warn("cache close failed", zap.Error(err))
				}
			}()

			metricsPath := ""
			if a.cfg.Metrics.Enabled {
				metricsPath = a.cfg.Metrics.Path
			}
			srv := server.New(server.Options{
				Cache:       c,
				Solver:      a.cfg.SolverOptions(),
				MetricsPath: metricsPath,
				Logger:      a.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, a.cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
