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

	"github.com/ecis/inspection-gin/internal/api"
	"github.com/ecis/inspection-gin/internal/config"
	"github.com/ecis/inspection-gin/internal/container"
	"github.com/ecis/inspection-gin/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the ECIS Inspection API server.
The server listens on the configured host and port, serves the REST API,
pushes state transitions over WebSocket and SSE, and reloads API keys,
webhooks and log level when the config file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if host, _ := cmd.Flags().GetString("host"); cmd.Flags().Changed("host") {
			cfg.Server.Host = host
		}
		if port, _ := cmd.Flags().GetInt("port"); cmd.Flags().Changed("port") {
			cfg.Server.Port = port
		}
		logger := logging.GetLogger()

		if config.IsProduction(cfg) {
			gin.SetMode(gin.ReleaseMode)
		}

		if err := api.InitTracing(cfg.Tracing); err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}

		ctr, err := container.NewContainer(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		// 重启前未投递完的通知重新入队
		if resumed, err := ctr.Notifier().ResumePending(100); err != nil {
			logger.WithError(err).Warn("Failed to resume pending notifications")
		} else if resumed > 0 {
			logger.WithField("count", resumed).Info("Resumed pending notifications")
		}

		collector := ctr.NewMetricsCollector(30 * time.Second)
		collector.Start()
		defer collector.Stop()

		if configPath != "" {
			watcher := config.NewConfigWatcher(cfg, configPath)
			watcher.OnConfigChange(ctr.ApplyConfig)
			watcher.OnError(func(err error) {
				logger.WithError(err).Error("Config reload rejected")
			})
			if err := watcher.Start(); err != nil {
				logger.WithError(err).Warn("Config hot reload disabled")
			} else {
				defer watcher.Stop()
			}
		}

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:              addr,
			Handler:           ctr.Router(cfg),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serveErr := make(chan error, 1)
		go func() {
			logger.WithFields(logrus.Fields{
				"addr":    addr,
				"env":     cfg.Env,
				"version": api.Version,
			}).Info("Server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case err := <-serveErr:
			if err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
		}

		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Server forced to shutdown")
		}
		if err := api.ShutdownTracing(ctx); err != nil {
			logger.WithError(err).Warn("Failed to flush traces")
		}

		logger.Info("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().String("host", "0.0.0.0", "Server host (overrides config)")
	serverCmd.Flags().Int("port", 8080, "Server port (overrides config)")
}
