package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/internal/api"
	"github.com/satriahrh/audexa/internal/auth"
	"github.com/satriahrh/audexa/internal/telegram"
	"github.com/satriahrh/audexa/internal/websocket"
	"github.com/satriahrh/audexa/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, websocket channel and Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := newApp(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize services", zap.Error(err))
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := application.Close(closeCtx); err != nil {
				logger.Warn("Failed to release resources", zap.Error(err))
			}
		}()

		var tokens api.TokenManager
		if cfg.Auth.Secret != "" {
			manager, err := auth.NewManager(cfg.Auth, logger)
			if err != nil {
				return err
			}
			tokens = manager
		} else {
			logger.Warn("JWT_SECRET not set, sessions and the websocket channel are disabled")
		}

		cleanup := usecase.NewSessionCleanupService(application.sessions, cfg.Storage.CleanupInterval, logger)
		cleanup.Start()
		defer cleanup.Stop()

		e := echo.New()
		e.HideBanner = true
		e.Use(middleware.Logger())
		e.Use(middleware.Recover())
		if len(cfg.Server.CORSOrigins) > 0 {
			e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.Server.CORSOrigins}))
		} else {
			e.Use(middleware.CORS())
		}

		var hub *websocket.Hub
		if tokens != nil {
			hub = websocket.NewHub(application.conversation, logger)
			go hub.Run(ctx)
		}
		api.InitRoutes(e, application.conversation, tokens, hub, logger)

		if cfg.Telegram.Enabled() {
			bot, err := telegram.NewBot(ctx, cfg.Telegram.Token, cfg.Telegram.DefaultLanguage, application.conversation, logger)
			if err != nil {
				logger.Error("Telegram bot disabled", zap.Error(err))
			} else {
				go bot.Start()
				defer bot.Stop()
			}
		}

		go func() {
			if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("shutting down the server", zap.Error(err))
				stop()
			}
		}()
		logger.Info("Server started", zap.String("port", cfg.Server.Port))

		<-ctx.Done()
		logger.Info("Server is shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server forced to shutdown", zap.Error(err))
			return err
		}

		logger.Info("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
