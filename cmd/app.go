package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/commune-hq/commune/internal/application/config"
	"github.com/commune-hq/commune/internal/application/constant"
	"github.com/commune-hq/commune/internal/application/metric"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
	"github.com/commune-hq/commune/internal/infra/ports/http/handlers"
	"github.com/commune-hq/commune/internal/infra/ports/http/server"
	"github.com/commune-hq/commune/internal/infra/ports/ws"
	"github.com/commune-hq/commune/internal/usecase"
)

func runApp() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: slog.LevelInfo},
			),
		),
	)

	cfg, err := config.New()
	if err != nil {
		slog.Error("parse config", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	slog.Info("Running app", slog.Bool("debug", cfg.Debug))

	dbConn, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		slog.Error("connect to postgres", slog.Any(constant.Error, err))
		os.Exit(1)
	}
	defer dbConn.Close()

	userRepo := repository.NewUserRepo(dbConn)
	channelRepo := repository.NewChannelRepo(dbConn)
	banRecordRepo := repository.NewBanRecordRepo(dbConn)
	postRepo := repository.NewPostRepo(dbConn)
	eventRepo := repository.NewEventRepo(dbConn)

	hub := ws.NewHub()

	userUsecase := usecase.NewUserUsecase([]byte(cfg.JWTSecret), userRepo)
	auditUsecase := usecase.NewAuditUsecase(banRecordRepo, channelRepo)
	membershipUsecase := usecase.NewMembershipUsecase(channelRepo, userRepo, auditUsecase, hub)
	channelUsecase := usecase.NewChannelUsecase(channelRepo, hub)
	postUsecase := usecase.NewPostUsecase(postRepo, channelRepo, membershipUsecase)
	eventUsecase := usecase.NewEventUsecase(eventRepo, channelRepo, membershipUsecase)

	authHandler := handlers.NewAuthHandler(userUsecase)
	channelHandler := handlers.NewChannelHandler(channelUsecase)
	membershipHandler := handlers.NewMembershipHandler(membershipUsecase)
	moderationHandler := handlers.NewModerationHandler(membershipUsecase, auditUsecase)
	postHandler := handlers.NewPostHandler(postUsecase)
	eventHandler := handlers.NewEventHandler(eventUsecase)
	wsHandler := handlers.NewWebSocketHandler(hub, membershipUsecase)

	echoSrv := server.New(
		cfg,
		authHandler,
		channelHandler,
		membershipHandler,
		moderationHandler,
		postHandler,
		eventHandler,
		wsHandler,
	)

	metricSrv := metric.NewServer()
	go func() {
		if err := metricSrv.Start(":" + cfg.MetricsPort); err != nil {
			slog.Error("metrics server failed", slog.Any(constant.Error, err))
		}
	}()

	srvCh := make(chan error, 1)
	go func() {
		srvCh <- echoSrv.Start(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server due to context cancel")
	case err := <-srvCh:
		slog.Error(
			"HTTP server failed",
			slog.Any(constant.Error, err),
		)

		os.Exit(1)
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeoutCancel()

	if err := echoSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown server", slog.Any(constant.Error, err))
	}

	if err := metricSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown metrics server", slog.Any(constant.Error, err))
	}
}
