package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/ringside/fightcard/brackets"
	"github.com/ringside/fightcard/config"
	"github.com/ringside/fightcard/db"
	"github.com/ringside/fightcard/handlers"
	"github.com/ringside/fightcard/repositories"
	api "github.com/ringside/fightcard/routes"
	"github.com/ringside/fightcard/services"
	"github.com/ringside/fightcard/storage"
)

// suspensionSweepInterval — как часто проверяются истёкшие дисквалификации.
const suspensionSweepInterval = 1 * time.Hour

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewS3Uploader(storage.S3UploaderConfig{
		AccountID:       cfg.S3AccountID,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		BucketName:      cfg.S3BucketName,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize object storage uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("object storage uploader initialized")

	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Репозитории
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	settingsRepo := repositories.NewPostgresSettingsRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	bracketRepo := repositories.NewPostgresBracketRepository(dbConn)
	boutRepo := repositories.NewPostgresBoutRepository(dbConn)
	fightRepo := repositories.NewPostgresFightRepository(dbConn)
	suspensionRepo := repositories.NewPostgresSuspensionRepository(dbConn)
	txManager := repositories.NewTxManager(dbConn)
	logger.Info("repositories initialized")

	// Сервисы
	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	emailService := services.NewSMTPEmailService(cfg)

	matcher := services.NewBracketMatcher(bracketRepo, eventRepo, services.MatcherConfig{
		DefaultMaxCompetitors: cfg.DefaultMaxCompetitors,
		RuleStyle:             cfg.DefaultRuleStyle,
	}, wsHub, logger)
	placementDispatcher := services.NewPlacementDispatcher(matcher, logger)

	eventService := services.NewEventService(
		txManager, eventRepo, settingsRepo, bracketRepo, boutRepo, fightRepo, logger)
	registrationService := services.NewRegistrationService(
		registrationRepo, eventRepo, placementDispatcher, emailService, uploader, logger)
	bracketService := services.NewBracketService(
		txManager, bracketRepo, boutRepo, fightRepo, settingsRepo, uploader, wsHub, logger)
	boutService := services.NewBoutService(txManager, boutRepo, bracketRepo, fightRepo)
	fightService := services.NewFightService(
		txManager, fightRepo, boutRepo, bracketRepo, wsHub, logger)
	suspensionService := services.NewSuspensionService(suspensionRepo, registrationRepo, logger)
	logger.Info("services initialized")

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	// Фоновое распределение бойцов по сеткам
	go placementDispatcher.Run(rootCtx)
	logger.Info("placement dispatcher started")

	// Планировщик истечения дисквалификаций
	go func() {
		ticker := time.NewTicker(suspensionSweepInterval)
		defer ticker.Stop()
		logger.Info("suspension expiry scheduler started", slog.Duration("interval", suspensionSweepInterval))

		if err := suspensionService.ExpireDue(rootCtx); err != nil {
			logger.Error("scheduler: initial suspension sweep failed", slog.Any("error", err))
		}

		for {
			select {
			case <-rootCtx.Done():
				return
			case <-ticker.C:
				if err := suspensionService.ExpireDue(rootCtx); err != nil {
					logger.Error("scheduler: suspension sweep failed", slog.Any("error", err))
				}
			}
		}
	}()

	// HTTP-обработчики
	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(eventService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	bracketHandler := handlers.NewBracketHandler(bracketService)
	boutHandler := handlers.NewBoutHandler(boutService)
	fightHandler := handlers.NewFightHandler(fightService)
	suspensionHandler := handlers.NewSuspensionHandler(suspensionService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		eventHandler,
		registrationHandler,
		bracketHandler,
		boutHandler,
		fightHandler,
		suspensionHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancelRoot()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
