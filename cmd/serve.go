package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dosada05/team-manager/calories"
	"github.com/Dosada05/team-manager/config"
	"github.com/Dosada05/team-manager/db"
	"github.com/Dosada05/team-manager/handlers"
	"github.com/Dosada05/team-manager/live"
	"github.com/Dosada05/team-manager/models"
	"github.com/Dosada05/team-manager/repositories"
	api "github.com/Dosada05/team-manager/routes"
	"github.com/Dosada05/team-manager/services"
	"github.com/Dosada05/team-manager/sessions"
	"github.com/Dosada05/team-manager/storage"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg, dbConn, err := openDatabase()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("driver", cfg.DatabaseDriver))

	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	if err := db.Migrate(ctx, dbConn, cfg.DatabaseDriver); err != nil {
		return err
	}
	logger.Info("database schema ready")

	uploader, err := newUploader(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("file storage initialized", slog.String("backend", cfg.StorageBackend))

	images, err := storage.NewLocalUploader(cfg.ImageDir, models.ImagesBaseURL)
	if err != nil {
		return fmt.Errorf("failed to open image directory: %w", err)
	}

	sessionStore, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	sessionManager := sessions.NewManager(sessionStore, []byte(cfg.SessionSecret), cfg.SessionTTL, cfg.SecureCookies)
	logger.Info("session store initialized", slog.String("store", cfg.SessionStore))

	// Инициализация WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := live.NewHub(logger, cfg.CORSAllowedOrigins...)
	go hub.Run(hubCtx)

	// Инициализация репозиториев
	sportRepo := repositories.NewPostgresSportRepository(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	planRepo := repositories.NewPostgresPlanRepository(dbConn)
	recordRepo := repositories.NewPostgresRecordRepository(dbConn)
	foodRepo := repositories.NewPostgresFoodRecordRepository(dbConn)

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo, logger)
	sportService := services.NewSportService(sportRepo, logger)
	playerService := services.NewPlayerService(playerRepo, recordRepo, sportRepo, uploader, hub, logger)
	planService := services.NewPlanService(planRepo, recordRepo, hub, logger)
	recordService := services.NewRecordService(recordRepo, playerRepo, planRepo, hub, logger)
	foodService := services.NewFoodService(foodRepo, calories.NewRandomRecognizer(nil), uploader, logger)
	statsService := services.NewStatsService(sportRepo, playerRepo, planRepo, recordRepo, uploader)
	dashboardService := services.NewDashboardService(sportRepo, playerRepo, planRepo, recordRepo, foodRepo, uploader)
	fileService := services.NewFileService(uploader, images)

	added, err := sportService.SeedDefaults(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed sports: %w", err)
	}
	logger.Info("default sports checked", slog.Int("added", added), slog.Int("foods", calories.Len()))

	router := api.SetupRoutes(api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, sessionManager, logger),
		Sport:     handlers.NewSportHandler(sportService, sessionManager, logger),
		Dashboard: handlers.NewDashboardHandler(dashboardService, statsService, logger),
		Player:    handlers.NewPlayerHandler(playerService, logger),
		Plan:      handlers.NewPlanHandler(planService, logger),
		Record:    handlers.NewRecordHandler(recordService, logger),
		Food:      handlers.NewFoodHandler(foodService, logger),
		Upload:    handlers.NewUploadHandler(fileService, logger),
		WebSocket: handlers.NewWebSocketHandler(hub, logger),
	}, api.Options{
		Sessions:       sessionManager,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		stopHub()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
	}
	return nil
}

func newUploader(ctx context.Context, cfg *config.Config) (storage.FileUploader, error) {
	if cfg.StorageBackend == config.StorageR2 {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		return uploader, nil
	}

	uploader, err := storage.NewLocalUploader(cfg.UploadDir, "/uploads")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local uploader: %w", err)
	}
	return uploader, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (sessions.Store, func(), error) {
	if cfg.SessionStore == config.StoreRedis {
		store, err := sessions.NewRedisStore(ctx, sessions.RedisConfig{URL: cfg.RedisURL, TTL: cfg.SessionTTL})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return sessions.NewMemoryStore(cfg.SessionTTL), func() {}, nil
}
