package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/forum-backend/internal/config"
	"github.com/ignatzorin/forum-backend/internal/db"
	httpHandlers "github.com/ignatzorin/forum-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/forum-backend/internal/http/router"
	"github.com/ignatzorin/forum-backend/internal/logger"
	"github.com/ignatzorin/forum-backend/internal/mailer"
	"github.com/ignatzorin/forum-backend/internal/repository"
	"github.com/ignatzorin/forum-backend/internal/service"
	"github.com/ignatzorin/forum-backend/internal/storage"
	"github.com/ignatzorin/forum-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	avatarStorage, err := storage.NewAvatarStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	reportMailer := mailer.New(mailer.Config{
		Host:       cfg.SMTPHost,
		Port:       int(cfg.SMTPPort),
		Username:   cfg.SMTPUsername,
		Password:   cfg.SMTPPassword,
		From:       cfg.SMTPFrom,
		AdminEmail: cfg.AdminEmail,
	})
	if reportMailer == nil {
		log.Printf("main: SMTP не сконфигурирован, письма о жалобах отключены")
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	categoryRepo := repository.NewCategoryRepository(dbConn)
	postRepo := repository.NewPostRepository(dbConn)
	commentRepo := repository.NewCommentRepository(dbConn)
	voteRepo := repository.NewVoteRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, postRepo, hub)
	postService := service.NewPostService(postRepo, categoryRepo, userRepo, notificationService)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, notificationService)
	voteService := service.NewVoteService(voteRepo, postRepo, commentRepo, notificationService)
	categoryService := service.NewCategoryService(categoryRepo)
	profileService := service.NewProfileService(userRepo)
	mediaService := service.NewMediaService(mediaRepo, avatarStorage)
	statsService := service.NewStatsService(userRepo, postRepo, commentRepo, reportRepo)
	moderationService := service.NewModerationService(reportRepo, userRepo, postRepo, commentRepo)

	var reportService *service.ReportService
	if reportMailer != nil {
		reportService = service.NewReportService(reportRepo, postRepo, commentRepo, reportMailer)
	} else {
		reportService = service.NewReportService(reportRepo, postRepo, commentRepo, nil)
	}

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(profileService)
	categoryHandler := httpHandlers.NewCategoryHandler(categoryService)
	postHandler := httpHandlers.NewPostHandler(postService, voteService)
	commentHandler := httpHandlers.NewCommentHandler(commentService, voteService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	reportHandler := httpHandlers.NewReportHandler(reportService)
	adminHandler := httpHandlers.NewAdminHandler(moderationService, profileService, statsService)
	mediaHandler := httpHandlers.NewMediaHandler(mediaService, cfg.MediaStoragePath)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		categoryHandler,
		postHandler,
		commentHandler,
		notificationHandler,
		reportHandler,
		adminHandler,
		mediaHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
