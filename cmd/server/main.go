package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dmorozov/showcase-backend/internal/config"
	"github.com/dmorozov/showcase-backend/internal/db"
	httpHandlers "github.com/dmorozov/showcase-backend/internal/http/handlers"
	httpRouter "github.com/dmorozov/showcase-backend/internal/http/router"
	"github.com/dmorozov/showcase-backend/internal/logger"
	"github.com/dmorozov/showcase-backend/internal/repository"
	"github.com/dmorozov/showcase-backend/internal/service"
	"github.com/dmorozov/showcase-backend/internal/storage"
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

	mediaStorage, err := storage.NewMediaStorage(cfg.UploadsPath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	caseStudyRepo := repository.NewCaseStudyRepository(dbConn)
	companyRepo := repository.NewCompanyRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)
	testimonialRepo := repository.NewTestimonialRepository(dbConn)
	adminRepo := repository.NewAdminRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(adminRepo, tokenManager)
	caseStudyService := service.NewCaseStudyService(caseStudyRepo, companyRepo, mediaRepo, testimonialRepo)
	mediaService := service.NewMediaService(caseStudyRepo, companyRepo, mediaRepo, mediaStorage, cfg.PublicUploadsBase)
	testimonialService := service.NewTestimonialService(testimonialRepo, companyRepo)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	caseStudyHandler := httpHandlers.NewCaseStudyHandler(caseStudyService)
	mediaHandler := httpHandlers.NewMediaHandler(mediaService, caseStudyService)
	testimonialHandler := httpHandlers.NewTestimonialHandler(testimonialService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn, cfg.UploadsPath)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, caseStudyHandler, mediaHandler, testimonialHandler, healthHandler, tokenManager)

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
