package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prokaiwa/lesson-booking/internal/app"
	"github.com/prokaiwa/lesson-booking/internal/calendar"
	"github.com/prokaiwa/lesson-booking/internal/config"
	"github.com/prokaiwa/lesson-booking/internal/handler"
	"github.com/prokaiwa/lesson-booking/internal/ledger"
	"github.com/prokaiwa/lesson-booking/internal/notify"
	"github.com/prokaiwa/lesson-booking/internal/queue"
	"github.com/prokaiwa/lesson-booking/internal/repository"
	"github.com/prokaiwa/lesson-booking/internal/router"
	"github.com/prokaiwa/lesson-booking/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting lesson booking service",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("Failed to load timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	// Применяем миграции при старте
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории и клиенты коллабораторов
	bookingRepo := repository.NewBookingRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	consultationRepo := repository.NewConsultationRepository(pool)
	creditLedger := ledger.NewCreditLedger(pool)
	calendarClient := calendar.NewClient(cfg.CalendarAPIURL, cfg.CalendarAPIToken)
	publisher := queue.NewPublisher(cfg.RabbitMQURL, logger)

	notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create notifier", zap.Error(err))
	}

	// Сервисы
	pricing := service.NewPricingResolver(creditLedger, cfg.StandardPrice, logger)
	availability := service.NewAvailabilityChecker(bookingRepo, availabilityRepo, location, cfg.LessonDuration, logger)
	bookingService := service.NewBookingService(
		studentRepo,
		bookingRepo,
		consultationRepo,
		pricing,
		availability,
		calendarClient,
		creditLedger,
		notifier,
		publisher,
		location,
		cfg.LessonDuration,
		logger,
	)

	e := router.New(
		handler.NewBookingHandler(bookingService, logger),
		handler.NewHealthHandler(pool),
		cfg.JWTSecret,
	)

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}
