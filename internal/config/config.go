package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN            string
	Environment      string
	HTTPAddr         string
	JWTSecret        string
	CalendarAPIURL   string
	CalendarAPIToken string
	RabbitMQURL      string
	TelegramToken    string
	Timezone         string
	StandardPrice    int64
	LessonDuration   int
	MigrationsPath   string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:            os.Getenv("DB_DSN"),
		Environment:      os.Getenv("ENV"),
		HTTPAddr:         os.Getenv("HTTP_ADDR"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		CalendarAPIURL:   os.Getenv("CALENDAR_API_URL"),
		CalendarAPIToken: os.Getenv("CALENDAR_API_TOKEN"),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		Timezone:         os.Getenv("TIMEZONE"),
		MigrationsPath:   os.Getenv("MIGRATIONS_PATH"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Tokyo"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	cfg.StandardPrice = envInt64("STANDARD_LESSON_PRICE", 4000)
	cfg.LessonDuration = int(envInt64("LESSON_DURATION_MINUTES", 50))

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	if cfg.CalendarAPIURL == "" {
		return nil, fmt.Errorf("CALENDAR_API_URL is required but not set")
	}

	return cfg, nil
}

func envInt64(key string, def int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using default %d", key, raw, def)
		return def
	}
	return v
}
