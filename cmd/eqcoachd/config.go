package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eqcoach/eqcoach/internal/submission"
)

type config struct {
	Port              string
	DatabaseURL       string
	StorageBackend    string
	LocalStoragePath  string
	S3                submission.S3Config
	GCSBucket         string
	JWTSecret         string
	Issuer            string
	QuestionnairePath string
	ResultCacheSize   int
	CORSOrigin        string
	LogLevel          string
	AutoMigrate       bool
}

func loadConfig() (config, error) {
	cfg := config{
		Port:             envOrDefault("PORT", "8080"),
		DatabaseURL:      envOrDefault("DATABASE_URL", "postgres://localhost:5432/eqcoach?sslmode=disable"),
		StorageBackend:   envOrDefault("STORAGE_BACKEND", "local"),
		LocalStoragePath: envOrDefault("LOCAL_STORAGE_PATH", "/tmp/eqcoach-data"),
		S3: submission.S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		},
		GCSBucket:         os.Getenv("GCS_BUCKET"),
		JWTSecret:         os.Getenv("AUTH_JWT_SECRET"),
		Issuer:            os.Getenv("AUTH_ISSUER"),
		QuestionnairePath: os.Getenv("QUESTIONNAIRE_PATH"),
		CORSOrigin:        os.Getenv("CORS_ORIGIN"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
	}

	size, err := strconv.Atoi(envOrDefault("RESULT_CACHE_SIZE", "256"))
	if err != nil || size <= 0 {
		return cfg, fmt.Errorf("RESULT_CACHE_SIZE must be a positive integer")
	}
	cfg.ResultCacheSize = size

	cfg.AutoMigrate, err = strconv.ParseBool(envOrDefault("AUTO_MIGRATE", "true"))
	if err != nil {
		return cfg, fmt.Errorf("AUTO_MIGRATE: %w", err)
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func newStorage(ctx context.Context, cfg config) (submission.ResultStore, error) {
	switch strings.ToLower(cfg.StorageBackend) {
	case "local", "":
		return submission.NewLocalStorage(cfg.LocalStoragePath), nil
	case "s3":
		return submission.NewS3Storage(ctx, cfg.S3)
	case "gcs":
		return submission.NewGCSStorage(ctx, cfg.GCSBucket)
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (want local, s3 or gcs)", cfg.StorageBackend)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
