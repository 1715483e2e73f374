// Command eqcoachd is the eqcoach backend service.
// It serves the questionnaire, scores and stores submitted assessments, and
// returns each user's past results.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eqcoach/eqcoach/internal/api"
	"github.com/eqcoach/eqcoach/internal/auth"
	"github.com/eqcoach/eqcoach/internal/platform"
	"github.com/eqcoach/eqcoach/internal/submission"
	"github.com/eqcoach/eqcoach/internal/users"
	"github.com/eqcoach/eqcoach/pkg/assessment"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "eqcoachd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	def := assessment.DefaultDefinition()
	if cfg.QuestionnairePath != "" {
		def, err = assessment.LoadDefinition(cfg.QuestionnairePath)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := platform.AutoMigrate(db, logger); err != nil {
			return err
		}
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	verifier, err := auth.NewHMACVerifier(cfg.JWTSecret, cfg.Issuer)
	if err != nil {
		return err
	}

	svc := submission.NewService(
		assessment.NewEngine(def),
		users.NewService(db),
		submission.NewPostgresRepository(db),
		store,
		logger.Named("submission"),
	)

	handler := api.NewHandler(db, svc, verifier, api.Options{
		CORSOrigin: cfg.CORSOrigin,
		Cache:      api.NewResultCache(cfg.ResultCacheSize),
		Logger:     logger.Named("api"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting eqcoachd",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.StorageBackend),
			zap.Int("questions", def.QuestionCount()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
