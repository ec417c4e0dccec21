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

	_ "job_tracker/docs"
	"job_tracker/internal/auth"
	"job_tracker/internal/blob"
	"job_tracker/internal/config"
	"job_tracker/internal/http_server"
	"job_tracker/internal/jobs"
	"job_tracker/internal/lib/jwt"
	sl "job_tracker/internal/lib/logger/sl"
	"job_tracker/internal/rabbitmq"
	"job_tracker/internal/resumes"
	"job_tracker/internal/storage/memory"
	"job_tracker/internal/storage/postgres"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// repository is what the services need from a store.
type repository interface {
	auth.UserSaver
	auth.UserProvider
	resumes.ResumeSaver
	resumes.ResumeProvider
	jobs.JobSaver
	jobs.JobProvider
	Ping(ctx context.Context) error
	Close()
}

// @title Job Tracker API
// @version 1.0
// @description Resume uploads and job application tracking behind bearer-token auth.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.MustLoad(config.Path())

	log := setupLogger(cfg.Env)

	log.Info("starting job tracker", slog.String("env", cfg.Env))

	if cfg.Tokens.IsInsecure() {
		log.Warn("JWT_SECRET is not set, tokens are signed with an insecure default secret")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	repo, err := setupStorage(ctx, log, cfg)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}
	defer repo.Close()

	blobs, err := setupBlobStore(ctx, cfg)
	if err != nil {
		log.Error("failed to init blob store", sl.Err(err))
		os.Exit(1)
	}

	var publisher auth.Publisher
	if cfg.RabbitMQ.URL != "" {
		msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
		if err != nil {
			log.Error("failed to connect rabbitmq", sl.Err(err))
			os.Exit(1)
		}
		defer msgBroker.Close()

		publisher = msgBroker
	} else {
		log.Info("rabbitmq url is empty, account events are disabled")
	}

	tokens := jwt.New(cfg.Tokens.Secret, cfg.Tokens.AccessTokenTTL)

	authService := auth.New(log, repo, repo, tokens, publisher)
	resumeService := resumes.New(log, repo, repo, blobs, cfg.Uploads.MaxSize, cfg.Uploads.AllowedExt)
	jobService := jobs.New(log, repo, repo)

	router := http_server.NewRouter(http_server.Deps{
		Log:       log,
		Auth:      authService,
		Resumes:   resumeService,
		Jobs:      jobService,
		DB:        repo,
		MaxUpload: cfg.Uploads.MaxSize,
		RateLimit: cfg.RateLimit.Enabled,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", sl.Err(err))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", sl.Err(err))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

func setupStorage(ctx context.Context, log *slog.Logger, cfg *config.Config) (repository, error) {
	switch cfg.DBDriver {
	case config.DBMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	case config.DBPostgres:
		pg, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, err
		}

		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}

		return pg, nil
	}

	return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
}

func setupBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageLocal:
		return blob.NewLocal(cfg.Storage.LocalDir)
	case config.StorageS3:
		return blob.NewS3(ctx, cfg.Storage.S3)
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
